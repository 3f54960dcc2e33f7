package views

import (
	"strings"
	"unicode/utf8"

	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"github.com/rivo/tview"
)

// AddContactView asks for an 8 character contact code.
type AddContactView struct {
	*FormDialog
	code     *tview.InputField
	onAdd    func(code string) error
	onCancel func()
}

// NewAddContactView creates the add-contact dialog.
func NewAddContactView(theme *ui.Theme) *AddContactView {
	av := &AddContactView{
		FormDialog: newFormDialog(theme, "Add Contact", "Add Contact", 50, 7),
	}
	av.code = tview.NewInputField().
		SetLabel("Contact code: ").
		SetFieldWidth(chat.CodeLength + 2).
		SetPlaceholder("ABCD1234").
		SetAcceptanceFunc(func(text string, _ rune) bool {
			return utf8.RuneCountInString(text) <= chat.CodeLength
		})
	av.code.SetChangedFunc(func(text string) {
		if upper := strings.ToUpper(text); upper != text {
			av.code.SetText(upper)
		}
		av.ClearError()
	})
	av.Form.AddFormItem(av.code)
	av.Form.AddButton("Add", av.submit)
	av.Form.AddButton("Cancel", func() {
		if av.onCancel != nil {
			av.onCancel()
		}
	})
	return av
}

// SetOnAdd sets the callback invoked with the typed code. A returned error
// is shown under the form.
func (av *AddContactView) SetOnAdd(fn func(code string) error) {
	av.onAdd = fn
}

// SetOnCancel sets the callback for the Cancel button.
func (av *AddContactView) SetOnCancel(fn func()) {
	av.onCancel = fn
}

// Reset empties the form.
func (av *AddContactView) Reset() {
	av.code.SetText("")
	av.ClearError()
	av.Form.SetFocus(0)
}

func (av *AddContactView) submit() {
	code := chat.NormalizeCode(av.code.GetText())
	if utf8.RuneCountInString(code) != chat.CodeLength {
		av.SetError(chat.ErrInvalidCode)
		return
	}
	if av.onAdd == nil {
		return
	}
	if err := av.onAdd(code); err != nil {
		av.SetError(err)
		return
	}
	av.Reset()
}
