package views

import (
	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView asks for a display name when nobody is signed in.
type LoginView struct {
	*FormDialog
	name    *tview.InputField
	onLogin func(name string) error
}

// NewLoginView creates the login dialog.
func NewLoginView(theme *ui.Theme) *LoginView {
	lv := &LoginView{
		FormDialog: newFormDialog(theme, "Login", "Welcome to chatmock", 50, 7),
	}
	lv.dismissable = false
	lv.name = tview.NewInputField().
		SetLabel("Display name: ").
		SetFieldWidth(30).
		SetPlaceholder("at least 3 characters")
	lv.name.SetChangedFunc(func(string) { lv.ClearError() })
	lv.Form.AddFormItem(lv.name)
	lv.Form.AddButton("Login", lv.submit)
	return lv
}

// Hints implements Component.
func (lv *LoginView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Login"},
		{Key: "Ctrl-C", Description: "Quit"},
	}
}

// SetOnLogin sets the callback invoked with the typed name. A returned
// error is shown under the form.
func (lv *LoginView) SetOnLogin(fn func(name string) error) {
	lv.onLogin = fn
}

// Reset empties the form.
func (lv *LoginView) Reset() {
	lv.name.SetText("")
	lv.ClearError()
	lv.Form.SetFocus(0)
}

func (lv *LoginView) submit() {
	name := lv.name.GetText()
	if err := session.ValidateName(name); err != nil {
		lv.SetError(err)
		return
	}
	if lv.onLogin == nil {
		return
	}
	if err := lv.onLogin(name); err != nil {
		lv.SetError(err)
		return
	}
	lv.Reset()
}
