package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"github.com/rivo/tview"
)

const avatarPlaceholder = "image URL or path to an image file"

// ProfileView edits the signed-in user's name and avatar and shows the
// contact code as a QR for others to add.
type ProfileView struct {
	*FormDialog
	name     *tview.InputField
	avatar   *tview.InputField
	code     *tview.TextView
	busy     bool
	onSave   func(name, avatar string)
	onLogout func()
	onCancel func()
}

// NewProfileView creates the profile dialog.
func NewProfileView(theme *ui.Theme) *ProfileView {
	pv := &ProfileView{
		FormDialog: newFormDialog(theme, "Profile", "Profile", 96, 22),
	}
	pv.name = tview.NewInputField().
		SetLabel("Name: ").
		SetFieldWidth(32)
	pv.avatar = tview.NewInputField().
		SetLabel("Avatar: ").
		SetFieldWidth(32).
		SetPlaceholder(avatarPlaceholder)
	pv.name.SetChangedFunc(func(string) { pv.ClearError() })
	pv.avatar.SetChangedFunc(func(string) { pv.ClearError() })

	pv.Form.AddFormItem(pv.name)
	pv.Form.AddFormItem(pv.avatar)
	pv.Form.AddButton("Save", func() {
		if pv.busy {
			return
		}
		if err := session.ValidateName(pv.name.GetText()); err != nil {
			pv.SetError(err)
			return
		}
		if pv.onSave != nil {
			pv.onSave(pv.name.GetText(), pv.avatar.GetText())
		}
	})
	pv.Form.AddButton("Logout", func() {
		if pv.onLogout != nil {
			pv.onLogout()
		}
	})
	pv.Form.AddButton("Cancel", func() {
		if pv.onCancel != nil {
			pv.onCancel()
		}
	})

	pv.code = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	pv.code.SetBackgroundColor(theme.BgColor)
	pv.code.SetBorder(true)
	pv.code.SetBorderColor(theme.BorderColor)
	pv.code.SetTitle(" Your contact code ")
	pv.code.SetTitleColor(theme.TitleColor)
	pv.addSide(pv.code, 40)
	return pv
}

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Close"},
	}
}

// SetOnSave sets the callback for the Save button. The name has already
// passed validation.
func (pv *ProfileView) SetOnSave(fn func(name, avatar string)) {
	pv.onSave = fn
}

// SetOnLogout sets the callback for the Logout button.
func (pv *ProfileView) SetOnLogout(fn func()) {
	pv.onLogout = fn
}

// SetOnCancel sets the callback for the Cancel button.
func (pv *ProfileView) SetOnCancel(fn func()) {
	pv.onCancel = fn
}

// SetBusy marks a save in progress; further saves are ignored.
func (pv *ProfileView) SetBusy(busy bool) {
	pv.busy = busy
	if busy {
		pv.Form.SetTitle(" Profile (saving...) ")
	} else {
		pv.Form.SetTitle(" Profile ")
	}
}

// Update fills the form from u.
func (pv *ProfileView) Update(u session.User) {
	pv.name.SetText(u.Name)
	// A data reference is too long to edit; show a summary and leave the
	// field empty so saving keeps the current image.
	if strings.HasPrefix(u.Avatar, "data:") {
		pv.avatar.SetText("")
		pv.avatar.SetPlaceholder(previewURL(u.Avatar))
	} else {
		pv.avatar.SetText(u.Avatar)
		pv.avatar.SetPlaceholder(avatarPlaceholder)
	}
	pv.ClearError()
	pv.Form.SetFocus(0)

	pv.code.Clear()
	qr, err := renderQR(u.Code, 1)
	if err != nil {
		qr = "\n" + err.Error() + "\n"
	}
	_, _ = fmt.Fprintf(pv.code, "\n[::b]%s[-:-:-]\n\n%s", tview.Escape(u.Code), qr)
}
