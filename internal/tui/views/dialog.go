package views

import (
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"github.com/rivo/tview"
)

// FormDialog is a centred form with a validation line underneath.
type FormDialog struct {
	*tview.Flex
	Form   *tview.Form
	body   *tview.Flex
	status *tview.TextView
	theme  *ui.Theme
	name   string

	dismissable bool
}

func newFormDialog(theme *ui.Theme, name, title string, width, height int) *FormDialog {
	form := tview.NewForm()
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(tcell.NewRGBColor(0, 0, 64))
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(tcell.NewRGBColor(0, 128, 128))
	form.SetButtonTextColor(theme.TableHeaderFg)
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetTitle(" " + title + " ")
	form.SetTitleColor(theme.TitleColor)

	body := tview.NewFlex().
		AddItem(form, 0, 1, true)
	body.SetBackgroundColor(theme.BgColor)

	status := tview.NewTextView()
	status.SetBackgroundColor(theme.BgColor)
	status.SetTextColor(theme.ErrorTextColor)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(body, width, 0, true).
			AddItem(nil, 0, 1, false), height, 0, true).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(status, width, 0, false).
			AddItem(nil, 0, 1, false), 1, 0, false).
		AddItem(nil, 0, 1, false)

	return &FormDialog{
		Flex:   flex,
		Form:   form,
		body:   body,
		status: status,
		theme:  theme,
		name:   name,

		dismissable: true,
	}
}

// addSide places p to the right of the form.
func (d *FormDialog) addSide(p tview.Primitive, width int) {
	d.body.AddItem(p, width, 0, false)
}

// Dismissable reports whether Esc closes the dialog.
func (d *FormDialog) Dismissable() bool { return d.dismissable }

// Name implements Component.
func (d *FormDialog) Name() string { return d.name }

// Init implements Component.
func (d *FormDialog) Init() {}

// Start implements Component.
func (d *FormDialog) Start() {}

// Stop implements Component.
func (d *FormDialog) Stop() { d.ClearError() }

// Hints implements Component.
func (d *FormDialog) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// SetError shows err under the form. A nil error clears it.
func (d *FormDialog) SetError(err error) {
	if err == nil {
		d.ClearError()
		return
	}
	d.status.SetText(errorText(err))
}

// ClearError hides the validation line.
func (d *FormDialog) ClearError() {
	d.status.SetText("")
}

// ErrorText returns the text currently shown under the form.
func (d *FormDialog) ErrorText() string {
	return d.status.GetText(true)
}

// errorText capitalises an error message for display.
func errorText(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
