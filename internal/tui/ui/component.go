package ui

import "github.com/rivo/tview"

// MenuHint is one key shortcut shown in the header menu.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // 0-9 jumps, drawn in NumericKeyColor
}

// Component is a page on the navigation stack.
type Component interface {
	Name() string
	Init()
	Start()
	Stop()
	Hints() []MenuHint
}

// Dialog is a Component drawn over the page beneath it. While a dialog is
// on top it owns the keyboard; Esc closes it only when Dismissable is true.
type Dialog interface {
	tview.Primitive
	Component
	Dismissable() bool
}
