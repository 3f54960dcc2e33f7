package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Crumb is one entry of the breadcrumb trail.
type Crumb struct {
	Title  string
	Dialog bool
}

// Crumbs shows the workspace and the path through the page stack. Dialog
// crumbs use the dialog colors so an open form is visible at a glance.
type Crumbs struct {
	*tview.TextView
	theme     *Theme
	workspace string
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
	}
}

// SetWorkspace sets the workspace name shown before the trail.
func (c *Crumbs) SetWorkspace(name string) {
	c.workspace = name
}

// Update renders the trail, bottom of the stack first.
func (c *Crumbs) Update(trail []Crumb) {
	c.Clear()
	if len(trail) == 0 {
		return
	}

	var b strings.Builder
	if c.workspace != "" {
		fmt.Fprintf(&b, "[%s::d]%s[-:-:-] ", colorName(c.theme.FgColor), tview.Escape(c.workspace))
	}
	for i, cr := range trail {
		if i > 0 {
			b.WriteString(" > ")
		}
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		switch {
		case cr.Dialog:
			fg, bg = c.theme.CrumbDialogFg, c.theme.CrumbDialogBg
		case i == len(trail)-1:
			fg, bg = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg
		}
		if i == len(trail)-1 {
			attr = "b"
		}
		fmt.Fprintf(&b, "[%s:%s:%s] %s [-:-:-]", colorName(fg), colorName(bg), attr, tview.Escape(cr.Title))
	}
	_, _ = fmt.Fprint(c, b.String())
}
