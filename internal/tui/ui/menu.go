package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/tview"
)

// defaultMenuRows fits the menu in the header without scrolling.
const defaultMenuRows = 6

// Menu lays key hints out in columns of at most rows entries.
type Menu struct {
	*tview.TextView
	theme *Theme
	rows  int
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
		rows:     defaultMenuRows,
	}
}

// SetRows sets how many hints a column holds.
func (m *Menu) SetRows(n int) {
	if n > 0 {
		m.rows = n
	}
}

// Update renders hints column by column. A key listed twice is shown once,
// the first occurrence wins.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()

	seen := make(map[string]bool, len(hints))
	var uniq []MenuHint
	for _, h := range hints {
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		uniq = append(uniq, h)
	}
	if len(uniq) == 0 {
		return
	}

	cols := (len(uniq) + m.rows - 1) / m.rows
	keyW := make([]int, cols)
	descW := make([]int, cols)
	for i, h := range uniq {
		c := i / m.rows
		keyW[c] = max(keyW[c], utf8.RuneCountInString(h.Key)+2)
		descW[c] = max(descW[c], utf8.RuneCountInString(h.Description))
	}

	keyColor := colorName(m.theme.MenuKeyColor)
	numColor := colorName(m.theme.NumericKeyColor)
	lines := min(m.rows, len(uniq))

	var b strings.Builder
	for r := 0; r < lines; r++ {
		for c := 0; c < cols; c++ {
			i := c*m.rows + r
			if i >= len(uniq) {
				break
			}
			h := uniq[i]
			kc := keyColor
			if h.Numeric {
				kc = numColor
			}
			key := "<" + h.Key + ">"
			fmt.Fprintf(&b, "[%s::b]%s[-:-:-]%s %s",
				kc, tview.Escape(key), pad(key, keyW[c]), tview.Escape(h.Description))
			if c < cols-1 && i+m.rows < len(uniq) {
				b.WriteString(pad(h.Description, descW[c]+3))
			}
		}
		b.WriteString("\n")
	}
	_, _ = fmt.Fprint(m, b.String())
}

// pad returns the spaces needed to widen s to width runes.
func pad(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
