package ui

import "github.com/rivo/tview"

// Pages is the navigation stack. Regular pages replace the one beneath
// them; dialogs are overlaid on it and leave it visible.
type Pages struct {
	*tview.Pages
	stack    []string
	dialogs  map[string]Dialog
	onChange func(stack []string)
}

// NewPages creates an empty navigation stack.
func NewPages() *Pages {
	return &Pages{
		Pages:   tview.NewPages(),
		dialogs: make(map[string]Dialog),
	}
}

// AddDialog registers d under name as an overlay page.
func (p *Pages) AddDialog(name string, d Dialog) {
	p.dialogs[name] = d
	p.AddPage(name, d, true, false)
}

// IsDialog reports whether name was registered with AddDialog.
func (p *Pages) IsDialog(name string) bool {
	_, ok := p.dialogs[name]
	return ok
}

// TopDialog returns the dialog on top of the stack, if the top is one.
func (p *Pages) TopDialog() (Dialog, bool) {
	d, ok := p.dialogs[p.Current()]
	return d, ok
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push shows name on top of the stack. The page beneath stays visible when
// name is a dialog.
func (p *Pages) Push(name string) {
	if len(p.stack) > 0 && !p.IsDialog(name) {
		p.HidePage(p.stack[len(p.stack)-1])
	}
	p.stack = append(p.stack, name)
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

// Pop removes the top page and returns its name, or "" on an empty stack.
func (p *Pages) Pop() string {
	top := p.pop()
	if top != "" {
		p.notify()
	}
	return top
}

func (p *Pages) pop() string {
	if len(p.stack) == 0 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top)
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) > 0 {
		current := p.stack[len(p.stack)-1]
		p.ShowPage(current)
		p.SendToFront(current)
	}
	return top
}

// PopToRoot pops everything above the bottom page and returns the popped
// names, top first. Listeners are notified once.
func (p *Pages) PopToRoot() []string {
	var popped []string
	for len(p.stack) > 1 {
		popped = append(popped, p.pop())
	}
	if len(popped) > 0 {
		p.notify()
	}
	return popped
}

// Current returns the name of the top page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Stack returns a copy of the stack, bottom first.
func (p *Pages) Stack() []string {
	s := make([]string, len(p.stack))
	copy(s, p.stack)
	return s
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset clears the stack and shows only the given page.
func (p *Pages) Reset(name string) {
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
