package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/matheus3301/chatmock/internal/tui/ui"
)

func runeEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewBindingsShadowGlobal(t *testing.T) {
	r := NewRegistry()
	var fired []string
	r.AddGlobal(&Action{Name: "search", Key: tcell.KeyRune, Rune: 's', Label: "s", Description: "Search", Visible: true,
		Handler: func() { fired = append(fired, "global") }})
	r.AddView("Details", &Action{Name: "sort", Key: tcell.KeyRune, Rune: 's', Label: "s", Description: "Sort", Visible: true,
		Handler: func() { fired = append(fired, "view") }})

	if !r.HandleEvent("Details", runeEvent('s')) {
		t.Fatal("HandleEvent() = false")
	}
	if !r.HandleEvent("Conversations", runeEvent('s')) {
		t.Fatal("HandleEvent() = false")
	}
	if r.HandleEvent("Conversations", runeEvent('x')) {
		t.Error("HandleEvent() matched an unbound key")
	}
	if diff := cmp.Diff([]string{"view", "global"}, fired); diff != "" {
		t.Errorf("handlers fired (-want +got):\n%s", diff)
	}
}

func TestControlKeys(t *testing.T) {
	r := NewRegistry()
	attached := false
	r.AddView("thread", &Action{Name: "attach", Key: tcell.KeyCtrlA, Label: "Ctrl-A", Handler: func() { attached = true }})

	if r.HandleEvent("thread", runeEvent('a')) {
		t.Error("plain 'a' matched Ctrl-A")
	}
	if !r.HandleEvent("thread", tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl)) || !attached {
		t.Error("Ctrl-A did not fire")
	}
}

func TestHintsOrderAndVisibility(t *testing.T) {
	r := NewRegistry()
	noop := func() {}
	r.AddGlobal(&Action{Name: "help", Key: tcell.KeyRune, Rune: '?', Label: "?", Description: "Help", Visible: true, Handler: noop})
	r.AddGlobal(&Action{Name: "hidden", Key: tcell.KeyRune, Rune: 'z', Label: "z", Description: "Hidden", Handler: noop})
	r.AddView("Conversations", &Action{Name: "add", Key: tcell.KeyRune, Rune: 'a', Label: "a", Description: "Add contact", Visible: true, Handler: noop})
	r.AddView("Conversations", &Action{Name: "add", Key: tcell.KeyRune, Rune: 'a', Label: "a", Description: "Add by code", Visible: true, Handler: noop})

	want := []ui.MenuHint{
		{Key: "a", Description: "Add by code"},
		{Key: "?", Description: "Help"},
	}
	if diff := cmp.Diff(want, r.Hints("Conversations")); diff != "" {
		t.Errorf("Hints() mismatch (-want +got):\n%s", diff)
	}
}
