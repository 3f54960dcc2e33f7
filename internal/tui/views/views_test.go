package views

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/tui/ui"
)

func testChats() []chat.Chat {
	return []chat.Chat{
		{ID: "c1", Name: "Sarah Wilson", LastMessage: "See you tomorrow", UnreadCount: 2, Online: true},
		{ID: "c2", Name: "Dev Team", LastMessage: "Deploy is green"},
		{ID: "ABCD1234", Name: "Contact ABCD1234", LastMessage: "Say hello"},
	}
}

func TestConversationListFilter(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local) }
	cl.Update(testChats())

	if got := cl.GetRowCount(); got != 4 {
		t.Fatalf("GetRowCount() = %d, want header plus 3 rows", got)
	}

	cl.SetFilter("deploy")
	if got := cl.ChatByIndex(1); got != "c2" {
		t.Errorf("ChatByIndex(1) with filter = %q, want c2", got)
	}
	if got := cl.ChatByIndex(2); got != "" {
		t.Errorf("ChatByIndex(2) with filter = %q, want empty", got)
	}

	cl.ClearFilter()
	if cl.Filter() != "" {
		t.Errorf("Filter() = %q after ClearFilter", cl.Filter())
	}
	if got := cl.ChatByIndex(3); got != "ABCD1234" {
		t.Errorf("ChatByIndex(3) = %q, want ABCD1234", got)
	}
}

func TestConversationListKeepsSelection(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(testChats())
	cl.SelectChat("c2")

	reordered := testChats()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	cl.Update(reordered)

	if got := cl.SelectedChat(); got != "c2" {
		t.Errorf("SelectedChat() = %q, want c2", got)
	}
}

func TestConversationListUnreadBadge(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(testChats())

	if got, want := cl.GetCell(1, 0).Text, " (2) Sarah Wilson"; got != want {
		t.Errorf("name cell = %q, want %q", got, want)
	}
	if got, want := cl.GetCell(2, 0).Text, " Dev Team"; got != want {
		t.Errorf("name cell = %q, want %q", got, want)
	}
}

func TestAddContactViewRejectsShortCode(t *testing.T) {
	av := NewAddContactView(ui.DefaultTheme())
	var added []string
	av.SetOnAdd(func(code string) error {
		added = append(added, code)
		return nil
	})

	av.code.SetText("abc")
	av.submit()
	if got, want := av.ErrorText(), "Contact code must be 8 characters"; got != want {
		t.Errorf("ErrorText() = %q, want %q", got, want)
	}

	av.code.SetText("abcd1234")
	av.submit()
	if diff := cmp.Diff([]string{"ABCD1234"}, added); diff != "" {
		t.Errorf("added codes mismatch (-want +got):\n%s", diff)
	}
	if av.ErrorText() != "" {
		t.Errorf("ErrorText() = %q after success", av.ErrorText())
	}
}

func TestAddContactViewShowsCallbackError(t *testing.T) {
	av := NewAddContactView(ui.DefaultTheme())
	av.SetOnAdd(func(string) error { return chat.ErrContactExists })

	av.code.SetText("ABCD1234")
	av.submit()
	if got, want := av.ErrorText(), "Contact already in your list"; got != want {
		t.Errorf("ErrorText() = %q, want %q", got, want)
	}
}

func TestLoginViewValidatesName(t *testing.T) {
	lv := NewLoginView(ui.DefaultTheme())
	var calls int
	lv.SetOnLogin(func(string) error {
		calls++
		return errors.New("disk full")
	})

	lv.name.SetText("  ab ")
	lv.submit()
	if got, want := lv.ErrorText(), "Name must be at least 3 characters"; got != want {
		t.Errorf("ErrorText() = %q, want %q", got, want)
	}
	if calls != 0 {
		t.Fatalf("onLogin called %d times for a short name", calls)
	}

	lv.name.SetText("Alice")
	lv.submit()
	if calls != 1 {
		t.Fatalf("onLogin called %d times, want 1", calls)
	}
	if got, want := lv.ErrorText(), "Disk full"; got != want {
		t.Errorf("ErrorText() = %q, want %q", got, want)
	}
}

func TestSearchViewSelectedResult(t *testing.T) {
	sv := NewSearchView(ui.DefaultTheme())
	sv.Update([]chat.SearchResult{
		{ChatID: "c1", ChatName: "Sarah Wilson", Message: chat.Message{ID: "m1", Content: "lunch?", Sender: "c1"}},
		{ChatID: "c2", ChatName: "Dev Team", Message: chat.Message{ID: "m9", Content: "lunch at noon", Sender: chat.SelfSender, IsOwn: true}},
	})
	sv.Results().Select(2, 0)

	chatID, msgID := sv.SelectedResult()
	if chatID != "c2" || msgID != "m9" {
		t.Errorf("SelectedResult() = (%q, %q), want (c2, m9)", chatID, msgID)
	}
}

func TestMessageThreadPlaceholder(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	mt.ShowPlaceholder()
	if mt.ChatID() != "" {
		t.Errorf("ChatID() = %q, want empty", mt.ChatID())
	}

	mt.Update(chat.Chat{ID: "c1", Name: "Sarah Wilson", Messages: []chat.Message{
		{ID: "m1", Content: "Hi there", Sender: "c1"},
	}})
	if mt.ChatID() != "c1" {
		t.Errorf("ChatID() = %q, want c1", mt.ChatID())
	}
}

func TestDialogsDismissable(t *testing.T) {
	theme := ui.DefaultTheme()
	tests := []struct {
		name string
		d    ui.Dialog
		want bool
	}{
		{"login", NewLoginView(theme), false},
		{"add contact", NewAddContactView(theme), true},
		{"profile", NewProfileView(theme), true},
	}
	for _, tt := range tests {
		if got := tt.d.Dismissable(); got != tt.want {
			t.Errorf("%s Dismissable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProfileViewSummarisesDataAvatar(t *testing.T) {
	pv := NewProfileView(ui.DefaultTheme())
	pv.Update(session.User{Name: "Alice", Code: "K7Q2ZP4M", Avatar: "data:image/png;base64,aGVsbG8="})
	if got := pv.avatar.GetText(); got != "" {
		t.Errorf("avatar field = %q, want empty for a data reference", got)
	}

	pv.Update(session.User{Name: "Alice", Code: "K7Q2ZP4M", Avatar: "https://example.com/a.png"})
	if got := pv.avatar.GetText(); got != "https://example.com/a.png" {
		t.Errorf("avatar field = %q, want the URL", got)
	}
}
