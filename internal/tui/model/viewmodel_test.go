package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/chatmock/internal/attachment"
	"github.com/matheus3301/chatmock/internal/bus"
	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/status"
	"github.com/matheus3301/chatmock/internal/store"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"go.uber.org/zap"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestViewModel(t *testing.T) (*ViewModel, *bus.Bus) {
	t.Helper()
	db, _, err := store.OpenMigrated(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := zap.NewNop()
	b := bus.New()
	sess := session.NewStore(db, status.NewMachine(b), b, logger)
	chats := chat.NewStore(b, chat.Seed())
	res := attachment.NewResolver(attachment.NewRegistry(logger), 0, logger)
	draft := attachment.NewDraft(res, b, logger)
	return NewViewModel(context.Background(), "test", sess, chats, res, draft), b
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitResolved(t *testing.T, ch <-chan bus.Event) {
	t.Helper()
	select {
	case evt := <-ch:
		if evt.Kind != bus.AttachmentResolved {
			t.Fatalf("event = %s, want %s", evt.Kind, bus.AttachmentResolved)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for attachment")
	}
}

func TestOpenChatMarksRead(t *testing.T) {
	vm, _ := newTestViewModel(t)
	var unread chat.Chat
	for _, c := range vm.Chats.Chats() {
		if c.UnreadCount > 0 {
			unread = c
			break
		}
	}
	if unread.ID == "" {
		t.Fatal("seed has no unread chat")
	}

	got, ok := vm.OpenChat(unread.ID)
	if !ok || got.ID != unread.ID {
		t.Fatalf("OpenChat() = %+v, %v", got, ok)
	}
	if got.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d after open, want 0", got.UnreadCount)
	}

	if _, ok := vm.OpenChat("missing"); ok {
		t.Error("OpenChat(missing) reported an active chat")
	}
}

func TestChatByName(t *testing.T) {
	vm, _ := newTestViewModel(t)
	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"Sarah Wilson", "Sarah Wilson", true},
		{"sarah", "Sarah Wilson", true},
		{"  EMMA ", "Emma Thompson", true},
		{"cooper", "John Cooper", true},
		{"nobody", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c, ok := vm.ChatByName(tt.query)
		if ok != tt.ok || c.Name != tt.want {
			t.Errorf("ChatByName(%q) = %q, %v, want %q, %v", tt.query, c.Name, ok, tt.want, tt.ok)
		}
	}
}

func TestSendWithAttachment(t *testing.T) {
	vm, b := newTestViewModel(t)
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()

	if err := vm.Attach(writeFile(t, "photo.png", pngBytes)); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	waitResolved(t, ch)

	before, _ := vm.Chats.Active()
	msg, err := vm.Send("")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg.Attachment == nil || msg.Attachment.Type != chat.AttachmentImage {
		t.Fatalf("Send() attachment = %+v, want an image", msg.Attachment)
	}
	after, _ := vm.Chats.Active()
	if after.LastMessage != "Sent an image" {
		t.Errorf("LastMessage = %q, want Sent an image", after.LastMessage)
	}
	if len(after.Messages) <= len(before.Messages) {
		t.Error("no message appended")
	}
	if !vm.Draft.State().Empty() {
		t.Error("draft not emptied after send")
	}
}

func TestSaveAttachment(t *testing.T) {
	vm, b := newTestViewModel(t)
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()

	if _, err := vm.SaveAttachment(t.TempDir()); !errors.Is(err, ErrNoAttachment) {
		t.Fatalf("SaveAttachment() before any attachment error = %v, want ErrNoAttachment", err)
	}

	if err := vm.Attach(writeFile(t, "notes.txt", []byte("meeting at 10"))); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	waitResolved(t, ch)
	if _, err := vm.Send("agenda"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	dir := t.TempDir()
	path, err := vm.SaveAttachment(dir)
	if err != nil {
		t.Fatalf("SaveAttachment() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "meeting at 10" || filepath.Base(path) != "notes.txt" {
		t.Errorf("saved %q to %s", data, path)
	}
}

func TestSendWithoutActiveChatKeepsDraft(t *testing.T) {
	vm, b := newTestViewModel(t)
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()

	if err := vm.Attach(writeFile(t, "report.pdf", []byte("%PDF-1.4\n"))); err != nil {
		t.Fatal(err)
	}
	waitResolved(t, ch)

	vm.Chats.Select("dangling")
	if _, err := vm.Send("hi"); !errors.Is(err, chat.ErrNoActiveChat) {
		t.Errorf("Send() error = %v, want ErrNoActiveChat", err)
	}
	if vm.Draft.State().Attachment == nil {
		t.Error("draft attachment lost on failed send")
	}
}

func TestSendEmptyIsRejected(t *testing.T) {
	vm, _ := newTestViewModel(t)
	if _, err := vm.Send("   "); !errors.Is(err, chat.ErrEmptyMessage) {
		t.Errorf("Send(blank) error = %v, want ErrEmptyMessage", err)
	}
}

func TestFlashSeverity(t *testing.T) {
	vm, _ := newTestViewModel(t)
	tests := []struct {
		name string
		err  error
		want ui.FlashLevel
	}{
		{"bad contact code", chat.ErrInvalidCode, ui.FlashWarn},
		{"missing file", vm.Attach(filepath.Join(t.TempDir(), "nope.png")), ui.FlashWarn},
		{"nothing to save", fmt.Errorf("save: %w", ErrNoAttachment), ui.FlashWarn},
		{"storage failure", errors.New("disk full"), ui.FlashErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm.Flash.Err(tt.err)
			if msg := vm.Flash.GetMessage(); msg == nil || msg.Level != tt.want {
				t.Errorf("Flash.Err(%v) = %+v, want level %d", tt.err, msg, tt.want)
			}
		})
	}
}

func TestAttachMissingFile(t *testing.T) {
	vm, _ := newTestViewModel(t)
	if err := vm.Attach(filepath.Join(t.TempDir(), "nope.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Attach() error = %v, want not exist", err)
	}
	if !vm.Draft.State().Empty() {
		t.Error("failed Attach() changed the draft")
	}
}

func TestUpdateProfile(t *testing.T) {
	vm, _ := newTestViewModel(t)
	if _, err := vm.UpdateProfile("Ann", ""); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("UpdateProfile() signed out error = %v, want ErrNoSession", err)
	}

	u, err := vm.Login("Alice")
	if err != nil {
		t.Fatal(err)
	}

	got, err := vm.UpdateProfile(u.Name, "")
	if err != nil || got != u {
		t.Errorf("no-op UpdateProfile() = %+v, %v, want unchanged", got, err)
	}

	got, err = vm.UpdateProfile("Ann", "https://example.com/me.png")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if got.Name != "Ann" || got.Avatar != "https://example.com/me.png" {
		t.Errorf("UpdateProfile() = %+v", got)
	}

	got, err = vm.UpdateProfile("Ann", writeFile(t, "me.png", pngBytes))
	if err != nil {
		t.Fatalf("UpdateProfile(image path) error = %v", err)
	}
	if !strings.HasPrefix(got.Avatar, "data:image/png;base64,") {
		t.Errorf("Avatar = %q, want a data reference", got.Avatar)
	}

	_, err = vm.UpdateProfile("Ann", writeFile(t, "cv.pdf", []byte("%PDF-1.4\n")))
	if !errors.Is(err, attachment.ErrNotImage) {
		t.Errorf("UpdateProfile(pdf) error = %v, want ErrNotImage", err)
	}
	if _, err := vm.UpdateProfile("Al", ""); !errors.Is(err, session.ErrNameTooShort) {
		t.Errorf("UpdateProfile(short) error = %v, want ErrNameTooShort", err)
	}
	cur, _ := vm.Session.Current()
	if cur.Name != "Ann" {
		t.Errorf("Name = %q after rejected updates, want Ann", cur.Name)
	}
}

func TestLogoutClearsDraft(t *testing.T) {
	vm, b := newTestViewModel(t)
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()
	if _, err := vm.Login("Alice"); err != nil {
		t.Fatal(err)
	}
	if err := vm.Attach(writeFile(t, "notes.txt", []byte("hello\n"))); err != nil {
		t.Fatal(err)
	}
	waitResolved(t, ch)

	if err := vm.Logout(); err != nil {
		t.Fatal(err)
	}
	if !vm.Draft.State().Empty() || vm.Resolver.Registry().Len() != 0 {
		t.Error("logout left an attachment behind")
	}
	if vm.Session.Status() != status.SignedOut {
		t.Errorf("Status() = %s, want SIGNED_OUT", vm.Session.Status())
	}
}

func TestSessionData(t *testing.T) {
	vm, _ := newTestViewModel(t)
	if _, err := vm.Login("Alice"); err != nil {
		t.Fatal(err)
	}
	data := vm.SessionData()
	if data.Workspace != "test" || data.Name != "Alice" || data.Status != "SIGNED_IN" {
		t.Errorf("SessionData() = %+v", data)
	}
	if data.ChatCount != len(chat.Seed()) || data.MessageCount == 0 || data.UnreadCount == 0 {
		t.Errorf("SessionData() counters = %+v", data)
	}
}

func TestIsURL(t *testing.T) {
	for in, want := range map[string]bool{
		"https://example.com/a.png": true,
		"HTTP://example.com":        true,
		"data:image/png;base64,AA":  true,
		"~/Pictures/me.png":         false,
		"/tmp/me.png":               false,
	} {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
