package attachment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matheus3301/chatmock/internal/bus"
	"github.com/matheus3301/chatmock/internal/chat"
	"go.uber.org/zap"
)

func waitEvent(t *testing.T, ch <-chan bus.Event) bus.Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for attachment event")
		return bus.Event{}
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDraftResolvesSelection(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()
	d := NewDraft(newTestResolver(0), b, zap.NewNop())

	d.Select(context.Background(), FromBytes("photo.png", "image/png", pngBytes))
	if st := d.State(); !st.Loading || st.Name != "photo.png" {
		t.Errorf("State() = %+v, want loading photo.png", st)
	}

	evt := waitEvent(t, ch)
	if evt.Kind != bus.AttachmentResolved {
		t.Fatalf("event = %s, want %s", evt.Kind, bus.AttachmentResolved)
	}
	st := d.State()
	if st.Loading || st.Attachment == nil || st.Attachment.Type != chat.AttachmentImage {
		t.Fatalf("State() = %+v, want a resolved image", st)
	}

	att, ok := d.Take()
	if !ok || att.Name != "photo.png" {
		t.Fatalf("Take() = %+v, %v", att, ok)
	}
	if !d.State().Empty() {
		t.Error("draft not empty after Take()")
	}
	if _, ok := d.Take(); ok {
		t.Error("second Take() returned an attachment")
	}
}

func TestDraftPublishesFailure(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()
	d := NewDraft(newTestResolver(4), b, zap.NewNop())

	d.Select(context.Background(), FromBytes("big.bin", "application/octet-stream", []byte("12345")))

	evt := waitEvent(t, ch)
	if evt.Kind != bus.AttachmentFailed {
		t.Fatalf("event = %s, want %s", evt.Kind, bus.AttachmentFailed)
	}
	f, ok := evt.Payload.(Failed)
	if !ok || f.Name != "big.bin" || !errors.Is(f.Err, ErrTooLarge) {
		t.Errorf("payload = %+v, want ErrTooLarge for big.bin", evt.Payload)
	}
	if st := d.State(); st.Loading || !errors.Is(st.Err, ErrTooLarge) {
		t.Errorf("State() = %+v, want the failure recorded", st)
	}
	if _, ok := d.Take(); ok {
		t.Error("Take() returned an attachment after failure")
	}
}

// gatedResolve blocks resolution of the named file until its gate is closed.
func gatedResolve(r *Resolver, gates map[string]chan struct{}) func(context.Context, File) (chat.Attachment, error) {
	return func(ctx context.Context, f File) (chat.Attachment, error) {
		if g, ok := gates[f.Name()]; ok {
			<-g
		}
		return r.Resolve(ctx, f)
	}
}

func TestDraftLastSelectionWins(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()
	r := newTestResolver(0)
	d := NewDraft(r, b, zap.NewNop())
	slow := make(chan struct{})
	d.resolve = gatedResolve(r, map[string]chan struct{}{"old.pdf": slow})

	d.Select(context.Background(), FromBytes("old.pdf", "application/pdf", []byte("%PDF-old")))
	d.Select(context.Background(), FromBytes("new.pdf", "application/pdf", []byte("%PDF-new")))

	evt := waitEvent(t, ch)
	res, ok := evt.Payload.(Resolved)
	if !ok || res.Attachment.Name != "new.pdf" {
		t.Fatalf("first completion = %+v, want new.pdf", evt.Payload)
	}

	close(slow)
	eventually(t, "superseded handle release", func() bool { return r.Registry().Len() == 1 })

	st := d.State()
	if st.Attachment == nil || st.Attachment.Name != "new.pdf" {
		t.Errorf("State() = %+v, want new.pdf to remain selected", st)
	}
	if _, ok := r.Registry().Lookup(st.Attachment.URL); !ok {
		t.Error("winning handle was released")
	}
	select {
	case evt := <-ch:
		t.Errorf("superseded selection published %s", evt.Kind)
	default:
	}
}

func TestDraftReplaceReleasesPreviousHandle(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()
	r := newTestResolver(0)
	d := NewDraft(r, b, zap.NewNop())

	d.Select(context.Background(), FromBytes("a.pdf", "application/pdf", []byte("%PDF-a")))
	waitEvent(t, ch)
	first := d.State().Attachment.URL

	d.Select(context.Background(), FromBytes("b.pdf", "application/pdf", []byte("%PDF-b")))
	waitEvent(t, ch)

	if _, ok := r.Registry().Lookup(first); ok {
		t.Error("replaced handle still registered")
	}
	if r.Registry().Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Registry().Len())
	}
}

func TestDraftClear(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()
	r := newTestResolver(0)
	d := NewDraft(r, b, zap.NewNop())

	d.Select(context.Background(), FromBytes("a.pdf", "application/pdf", []byte("%PDF-a")))
	waitEvent(t, ch)

	d.Clear()
	if !d.State().Empty() {
		t.Errorf("State() = %+v after Clear, want empty", d.State())
	}
	if r.Registry().Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", r.Registry().Len())
	}

	// Clearing while a resolution is in flight drops its result.
	gate := make(chan struct{})
	d.resolve = gatedResolve(r, map[string]chan struct{}{"late.pdf": gate})
	d.Select(context.Background(), FromBytes("late.pdf", "application/pdf", []byte("%PDF-late")))
	d.Clear()
	close(gate)

	time.Sleep(50 * time.Millisecond)
	eventually(t, "in-flight handle release", func() bool { return r.Registry().Len() == 0 })
	if !d.State().Empty() {
		t.Errorf("State() = %+v, want empty after in-flight clear", d.State())
	}
}

func TestTakenHandleSurvivesUntilReleaseAll(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("attachment.", 4)
	defer unsub()
	r := newTestResolver(0)
	d := NewDraft(r, b, zap.NewNop())

	d.Select(context.Background(), FromBytes("a.pdf", "application/pdf", []byte("%PDF-a")))
	waitEvent(t, ch)
	att, ok := d.Take()
	if !ok {
		t.Fatal("Take() = false")
	}

	d.Clear()
	if _, ok := r.Registry().Lookup(att.URL); !ok {
		t.Error("Clear() released a handle owned by a message")
	}
	r.Registry().ReleaseAll()
	if r.Registry().Len() != 0 {
		t.Error("ReleaseAll() left handles")
	}
}
