package attachment

import (
	"context"
	"sync"

	"github.com/matheus3301/chatmock/internal/bus"
	"github.com/matheus3301/chatmock/internal/chat"
	"go.uber.org/zap"
)

// Resolved is the payload of bus.AttachmentResolved.
type Resolved struct {
	Attachment chat.Attachment
}

// Failed is the payload of bus.AttachmentFailed.
type Failed struct {
	Name string
	Err  error
}

// DraftState is a snapshot of a compose box attachment.
type DraftState struct {
	Name       string
	Loading    bool
	Attachment *chat.Attachment
	Err        error
}

// Empty reports whether nothing is selected.
func (s DraftState) Empty() bool {
	return s.Name == "" && !s.Loading && s.Attachment == nil && s.Err == nil
}

// Draft holds the attachment selected in one compose box. Only the most
// recent selection can complete; earlier in-flight resolutions are dropped
// and their handles released.
type Draft struct {
	mu       sync.Mutex
	gen      uint64
	state    DraftState
	resolve  func(context.Context, File) (chat.Attachment, error)
	registry *Registry
	bus      *bus.Bus
	logger   *zap.Logger
}

// NewDraft creates an empty draft resolving through r.
func NewDraft(r *Resolver, b *bus.Bus, logger *zap.Logger) *Draft {
	return &Draft{
		resolve:  r.Resolve,
		registry: r.Registry(),
		bus:      b,
		logger:   logger,
	}
}

// Select replaces the current selection with f and resolves it in the
// background. Completion is published on the bus.
func (d *Draft) Select(ctx context.Context, f File) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.releaseLocked()
	d.state = DraftState{Name: f.Name(), Loading: true}
	d.mu.Unlock()

	go func() {
		att, err := d.resolve(ctx, f)
		d.complete(gen, f.Name(), att, err)
	}()
}

func (d *Draft) complete(gen uint64, name string, att chat.Attachment, err error) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		if err == nil {
			d.registry.Release(att.URL)
		}
		d.logger.Debug("dropped superseded attachment", zap.String("name", name))
		return
	}
	d.state.Loading = false
	if err != nil {
		d.state.Err = err
		d.mu.Unlock()
		d.logger.Warn("attachment failed", zap.String("name", name), zap.Error(err))
		d.bus.Emit(bus.AttachmentFailed, Failed{Name: name, Err: err})
		return
	}
	d.state.Attachment = &att
	d.mu.Unlock()
	d.bus.Emit(bus.AttachmentResolved, Resolved{Attachment: att})
}

// State returns the current selection.
func (d *Draft) State() DraftState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	if s.Attachment != nil {
		a := *s.Attachment
		s.Attachment = &a
	}
	return s
}

// Clear drops the selection, cancelling any in-flight resolution and
// releasing the resolved handle.
func (d *Draft) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.releaseLocked()
	d.state = DraftState{}
}

// Take hands the resolved attachment to the caller and empties the draft.
// The handle is no longer owned by the draft. ok is false while nothing is
// resolved.
func (d *Draft) Take() (chat.Attachment, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Attachment == nil {
		return chat.Attachment{}, false
	}
	att := *d.state.Attachment
	d.gen++
	d.state = DraftState{}
	return att, true
}

func (d *Draft) releaseLocked() {
	if d.state.Attachment != nil {
		d.registry.Release(d.state.Attachment.URL)
	}
}
