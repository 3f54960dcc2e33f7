package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/chatmock/internal/bus"
)

// State is the sign-in state of the local session.
type State string

const (
	Booting   State = "BOOTING"
	SignedOut State = "SIGNED_OUT"
	SignedIn  State = "SIGNED_IN"
)

// validTransitions defines allowed state transitions. SIGNED_IN -> SIGNED_IN
// is a fresh login replacing the current identity.
var validTransitions = map[State][]State{
	Booting:   {SignedOut, SignedIn},
	SignedOut: {SignedIn},
	SignedIn:  {SignedIn, SignedOut},
}

// Machine tracks and enforces session state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Booting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit(bus.SessionStatusChanged, StatusChange{From: from, To: to})
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
