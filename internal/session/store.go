package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/matheus3301/chatmock/internal/bus"
	"github.com/matheus3301/chatmock/internal/status"
	"go.uber.org/zap"
)

// Storage is the on-device key/value storage backing the session.
// *store.DB implements it.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Store holds the current user and mirrors it to Storage under StorageKey.
type Store struct {
	mu      sync.RWMutex
	user    *User
	storage Storage
	machine *status.Machine
	bus     *bus.Bus
	logger  *zap.Logger
	newCode func() string
}

// NewStore creates a signed-out session store. Call Restore to load a
// previously persisted user.
func NewStore(storage Storage, machine *status.Machine, b *bus.Bus, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		machine: machine,
		bus:     b,
		logger:  logger,
		newCode: NewCode,
	}
}

// Current returns the signed-in user.
func (s *Store) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Status returns the sign-in state.
func (s *Store) Status() status.State {
	return s.machine.Current()
}

// Restore loads the persisted user, if any. A record that cannot be decoded
// or fails validation is removed and reported as ErrCorruptRecord; the store
// is then signed out.
func (s *Store) Restore() error {
	raw, ok, err := s.storage.GetItem(StorageKey)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if !ok {
		s.transition(status.SignedOut)
		return nil
	}

	var u User
	decodeErr := json.Unmarshal([]byte(raw), &u)
	if decodeErr == nil {
		decodeErr = u.validate()
	}
	if decodeErr != nil {
		s.logger.Warn("discarding corrupt session record", zap.Error(decodeErr))
		if err := s.storage.RemoveItem(StorageKey); err != nil {
			s.logger.Error("failed to remove corrupt session record", zap.Error(err))
		}
		s.transition(status.SignedOut)
		return fmt.Errorf("%w: %v", ErrCorruptRecord, decodeErr)
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.transition(status.SignedIn)
	s.logger.Info("session restored", zap.String("user_id", u.ID), zap.String("code", u.Code))
	return nil
}

// Login creates a new user named name, persists it and replaces any current
// session. The name is stored trimmed.
func (s *Store) Login(name string) (User, error) {
	if err := ValidateName(name); err != nil {
		return User{}, err
	}
	u := User{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(name),
		Avatar: DefaultAvatar,
		Code:   s.newCode(),
	}
	if err := s.persist(u); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.transition(status.SignedIn)
	s.logger.Info("signed in", zap.String("user_id", u.ID), zap.String("code", u.Code))
	s.bus.Emit(bus.SessionLogin, u)
	return u, nil
}

// Logout clears the session and its persisted record. Logging out while
// signed out only removes any leftover record.
func (s *Store) Logout() error {
	if err := s.storage.RemoveItem(StorageKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}

	s.mu.Lock()
	wasSignedIn := s.user != nil
	s.user = nil
	s.mu.Unlock()

	if s.machine.Current() != status.SignedOut {
		s.transition(status.SignedOut)
	}
	if wasSignedIn {
		s.logger.Info("signed out")
		s.bus.Emit(bus.SessionLogout, nil)
	}
	return nil
}

// UpdateProfile merges the provided fields into the current user as a JSON
// merge patch and persists the result. Nothing changes on error.
func (s *Store) UpdateProfile(upd ProfileUpdate) (User, error) {
	if upd.Name != nil {
		if err := ValidateName(*upd.Name); err != nil {
			return User{}, err
		}
		trimmed := strings.TrimSpace(*upd.Name)
		upd.Name = &trimmed
	}
	if upd.Avatar != nil && strings.TrimSpace(*upd.Avatar) == "" {
		return User{}, ErrEmptyAvatar
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, ErrNoSession
	}

	merged, err := merge(*s.user, upd)
	if err != nil {
		return User{}, err
	}
	if err := s.persist(merged); err != nil {
		return User{}, err
	}
	s.user = &merged
	s.bus.Emit(bus.SessionUpdated, merged)
	return merged, nil
}

func merge(u User, upd ProfileUpdate) (User, error) {
	original, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("encode user: %w", err)
	}
	patch, err := json.Marshal(upd)
	if err != nil {
		return User{}, fmt.Errorf("encode profile update: %w", err)
	}
	doc, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return User{}, fmt.Errorf("merge profile update: %w", err)
	}
	var out User
	if err := json.Unmarshal(doc, &out); err != nil {
		return User{}, fmt.Errorf("decode merged user: %w", err)
	}
	return out, nil
}

func (s *Store) persist(u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) transition(to status.State) {
	if err := s.machine.Transition(to); err != nil {
		s.logger.Warn("unexpected session transition", zap.Error(err))
	}
}

// IsValidation reports whether err is a user-input validation failure that
// belongs inline next to the offending field.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameTooShort) || errors.Is(err, ErrEmptyAvatar)
}
