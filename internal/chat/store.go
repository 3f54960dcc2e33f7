package chat

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/matheus3301/chatmock/internal/bus"
)

// CodeLength is the exact length of a contact code.
const CodeLength = 8

// Store owns the chat collection, every nested message, and the active chat
// pointer. Callers only ever see copies.
type Store struct {
	mu       sync.RWMutex
	chats    []*Chat
	activeID string
	bus      *bus.Bus
	now      func() time.Time
	newID    func() string
}

// NewStore creates a store holding a copy of seed. The first seeded chat, if
// any, starts active.
func NewStore(b *bus.Bus, seed []Chat) *Store {
	s := &Store{
		bus:   b,
		now:   time.Now,
		newID: newMessageID,
	}
	for i := range seed {
		c := seed[i].clone()
		s.chats = append(s.chats, &c)
	}
	if len(s.chats) > 0 {
		s.activeID = s.chats[0].ID
	}
	return s
}

// newMessageID returns a time-ordered unique token.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Chats returns a snapshot of all chats in insertion order.
func (s *Store) Chats() []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = c.clone()
	}
	return out
}

// Len returns the number of chats.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}

// Lookup returns the chat with the given id.
func (s *Store) Lookup(id string) (Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.find(id)
	if c == nil {
		return Chat{}, false
	}
	return c.clone(), true
}

// ActiveID returns the active chat pointer, which may not resolve to a chat.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns the active chat. ok is false when nothing is selected or the
// selected id has no chat; callers render a placeholder in that case.
func (s *Store) Active() (Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.find(s.activeID)
	if c == nil {
		return Chat{}, false
	}
	return c.clone(), true
}

// Select points the active chat at id. The id is not validated.
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
	s.bus.Emit(bus.ChatSelected, id)
}

// Send appends an own message to the active chat and updates its preview.
func (s *Store) Send(content string, att *Attachment) (Message, error) {
	if strings.TrimSpace(content) == "" && att == nil {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	c := s.find(s.activeID)
	if c == nil {
		s.mu.Unlock()
		return Message{}, ErrNoActiveChat
	}
	msg := Message{
		ID:         s.newID(),
		Content:    content,
		Sender:     SelfSender,
		Timestamp:  s.now(),
		IsOwn:      true,
		Attachment: att.clone(),
	}
	c.Messages = append(c.Messages, msg)
	c.LastMessage = Preview(content, att)
	c.LastMessageAt = msg.Timestamp
	chatID := c.ID
	s.mu.Unlock()

	out := msg.clone()
	s.bus.Emit(bus.MessageAppended, MessageAppended{ChatID: chatID, Message: out.clone()})
	return out, nil
}

// AddContact creates a chat for code and makes it active.
func (s *Store) AddContact(code string) (Chat, error) {
	code = NormalizeCode(code)
	if utf8.RuneCountInString(code) != CodeLength {
		return Chat{}, ErrInvalidCode
	}

	s.mu.Lock()
	if s.find(code) != nil {
		s.mu.Unlock()
		return Chat{}, fmt.Errorf("%w: %s", ErrContactExists, code)
	}
	c := &Chat{
		ID:       code,
		Name:     "User " + code,
		Avatar:   DefaultAvatar,
		Online:   true,
		Messages: []Message{},
	}
	s.chats = append(s.chats, c)
	s.activeID = code
	out := c.clone()
	s.mu.Unlock()

	s.bus.Emit(bus.ChatAdded, out.clone())
	s.bus.Emit(bus.ChatSelected, code)
	return out, nil
}

// MarkRead zeroes the unread counter of id. Returns false if id has no chat.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	c := s.find(id)
	if c == nil {
		s.mu.Unlock()
		return false
	}
	changed := c.UnreadCount != 0
	c.UnreadCount = 0
	s.mu.Unlock()

	if changed {
		s.bus.Emit(bus.ChatRead, id)
	}
	return true
}

// Search returns messages whose content or attachment name contains query,
// case-insensitively, newest first. An empty query matches nothing.
func (s *Store) Search(query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	s.mu.RLock()
	var results []SearchResult
	for _, c := range s.chats {
		for _, m := range c.Messages {
			if !matches(m, q) {
				continue
			}
			results = append(results, SearchResult{ChatID: c.ID, ChatName: c.Name, Message: m.clone()})
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Compare(b.Message.Timestamp.UnixNano(), a.Message.Timestamp.UnixNano())
	})
	return results
}

func matches(m Message, q string) bool {
	if strings.Contains(strings.ToLower(m.Content), q) {
		return true
	}
	return m.Attachment != nil && strings.Contains(strings.ToLower(m.Attachment.Name), q)
}

// find returns the first chat with id. Callers hold s.mu.
func (s *Store) find(id string) *Chat {
	if id == "" {
		return nil
	}
	for _, c := range s.chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}
