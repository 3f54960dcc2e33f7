package model

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/matheus3301/chatmock/internal/attachment"
	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/tui/ui"
)

// ErrAttachmentPending is returned when sending while the selected file is
// still being read.
var ErrAttachmentPending = errors.New("attachment is still loading")

// ErrNoAttachment is returned when the open chat has nothing to save.
var ErrNoAttachment = errors.New("no attachment in this conversation")

// inputErrors are fixed by the user changing what they typed or picked.
// They flash as warnings; everything else flashes as an error.
var inputErrors = []error{
	session.ErrNameTooShort,
	session.ErrEmptyAvatar,
	session.ErrNoSession,
	chat.ErrEmptyMessage,
	chat.ErrNoActiveChat,
	chat.ErrInvalidCode,
	chat.ErrContactExists,
	attachment.ErrTooLarge,
	attachment.ErrEmptyFile,
	attachment.ErrNotImage,
	attachment.ErrNotRegular,
	attachment.ErrNotLocal,
	ErrAttachmentPending,
	ErrNoAttachment,
	fs.ErrNotExist,
	fs.ErrExist,
}

// ViewModel is the presentation layer's single entry point into the stores.
// Views read snapshots through it and route every user action through it.
type ViewModel struct {
	ctx       context.Context
	workspace string
	started   time.Time

	Session  *session.Store
	Chats    *chat.Store
	Resolver *attachment.Resolver
	Draft    *attachment.Draft
	Flash    *ui.FlashModel
}

// NewViewModel creates a view model over the given stores. ctx bounds the
// background attachment reads.
func NewViewModel(ctx context.Context, workspace string, sess *session.Store, chats *chat.Store, res *attachment.Resolver, draft *attachment.Draft) *ViewModel {
	return &ViewModel{
		ctx:       ctx,
		workspace: workspace,
		started:   time.Now(),
		Session:   sess,
		Chats:     chats,
		Resolver:  res,
		Draft:     draft,
		Flash:     ui.NewFlashModel(inputErrors...),
	}
}

// Login signs in with a display name.
func (vm *ViewModel) Login(name string) (session.User, error) {
	return vm.Session.Login(name)
}

// Logout signs out and drops any half-composed attachment.
func (vm *ViewModel) Logout() error {
	vm.Draft.Clear()
	return vm.Session.Logout()
}

// OpenChat makes id the active chat and marks it read.
func (vm *ViewModel) OpenChat(id string) (chat.Chat, bool) {
	vm.Chats.Select(id)
	vm.Chats.MarkRead(id)
	return vm.Chats.Active()
}

// ChatByName finds a chat by case-insensitive name, preferring an exact
// match, then a prefix, then a substring.
func (vm *ViewModel) ChatByName(name string) (chat.Chat, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return chat.Chat{}, false
	}
	chats := vm.Chats.Chats()
	for _, match := range []func(string) bool{
		func(s string) bool { return s == q },
		func(s string) bool { return strings.HasPrefix(s, q) },
		func(s string) bool { return strings.Contains(s, q) },
	} {
		for _, c := range chats {
			if match(strings.ToLower(c.Name)) || match(strings.ToLower(c.ID)) {
				return c, true
			}
		}
	}
	return chat.Chat{}, false
}

// Send posts text and the resolved draft attachment, if any, to the active
// chat.
func (vm *ViewModel) Send(text string) (chat.Message, error) {
	if _, ok := vm.Chats.Active(); !ok {
		return chat.Message{}, chat.ErrNoActiveChat
	}
	draft := vm.Draft.State()
	if draft.Loading {
		return chat.Message{}, ErrAttachmentPending
	}
	if draft.Err != nil {
		vm.Draft.Clear()
	}

	var att *chat.Attachment
	if a, ok := vm.Draft.Take(); ok {
		att = &a
	}
	msg, err := vm.Chats.Send(text, att)
	if err != nil && att != nil {
		vm.Resolver.Registry().Release(att.URL)
	}
	return msg, err
}

// Attach selects the file at path for the compose box.
func (vm *ViewModel) Attach(path string) error {
	f, err := attachment.OpenFile(strings.TrimSpace(path))
	if err != nil {
		return err
	}
	vm.Draft.Select(vm.ctx, f)
	return nil
}

// ClearAttachment drops the compose box attachment.
func (vm *ViewModel) ClearAttachment() {
	vm.Draft.Clear()
}

// SaveAttachment writes the newest attachment of the active chat to dest
// and returns the path written.
func (vm *ViewModel) SaveAttachment(dest string) (string, error) {
	c, ok := vm.Chats.Active()
	if !ok {
		return "", chat.ErrNoActiveChat
	}
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if att := c.Messages[i].Attachment; att != nil {
			return vm.Resolver.Save(*att, dest)
		}
	}
	return "", ErrNoAttachment
}

// AddContact adds a chat for the given contact code and opens it.
func (vm *ViewModel) AddContact(code string) (chat.Chat, error) {
	return vm.Chats.AddContact(code)
}

// UpdateProfile applies the profile dialog fields. An unchanged or empty
// field is left alone. avatar is either a URL or a path to an image file.
func (vm *ViewModel) UpdateProfile(name, avatar string) (session.User, error) {
	cur, ok := vm.Session.Current()
	if !ok {
		return session.User{}, session.ErrNoSession
	}

	var upd session.ProfileUpdate
	if name != cur.Name {
		upd.Name = &name
	}
	avatar = strings.TrimSpace(avatar)
	if avatar != "" && avatar != cur.Avatar {
		url, err := vm.resolveAvatar(avatar)
		if err != nil {
			return session.User{}, err
		}
		upd.Avatar = &url
	}
	if upd.Name == nil && upd.Avatar == nil {
		return cur, nil
	}
	return vm.Session.UpdateProfile(upd)
}

func (vm *ViewModel) resolveAvatar(input string) (string, error) {
	if IsURL(input) {
		return input, nil
	}
	f, err := attachment.OpenFile(input)
	if err != nil {
		return "", err
	}
	return vm.Resolver.ResolveAvatar(vm.ctx, f)
}

// IsURL reports whether s is a remote or data URL rather than a file path.
func IsURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "data:"} {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			return true
		}
	}
	return false
}

// Search runs a message search across all chats.
func (vm *ViewModel) Search(query string) []chat.SearchResult {
	return vm.Chats.Search(query)
}

// SessionData summarises the workspace for the header.
func (vm *ViewModel) SessionData() *ui.SessionData {
	data := &ui.SessionData{
		Workspace: vm.workspace,
		Status:    string(vm.Session.Status()),
		Uptime:    time.Since(vm.started),
	}
	if u, ok := vm.Session.Current(); ok {
		data.Name = u.Name
		data.Code = u.Code
	}
	for _, c := range vm.Chats.Chats() {
		data.ChatCount++
		data.UnreadCount += c.UnreadCount
		data.MessageCount += len(c.Messages)
	}
	return data
}
