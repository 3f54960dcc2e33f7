package chat

import "time"

// SelfSender is the sender recorded on messages written by the local user.
const SelfSender = "me"

// DefaultAvatar is used for contacts added by code.
const DefaultAvatar = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde"

// AttachmentType distinguishes inline images from opaque files.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

// Attachment is a file or image bundled with a message. URL is either a
// data: reference (images) or a transient object handle (files).
type Attachment struct {
	Type      AttachmentType
	URL       string
	Name      string
	Size      int64
	MediaType string
}

// Message is a single entry in a chat thread.
type Message struct {
	ID         string
	Content    string
	Sender     string
	Timestamp  time.Time
	IsOwn      bool
	Attachment *Attachment
}

// Chat is a conversation with one counterpart.
type Chat struct {
	ID            string
	Name          string
	Avatar        string
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   int
	Online        bool
	Messages      []Message
}

// SearchResult is a message matched by Store.Search.
type SearchResult struct {
	ChatID   string
	ChatName string
	Message  Message
}

// MessageAppended is the payload of bus.MessageAppended.
type MessageAppended struct {
	ChatID  string
	Message Message
}

func (a *Attachment) clone() *Attachment {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (m Message) clone() Message {
	m.Attachment = m.Attachment.clone()
	return m
}

func (c *Chat) clone() Chat {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		out.Messages[i] = m.clone()
	}
	return out
}
