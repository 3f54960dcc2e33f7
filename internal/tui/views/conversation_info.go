package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo displays detailed information about a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// Init implements Component.
func (ci *ConversationInfo) Init() {}

// Start implements Component.
func (ci *ConversationInfo) Start() {}

// Stop implements Component.
func (ci *ConversationInfo) Stop() {}

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// Update renders conversation details.
func (ci *ConversationInfo) Update(c chat.Chat) {
	ci.Clear()

	fg := colorHex(ci.theme.FgColor)
	ct := colorHex(ci.theme.CounterColor)

	lastActive := formatTimestamp(c.LastMessageAt, time.Now())
	if lastActive == "" {
		lastActive = "-"
	}

	var files, images int
	var bytes int64
	for _, m := range c.Messages {
		if m.Attachment == nil {
			continue
		}
		if m.Attachment.Type == chat.AttachmentImage {
			images++
		} else {
			files++
		}
		bytes += m.Attachment.Size
	}

	rows := []struct {
		label string
		value string
	}{
		{"Name:", tview.Escape(sanitizeForTerminal(c.Name))},
		{"Code:", tview.Escape(c.ID)},
		{"Presence:", onlineLabel(c.Online)},
		{"Unread:", fmt.Sprintf("%d", c.UnreadCount)},
		{"Messages:", fmt.Sprintf("%d", len(c.Messages))},
		{"Attachments:", fmt.Sprintf("%d images, %d files (%s)", images, files, FormatSize(bytes))},
		{"Last Active:", lastActive},
		{"Last Message:", tview.Escape(sanitizeForTerminal(c.LastMessage))},
		{"Avatar:", tview.Escape(previewURL(c.Avatar))},
	}
	_, _ = fmt.Fprint(ci, "\n")
	for _, r := range rows {
		_, _ = fmt.Fprintf(ci, " [%s::b]%-14s[-:-:-] [%s]%s[-]\n", fg, r.label, ct, r.value)
	}
	ci.SetTitle(fmt.Sprintf(" %s Details ", tview.Escape(c.Name)))
}
