package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatmock/internal/attachment"
	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/tui/ui"
	"github.com/rivo/tview"
)

// placeholderText is shown when the selected chat does not exist.
const placeholderText = "No conversation selected"

// MessageThread displays messages and a composer for a single chat.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	header   *tview.TextView
	messages *tview.TextView
	draft    *tview.TextView
	composer *tview.InputField
	chatID   string
	chatName string
	onSend   func(text string) bool
	now      func() time.Time
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	header := tview.NewTextView().
		SetDynamicColors(true)
	header.SetBackgroundColor(theme.BgColor)
	header.SetBorderPadding(0, 0, 1, 1)

	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	draft := tview.NewTextView().
		SetDynamicColors(true)
	draft.SetBackgroundColor(theme.BgColor)
	draft.SetBorderPadding(0, 0, 1, 1)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitle(" Compose (i to focus, Ctrl-A attach, Ctrl-X clear) ")
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(messages, 0, 1, true).
		AddItem(draft, 1, 0, false).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		header:   header,
		messages: messages,
		draft:    draft,
		composer: composer,
		now:      time.Now,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || mt.onSend == nil {
			return
		}
		if mt.onSend(composer.GetText()) {
			composer.SetText("")
		}
	})

	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.chatName != "" {
		return mt.chatName
	}
	return "Messages"
}

// Init implements Component.
func (mt *MessageThread) Init() {}

// Start implements Component.
func (mt *MessageThread) Start() {}

// Stop implements Component.
func (mt *MessageThread) Stop() {}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl-A", Description: "Attach"},
		{Key: "Ctrl-X", Description: "Clear attachment"},
		{Key: "d", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnSend sets the callback for Enter in the composer. The composer is
// cleared only when it returns true.
func (mt *MessageThread) SetOnSend(fn func(text string) bool) {
	mt.onSend = fn
}

// ChatID returns the id of the displayed chat, empty for the placeholder.
func (mt *MessageThread) ChatID() string {
	return mt.chatID
}

// ShowPlaceholder renders the empty state for a missing chat.
func (mt *MessageThread) ShowPlaceholder() {
	mt.chatID = ""
	mt.chatName = ""
	mt.header.Clear()
	mt.messages.Clear()
	mt.messages.SetTitle(" Messages ")
	_, _ = fmt.Fprintf(mt.messages, "\n\n  [::d]%s[-:-:-]", placeholderText)
}

// Update renders c's header and messages.
func (mt *MessageThread) Update(c chat.Chat) {
	mt.chatID = c.ID
	mt.chatName = c.Name

	mt.header.Clear()
	presenceColor := colorHex(mt.theme.OfflineColor)
	if c.Online {
		presenceColor = colorHex(mt.theme.OnlineColor)
	}
	_, _ = fmt.Fprintf(mt.header, "[::b]%s[-:-:-]  [%s]%s[-]",
		tview.Escape(sanitizeForTerminal(c.Name)), presenceColor, onlineLabel(c.Online))

	mt.messages.SetTitle(fmt.Sprintf(" %s ", tview.Escape(sanitizeForTerminal(c.Name))))
	mt.messages.Clear()
	now := mt.now()
	for _, m := range c.Messages {
		_, _ = fmt.Fprint(mt.messages, mt.renderMessage(m, now))
	}
	mt.messages.ScrollToEnd()
}

func (mt *MessageThread) renderMessage(m chat.Message, now time.Time) string {
	var b strings.Builder
	sender := sanitizeForTerminal(m.Sender)
	senderColor := colorHex(mt.theme.FgColor)
	if m.IsOwn {
		sender = "You"
		senderColor = colorHex(mt.theme.OwnMessageColor)
	}
	fmt.Fprintf(&b, "[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n",
		senderColor, tview.Escape(sender), messageTime(m.Timestamp, now))
	if m.Content != "" {
		fmt.Fprintf(&b, "%s\n", tview.Escape(sanitizeForTerminal(m.Content)))
	}
	if m.Attachment != nil {
		fmt.Fprintf(&b, "[%s]%s[-]\n", colorHex(mt.theme.AttachmentColor), tview.Escape(attachmentLabel(m.Attachment)))
	}
	b.WriteString("\n")
	return b.String()
}

func messageTime(t, now time.Time) string {
	day := formatTimestamp(t, now)
	if day == "" || strings.Contains(day, ":") {
		return day
	}
	return day + " " + t.Local().Format("15:04")
}

// SetDraft renders the compose box attachment line.
func (mt *MessageThread) SetDraft(st attachment.DraftState) {
	mt.draft.Clear()
	switch {
	case st.Empty():
	case st.Loading:
		_, _ = fmt.Fprintf(mt.draft, "[::d]reading %s...[-:-:-]", tview.Escape(displayName(st.Name, maxNameRunes)))
	case st.Err != nil:
		_, _ = fmt.Fprintf(mt.draft, "[%s]%s: %s[-]", colorHex(mt.theme.ErrorTextColor),
			tview.Escape(displayName(st.Name, maxNameRunes)), tview.Escape(st.Err.Error()))
	case st.Attachment != nil:
		_, _ = fmt.Fprintf(mt.draft, "[%s]%s[-] [::d](Ctrl-X to remove)[-:-:-]",
			colorHex(mt.theme.AttachmentColor), tview.Escape(attachmentLabel(st.Attachment)))
	}
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}

func colorHex(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
