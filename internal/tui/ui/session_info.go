package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// SessionData holds the signed-in user and workspace counters for display.
type SessionData struct {
	Workspace    string
	Name         string
	Code         string
	Status       string
	ChatCount    int
	UnreadCount  int
	MessageCount int
	Uptime       time.Duration
}

// SessionInfo displays session metadata in the header.
type SessionInfo struct {
	*tview.TextView
	theme *Theme
}

// NewSessionInfo creates a new session info panel.
func NewSessionInfo(theme *Theme) *SessionInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &SessionInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the session info.
func (si *SessionInfo) Update(data *SessionData) {
	si.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(si.theme.FgColor)
	counterColor := colorName(si.theme.CounterColor)

	name, code := data.Name, data.Code
	if name == "" {
		name = "-"
	}
	if code == "" {
		code = "-"
	}

	rows := []struct {
		label string
		value string
	}{
		{"Workspace:", data.Workspace},
		{"User:", tview.Escape(name)},
		{"Code:", code},
		{"Status:", data.Status},
		{"Chats:", fmt.Sprintf("%d (%d unread)", data.ChatCount, data.UnreadCount)},
		{"Msgs:", fmt.Sprintf("%d", data.MessageCount)},
		{"Uptime:", formatDuration(data.Uptime)},
	}
	for i, r := range rows {
		if i > 0 {
			_, _ = fmt.Fprint(si, "\n")
		}
		_, _ = fmt.Fprintf(si, "[%s::b]%-10s[-:-:-] [%s]%s[-]", fgColor, r.label, counterColor, r.value)
	}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
