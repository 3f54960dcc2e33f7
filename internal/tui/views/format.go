package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/chatmock/internal/chat"
)

// FormatSize renders a byte count as B, KB or MB with one decimal.
func FormatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}

// formatTimestamp shows the time of day for today and the date otherwise.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	now = now.Local()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 02")
	}
	return t.Format("2006-01-02")
}

// onlineLabel is the presence text shown under a chat name.
func onlineLabel(online bool) string {
	if online {
		return "Online"
	}
	return "Offline"
}

// attachmentLabel renders an attachment as a one-line description.
func attachmentLabel(a *chat.Attachment) string {
	kind := "file"
	if a.Type == chat.AttachmentImage {
		kind = "image"
	}
	return fmt.Sprintf("[%s] %s (%s)", kind, displayName(a.Name, maxNameRunes), FormatSize(a.Size))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
