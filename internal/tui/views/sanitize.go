package views

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matheus3301/chatmock/internal/attachment"
)

// maxNameRunes bounds attachment names in one-line labels.
const maxNameRunes = 40

// maxURLRunes bounds URLs shown in detail panes.
const maxURLRunes = 60

// sanitizeForTerminal removes codepoints that tcell draws wrongly or that
// rearrange the line: emoji modifiers and joiners, variation selectors,
// bidi overrides and control characters other than newline and tab.
func sanitizeForTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		if isProblematicRune(r) || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			return -1
		}
		return r
	}, s)
}

func isProblematicRune(r rune) bool {
	switch {
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Variation Selectors.
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	// Variation Selectors Supplement.
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	// Bidi embeddings, overrides and isolates.
	case r >= 0x202A && r <= 0x202E, r >= 0x2066 && r <= 0x2069:
		return true
	default:
		return false
	}
}

// displayName renders a file name on one line: sanitized, with newlines
// and tabs turned into spaces and long names cut in the middle so the
// extension stays visible.
func displayName(name string, limit int) string {
	name = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, sanitizeForTerminal(name))
	return truncateMiddle(name, limit)
}

// previewURL summarises a URL for display. Data references show their
// media type and decoded size instead of the payload.
func previewURL(url string) string {
	if strings.HasPrefix(url, "data:") {
		mediaType, data, err := attachment.DecodeDataURL(url)
		if err != nil {
			return "data: (unreadable)"
		}
		return fmt.Sprintf("data:%s (%s)", mediaType, FormatSize(int64(len(data))))
	}
	return truncateMiddle(sanitizeForTerminal(url), maxURLRunes)
}

func truncateMiddle(s string, limit int) string {
	n := utf8.RuneCountInString(s)
	if limit < 5 || n <= limit {
		return s
	}
	runes := []rune(s)
	head := (limit - 1) / 2
	tail := limit - 1 - head
	return string(runes[:head]) + "…" + string(runes[n-tail:])
}
