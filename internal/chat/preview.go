package chat

import "strings"

// Preview returns the chat-list preview for a message: the literal content,
// or a placeholder naming the attachment kind when the content is empty.
func Preview(content string, att *Attachment) string {
	if content != "" || att == nil {
		return content
	}
	if att.Type == AttachmentImage {
		return "Sent an image"
	}
	return "Sent a file"
}

// NormalizeCode trims and upper-cases a contact code as typed by the user.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
