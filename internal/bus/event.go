package bus

import "time"

// Event kinds published by the stores. Subscribers filter by namespace
// prefix ("session.", "chat.", "message.", "attachment.").
const (
	SessionStatusChanged = "session.status_changed"
	SessionLogin         = "session.login"
	SessionLogout        = "session.logout"
	SessionUpdated       = "session.updated"

	ChatSelected = "chat.selected"
	ChatAdded    = "chat.added"
	ChatRead     = "chat.read"

	MessageAppended = "message.appended"

	AttachmentResolved = "attachment.resolved"
	AttachmentFailed   = "attachment.failed"
)

// Event represents a state change published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
