package chat

import "errors"

var (
	ErrEmptyMessage  = errors.New("message needs text or an attachment")
	ErrNoActiveChat  = errors.New("no conversation selected")
	ErrInvalidCode   = errors.New("contact code must be 8 characters")
	ErrContactExists = errors.New("contact already in your list")
)
