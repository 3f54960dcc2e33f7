package session

import "errors"

var (
	ErrNameTooShort  = errors.New("name must be at least 3 characters")
	ErrEmptyAvatar   = errors.New("avatar must not be empty")
	ErrNoSession     = errors.New("not signed in")
	ErrCorruptRecord = errors.New("stored session is corrupt")

	errMissingID = errors.New("missing id")
	errBadCode   = errors.New("contact code must be 8 characters")
)
