package attachment

import "errors"

var (
	ErrTooLarge      = errors.New("file is too large")
	ErrEmptyFile     = errors.New("file is empty")
	ErrNotImage      = errors.New("please select an image file")
	ErrNotRegular    = errors.New("not a regular file")
	ErrUnknownHandle = errors.New("unknown object handle")
	ErrNotLocal      = errors.New("attachment is not stored locally")
)
