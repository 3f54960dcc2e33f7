package session

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

// StorageKey is the local storage key holding the JSON-encoded User.
const StorageKey = "chatUser"

// DefaultAvatar is assigned at login.
const DefaultAvatar = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde"

// MinNameLength is the minimum display name length, in runes, after trimming.
const MinNameLength = 3

// CodeLength is the length of a contact code.
const CodeLength = 8

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// User is the locally signed-in identity.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Code   string `json:"code"`
}

// ProfileUpdate carries the fields to merge into the current User. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// ValidateName reports whether name is acceptable as a display name.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < MinNameLength {
		return ErrNameTooShort
	}
	return nil
}

// NewCode returns a random uppercase alphanumeric contact code.
func NewCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

func (u User) validate() error {
	if u.ID == "" {
		return errMissingID
	}
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if len(u.Code) != CodeLength {
		return errBadCode
	}
	return nil
}
