package ui

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// Display time per level.
const (
	infoDuration = 5 * time.Second
	warnDuration = 8 * time.Second
	errDuration  = 10 * time.Second
)

// FlashMessage is a flash notification with a level and expiry. Count is
// how many times the same text was raised while it was still showing.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
	Count   int
}

// FlashModel holds the current notification. Errors matching one of the
// expected errors (bad input, missing selection) are shown as warnings;
// anything else, such as a storage failure, is shown as an error.
type FlashModel struct {
	mu       sync.RWMutex
	current  FlashMessage
	expected []error
	watchCh  chan FlashMessage
	now      func() time.Time
}

// NewFlashModel creates a flash model. expected lists the errors a user can
// fix by changing their input.
func NewFlashModel(expected ...error) *FlashModel {
	return &FlashModel{
		expected: expected,
		watchCh:  make(chan FlashMessage, 8),
		now:      time.Now,
	}
}

// Info sets an info-level flash message.
func (f *FlashModel) Info(msg string) {
	f.set(msg, FlashInfo, infoDuration)
}

// Warn sets a warn-level flash message.
func (f *FlashModel) Warn(msg string) {
	f.set(msg, FlashWarn, warnDuration)
}

// Err flashes err at the level its kind calls for.
func (f *FlashModel) Err(err error) {
	if f.Expected(err) {
		f.set(err.Error(), FlashWarn, warnDuration)
		return
	}
	f.set(err.Error(), FlashErr, errDuration)
}

// Expected reports whether err wraps one of the expected errors.
func (f *FlashModel) Expected(err error) bool {
	for _, e := range f.expected {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Set sets an info-level message shown for d.
func (f *FlashModel) Set(msg string, d time.Duration) {
	f.set(msg, FlashInfo, d)
}

// Clear hides the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
}

func (f *FlashModel) set(msg string, level FlashLevel, d time.Duration) {
	now := f.now()
	f.mu.Lock()
	count := 1
	if f.current.Text == msg && f.current.Level == level && now.Before(f.current.Expires) {
		count = f.current.Count + 1
	}
	fm := FlashMessage{
		Text:    msg,
		Level:   level,
		Expires: now.Add(d),
		Count:   count,
	}
	f.current = fm
	f.mu.Unlock()
	select {
	case f.watchCh <- fm:
	default:
	}
}

// Get returns the current flash message text, or empty if expired.
func (f *FlashModel) Get() string {
	if m := f.GetMessage(); m != nil {
		return m.Text
	}
	return ""
}

// GetMessage returns the current flash message, or nil if expired.
func (f *FlashModel) GetMessage() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" || f.now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// Watch returns a channel that receives flash messages.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders msg, or clears the bar for nil.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}

	var color string
	switch msg.Level {
	case FlashInfo:
		color = colorName(fb.theme.FlashInfoColor)
	case FlashWarn:
		color = colorName(fb.theme.FlashWarnColor)
	case FlashErr:
		color = colorName(fb.theme.FlashErrColor)
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s[-]", color, tview.Escape(msg.Text))
	if msg.Count > 1 {
		_, _ = fmt.Fprintf(fb, " [::d](x%d)[-:-:-]", msg.Count)
	}
}
