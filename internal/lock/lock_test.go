package lock

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestAcquireWritesOwner(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = l.Release() }()

	if got := HolderPID(dir); got != os.Getpid() {
		t.Errorf("HolderPID() = %d, want %d", got, os.Getpid())
	}
}

func TestSecondAcquireReportsHolder(t *testing.T) {
	dir := t.TempDir()

	l1, err := Acquire(dir)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer func() { _ = l1.Release() }()

	_, err = Acquire(dir)
	if err == nil {
		t.Fatal("second Acquire() should fail")
	}

	var lockErr *LockHeldError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected LockHeldError, got %T: %v", err, err)
	}
	if lockErr.PID != os.Getpid() {
		t.Errorf("LockHeldError.PID = %d, want %d", lockErr.PID, os.Getpid())
	}
}

func TestReleaseClearsOwner(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if got := HolderPID(dir); got != 0 {
		t.Errorf("HolderPID() after release = %d, want 0", got)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}

	l2, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() after Release error = %v", err)
	}
	_ = l2.Release()
}

func TestReleaseKeepsSingleHolder(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	// A contender that opened LOCK before the release.
	waiter, err := os.Open(filepath.Join(dir, "LOCK"))
	if err != nil {
		t.Fatalf("open LOCK: %v", err)
	}
	defer func() { _ = waiter.Close() }()

	_ = l.Release()

	if err := syscall.Flock(int(waiter.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		t.Fatalf("flock on released LOCK error = %v", err)
	}
	_, err = Acquire(dir)
	var held *LockHeldError
	if !errors.As(err, &held) {
		t.Fatalf("Acquire() while another descriptor holds LOCK: error = %v, want LockHeldError", err)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
}

func TestParsePID(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"pid=42\ntime=x\n", 42},
		{"time=x\npid=7", 7},
		{"", 0},
		{"pid=abc", 0},
	}
	for _, tt := range tests {
		if got := parsePID(tt.in); got != tt.want {
			t.Errorf("parsePID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsHeld(t *testing.T) {
	dir := t.TempDir()
	if IsHeld(dir) {
		t.Fatal("IsHeld() = true before Acquire")
	}

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !IsHeld(dir) {
		t.Error("IsHeld() = false while held")
	}

	_ = l.Release()
	if IsHeld(dir) {
		t.Error("IsHeld() = true after Release")
	}
}
