package attachment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matheus3301/chatmock/internal/chat"
)

func TestOpenReadsBothReferenceKinds(t *testing.T) {
	r := newTestResolver(0)
	ctx := context.Background()

	img, err := r.Resolve(ctx, FromBytes("photo.png", "image/png", pngBytes))
	if err != nil {
		t.Fatalf("Resolve(image) error = %v", err)
	}
	doc, err := r.Resolve(ctx, FromBytes("notes.txt", "text/plain", []byte("hello")))
	if err != nil {
		t.Fatalf("Resolve(file) error = %v", err)
	}

	tests := []struct {
		name string
		att  chat.Attachment
		want []byte
	}{
		{"data reference", img, pngBytes},
		{"object handle", doc, []byte("hello")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := r.Open(tt.att)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer func() { _ = rc.Close() }()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Open() contents = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenRejects(t *testing.T) {
	r := newTestResolver(0)
	tests := []struct {
		name string
		url  string
		want error
	}{
		{"released handle", HandlePrefix + "gone", ErrUnknownHandle},
		{"remote url", "https://example.com/a.png", ErrNotLocal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Open(chat.Attachment{URL: tt.url}); !errors.Is(err, tt.want) {
				t.Errorf("Open() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSaveIntoDirectory(t *testing.T) {
	r := newTestResolver(0)
	att, err := r.Resolve(context.Background(), FromBytes("notes.txt", "text/plain", []byte("hello")))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	dir := t.TempDir()

	path, err := r.Save(att, dir)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, "notes.txt"); path != want {
		t.Errorf("Save() path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("saved contents = %q, %v", data, err)
	}

	if _, err := r.Save(att, dir); !errors.Is(err, os.ErrExist) {
		t.Errorf("second Save() error = %v, want os.ErrExist", err)
	}
}

func TestSaveEmptyFile(t *testing.T) {
	r := newTestResolver(0)
	att, err := r.Resolve(context.Background(), FromBytes("empty.txt", "text/plain", nil))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	path, err := r.Save(att, filepath.Join(t.TempDir(), "copy.txt"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() != 0 {
		t.Errorf("saved file = %v, %v; want an empty file", fi, err)
	}
}

func TestSaveTarget(t *testing.T) {
	dir := t.TempDir()
	sep := string(filepath.Separator)
	tests := []struct {
		name string
		dest string
		file string
		want string
	}{
		{"cwd", "", "a.pdf", "a.pdf"},
		{"existing dir", dir, "a.pdf", filepath.Join(dir, "a.pdf")},
		{"trailing separator", filepath.Join(dir, "new") + sep, "a.pdf", filepath.Join(dir, "new", "a.pdf")},
		{"explicit file", filepath.Join(dir, "b.pdf"), "a.pdf", filepath.Join(dir, "b.pdf")},
		{"name with path", dir, "../../etc/passwd", filepath.Join(dir, "passwd")},
		{"no name", dir, "", filepath.Join(dir, "attachment")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := saveTarget(tt.dest, tt.file); got != tt.want {
				t.Errorf("saveTarget(%q, %q) = %q, want %q", tt.dest, tt.file, got, tt.want)
			}
		})
	}
}
