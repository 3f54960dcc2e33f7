package attachment

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matheus3301/chatmock/internal/chat"
	"go.uber.org/zap"
)

// Open returns the contents behind an attachment URL: the file referenced
// by an object handle, or the bytes of a data reference.
func (r *Resolver) Open(att chat.Attachment) (io.ReadCloser, error) {
	switch {
	case IsHandle(att.URL):
		return r.registry.Open(att.URL)
	case strings.HasPrefix(att.URL, "data:"):
		_, data, err := DecodeDataURL(att.URL)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	default:
		return nil, ErrNotLocal
	}
}

// Save writes the attachment's contents to dest and returns the written
// path. A directory dest (existing, or ending in a separator) receives the
// attachment under its own name. Existing files are never overwritten.
func (r *Resolver) Save(att chat.Attachment, dest string) (string, error) {
	path := saveTarget(expandHome(strings.TrimSpace(dest)), att.Name)

	src, err := r.Open(att)
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	r.logger.Info("attachment saved", zap.String("path", path), zap.Int64("bytes", n))
	return path, nil
}

func saveTarget(dest, name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		name = "attachment"
	}
	if dest == "" {
		return name
	}
	if strings.HasSuffix(dest, string(filepath.Separator)) {
		return filepath.Join(dest, name)
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return filepath.Join(dest, name)
	}
	return dest
}
