package attachment

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a locally selected file: name, media type, byte size and its
// contents on demand.
type File interface {
	Name() string
	MediaType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type diskFile struct {
	path      string
	mediaType string
	size      int64
}

// OpenFile describes the regular file at path. The media type is detected
// from the file's contents.
func OpenFile(path string) (File, error) {
	path = expandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect media type: %w", err)
	}
	return &diskFile{path: path, mediaType: mt.String(), size: info.Size()}, nil
}

func (f *diskFile) Name() string      { return filepath.Base(f.path) }
func (f *diskFile) MediaType() string { return f.mediaType }
func (f *diskFile) Size() int64       { return f.size }

func (f *diskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

type memFile struct {
	name      string
	mediaType string
	data      []byte
}

// FromBytes returns a File over data. An empty mediaType is detected from
// the contents.
func FromBytes(name, mediaType string, data []byte) File {
	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
	}
	return &memFile{name: name, mediaType: mediaType, data: data}
}

func (f *memFile) Name() string      { return f.name }
func (f *memFile) MediaType() string { return f.mediaType }
func (f *memFile) Size() int64       { return int64(len(f.data)) }

func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// IsImage reports whether mediaType is an image/* type.
func IsImage(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(mediaType), "image/")
}

// baseType strips parameters such as charset from a media type.
func baseType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.TrimSpace(mediaType)
}
