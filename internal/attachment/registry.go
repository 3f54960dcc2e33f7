package attachment

import (
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandlePrefix starts every object handle URL.
const HandlePrefix = "blob:chatmock/"

// Registry maps transient object handles to the files they reference.
// Handles live until released.
type Registry struct {
	mu      sync.Mutex
	handles map[string]File
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		handles: make(map[string]File),
		logger:  logger,
	}
}

// Create registers f and returns its handle URL.
func (r *Registry) Create(f File) string {
	url := HandlePrefix + uuid.NewString()
	r.mu.Lock()
	r.handles[url] = f
	r.mu.Unlock()
	r.logger.Debug("object handle created", zap.String("url", url), zap.String("name", f.Name()))
	return url
}

// Lookup returns the file behind url.
func (r *Registry) Lookup(url string) (File, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.handles[url]
	return f, ok
}

// Open opens the contents of the file behind url.
func (r *Registry) Open(url string) (io.ReadCloser, error) {
	f, ok := r.Lookup(url)
	if !ok {
		return nil, ErrUnknownHandle
	}
	return f.Open()
}

// Release drops url. Releasing an unknown or already released handle is a
// no-op and returns false.
func (r *Registry) Release(url string) bool {
	r.mu.Lock()
	_, ok := r.handles[url]
	delete(r.handles, url)
	r.mu.Unlock()
	if ok {
		r.logger.Debug("object handle released", zap.String("url", url))
	}
	return ok
}

// ReleaseAll drops every handle and returns how many were live.
func (r *Registry) ReleaseAll() int {
	r.mu.Lock()
	n := len(r.handles)
	clear(r.handles)
	r.mu.Unlock()
	if n > 0 {
		r.logger.Info("released object handles", zap.Int("count", n))
	}
	return n
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// IsHandle reports whether url is an object handle rather than a data
// reference or remote URL.
func IsHandle(url string) bool {
	return strings.HasPrefix(url, HandlePrefix)
}
