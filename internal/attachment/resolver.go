package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matheus3301/chatmock/internal/chat"
	"go.uber.org/zap"
)

// Resolver turns a selected file into a displayable attachment reference.
type Resolver struct {
	registry *Registry
	maxBytes int64
	logger   *zap.Logger
}

// NewResolver creates a resolver. maxBytes <= 0 disables the size limit.
func NewResolver(registry *Registry, maxBytes int64, logger *zap.Logger) *Resolver {
	return &Resolver{
		registry: registry,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Registry returns the handle registry backing file attachments.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve produces an attachment for f. Images are read in full and
// encoded as a data reference; any other file gets an object handle.
func (r *Resolver) Resolve(ctx context.Context, f File) (chat.Attachment, error) {
	if err := r.check(f); err != nil {
		return chat.Attachment{}, err
	}
	att := chat.Attachment{
		Name:      f.Name(),
		Size:      f.Size(),
		MediaType: f.MediaType(),
	}
	if !IsImage(f.MediaType()) {
		att.Type = chat.AttachmentFile
		att.URL = r.registry.Create(f)
		return att, nil
	}

	url, err := r.encode(ctx, f)
	if err != nil {
		return chat.Attachment{}, err
	}
	att.Type = chat.AttachmentImage
	att.URL = url
	r.logger.Debug("image encoded", zap.String("name", f.Name()), zap.Int64("size", f.Size()))
	return att, nil
}

// ResolveAvatar encodes an image file as a data reference for use as a
// profile avatar.
func (r *Resolver) ResolveAvatar(ctx context.Context, f File) (string, error) {
	if !IsImage(f.MediaType()) {
		return "", ErrNotImage
	}
	if f.Size() == 0 {
		return "", ErrEmptyFile
	}
	if err := r.check(f); err != nil {
		return "", err
	}
	return r.encode(ctx, f)
}

// check enforces the size limit. Zero-byte files are valid attachments.
func (r *Resolver) check(f File) error {
	if r.maxBytes > 0 && f.Size() > r.maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, f.Name(), f.Size(), r.maxBytes)
	}
	return nil
}

func (r *Resolver) encode(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer func() { _ = rc.Close() }()

	var src io.Reader = rc
	if r.maxBytes > 0 {
		src = io.LimitReader(rc, r.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	if r.maxBytes > 0 && int64(len(data)) > r.maxBytes {
		return "", fmt.Errorf("%w: %s", ErrTooLarge, f.Name())
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "data:" + baseType(f.MediaType()) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURL returns the media type and bytes of a base64 data reference.
func DecodeDataURL(url string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, errors.New("not a data reference")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data reference")
	}
	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("data reference is not base64")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data reference: %w", err)
	}
	return mediaType, data, nil
}
