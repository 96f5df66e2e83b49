// Package storage holds uploaded photos under their object keys.
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// BlobStore stores binary objects under flat keys in one bucket.
type BlobStore interface {
	// Bucket returns the bucket name the store writes to.
	Bucket() string
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
	// Get returns the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns the keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ContentTypeForKey guesses an image content type from the key's extension.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".bmp"):
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}
