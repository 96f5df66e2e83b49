package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore is a BlobStore on the local filesystem, used for development
// and single-host deployments. Metadata is not persisted.
type LocalStore struct {
	dir    string
	bucket string

	// OnPut, when set, is called after every successful Put. It stands in
	// for the bucket notification a cloud store would emit.
	OnPut func(bucket, key string)
}

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir, bucket string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	if bucket == "" {
		bucket = "local"
	}
	return &LocalStore{dir: dir, bucket: bucket}, nil
}

// Bucket implements BlobStore.
func (s *LocalStore) Bucket() string {
	return s.bucket
}

// path maps a key to a file inside dir. Keys are flat, so separators are rejected.
func (s *LocalStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Put implements BlobStore. The file is written under a temporary name and
// renamed so readers never see a partial object.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, _ string, _ map[string]string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", key, err)
	}

	if s.OnPut != nil {
		s.OnPut(s.bucket, key)
	}
	return nil
}

// Get implements BlobStore.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// List implements BlobStore. Hidden files (temporary uploads) are skipped.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasPrefix(name, prefix) {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys, nil
}
