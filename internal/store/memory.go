package store

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory object store. It mirrors the
// GCS adapter's behaviour and backs local development and tests.
type MemoryStore struct {
	mu sync.RWMutex

	// key: full object name, value: object bytes
	objects map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

// Upload stores the content of localPath under remotePath, replacing any
// existing object.
func (s *MemoryStore) Upload(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "upload", Path: remotePath, Err: err}
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return &Error{Op: "upload", Path: remotePath, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[remotePath] = data
	return nil
}

// Download writes the object at remotePath to localPath.
func (s *MemoryStore) Download(ctx context.Context, remotePath, localPath string) error {
	data, ok := s.get(remotePath)
	if !ok {
		return &Error{Op: "download", Path: remotePath, Err: ErrNotFound}
	}
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return &Error{Op: "download", Path: remotePath, Err: err}
	}
	return nil
}

// List returns the names of all objects starting with prefix, sorted.
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether an object is stored at remotePath.
func (s *MemoryStore) Exists(ctx context.Context, remotePath string) (bool, error) {
	_, ok := s.get(remotePath)
	return ok, nil
}

// ReadJSON parses the object at remotePath as JSON.
func (s *MemoryStore) ReadJSON(ctx context.Context, remotePath string) (any, error) {
	data, ok := s.get(remotePath)
	if !ok {
		return nil, &Error{Op: "read", Path: remotePath, Err: ErrNotFound}
	}
	v, err := parseJSON(data)
	if err != nil {
		return nil, &Error{Op: "read", Path: remotePath, Err: err}
	}
	return v, nil
}

func (s *MemoryStore) get(remotePath string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[remotePath]
	return data, ok
}
