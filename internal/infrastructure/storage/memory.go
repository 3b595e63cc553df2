package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage keeps uploads in process for local runs and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "http://localhost/storage"
	}
	return &MemoryStorage{objects: make(map[string]memoryObject), baseURL: baseURL}
}

func (s *MemoryStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (*Object, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	s.mu.Unlock()

	return &Object{PublicURL: publicURL(s.baseURL, key), StoragePath: key}, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a stored object's bytes.
func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	data, _, ok := s.Open(key)
	return data, ok
}

// Open returns a stored object with the content type it was uploaded with.
func (s *MemoryStorage) Open(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	if obj.contentType == "" {
		return obj.data, "application/octet-stream", true
	}
	return obj.data, obj.contentType, true
}
