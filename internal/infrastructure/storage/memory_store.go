package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const memoryScheme = "memory://"

// MemoryStore is the blob store used with DATABASE_DRIVER=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, collection string, data []byte, contentType string) (string, error) {
	url := memoryScheme + objectName(collection, contentType, time.Now())

	s.mu.Lock()
	s.objects[url] = append([]byte(nil), data...)
	s.mu.Unlock()
	return url, nil
}

func (s *MemoryStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, memoryScheme) {
		return fmt.Errorf("not a memory store url: %s", url)
	}
	s.mu.Lock()
	delete(s.objects, url)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[url]
	return data, ok
}
