// Package objectstore abstracts the managed object store holding meal
// images. The application only needs put and delete; URL signing and
// lifecycle policy belong to the managed service.
package objectstore

import (
	"context"
	"fmt"
	"sync"
)

// Store is the object-store contract. Delete is idempotent: deleting an
// absent object is a no-op.
type Store interface {
	Put(ctx context.Context, path, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, path string) error
}

// Memory is the development/test implementation.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		baseURL: "memory://images",
	}
}

func (m *Memory) Put(_ context.Context, path, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = append([]byte(nil), data...)
	return fmt.Sprintf("%s/%s", m.baseURL, path), nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

// Len reports the number of stored objects; test helper.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
