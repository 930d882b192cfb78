package credentialstore

import (
	"context"
	"sync"
)

// MemoryStorage is a process-local Storage. The zero value is ready to use.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the value stored under key or ErrKeyNotFound.
func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set stores value under key.
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (m *MemoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Clear deletes every key.
func (m *MemoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string]string)
	return nil
}

// Len reports how many keys are stored.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
