// minimal key-value persistence boundary for client histories.
// the record store above it neither knows nor cares whether
// bytes land in memory or sqlite.
package kv

import "sync"

// Store is the opaque get/set contract the record store persists through.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Set writes the value, replacing any prior one.
	Set(key string, value []byte) error
	// Delete removes the key; deleting an absent key is a no-op.
	Delete(key string) error
	// Close releases backend resources.
	Close() error
}

// in-memory backend, used in tests and when no store path is
// configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
