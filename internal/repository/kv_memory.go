package repository

import "sync"

// KVMemory keeps values for the lifetime of the process only.
type KVMemory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVMemory() *KVMemory {
	return &KVMemory{values: make(map[string]string)}
}

var _ KVStore = (*KVMemory)(nil)

func (m *KVMemory) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *KVMemory) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *KVMemory) Remove(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *KVMemory) Close() error { return nil }
