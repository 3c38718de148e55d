// Package storagetest provides an in-memory storage.KV for tests.
package storagetest

import (
	"context"
	"sync"
)

// KV is an in-memory key-value store that records writes and can be told
// to fail.
type KV struct {
	mu      sync.Mutex
	data    map[string][]byte
	puts    int
	FailPut error
	FailGet error
}

// New returns an empty KV.
func New() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *KV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return nil, false, m.FailGet
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value.
func (m *KV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	m.puts++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (m *KV) Close() error { return nil }

// Set seeds a raw value without counting it as a write.
func (m *KV) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Raw returns the stored bytes for key.
func (m *KV) Raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// Puts returns the number of successful writes.
func (m *KV) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
