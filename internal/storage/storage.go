// Package storage provides the durable key-value port used by the catalog
// cache, cart, theme and session state, plus in-memory, file-backed and
// Redis implementations.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// IsDecodeError reports whether a Get error means the stored value could
// not be decoded, as opposed to the backend being unreachable. Callers
// use it to tell corruption, which is safe to self-heal by deleting the
// key, from transient transport failures, which are not.
func IsDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// Store is the capability set handed to every component that persists
// state. Values are JSON-serialized by the implementation.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process Store used by tests and as a fallback when
// no durable backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *MemoryStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.data = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}

// Corrupt overwrites a key with non-JSON bytes. Test helper for the
// self-healing paths.
func (m *MemoryStore) Corrupt(key string) {
	m.mu.Lock()
	m.data[key] = []byte("{not json")
	m.mu.Unlock()
}
