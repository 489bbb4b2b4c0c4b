package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var errInvalidScope = errors.New("dashboard: keyed store requires scope and key")

// Scope namespaces keys in a KeyedStore.
type Scope string

// ClassroomScope returns the scope that holds every value for a classroom.
func ClassroomScope(classroomID string) Scope {
	return Scope("classroom:" + strings.TrimSpace(classroomID))
}

// KeyedStore is a scoped key/value store. Namespacing rules live in Scope
// constructors, never at call sites.
type KeyedStore interface {
	Get(ctx context.Context, scope Scope, key string) ([]byte, bool, error)
	Set(ctx context.Context, scope Scope, key string, value []byte) error
}

// MemoryKeyedStore keeps values in process memory.
type MemoryKeyedStore struct {
	mu   sync.RWMutex
	data map[Scope]map[string][]byte
}

// NewMemoryKeyedStore creates an empty store.
func NewMemoryKeyedStore() *MemoryKeyedStore {
	return &MemoryKeyedStore{data: make(map[Scope]map[string][]byte)}
}

// Get returns a copy of the stored value.
func (s *MemoryKeyedStore) Get(_ context.Context, scope Scope, key string) ([]byte, bool, error) {
	if scope == "" || key == "" {
		return nil, false, errInvalidScope
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[scope][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value.
func (s *MemoryKeyedStore) Set(_ context.Context, scope Scope, key string, value []byte) error {
	if scope == "" || key == "" {
		return errInvalidScope
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.data[scope]
	if !ok {
		bucket = make(map[string][]byte)
		s.data[scope] = bucket
	}
	bucket[key] = append([]byte(nil), value...)
	return nil
}
