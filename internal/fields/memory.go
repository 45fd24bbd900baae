package fields

import (
	"context"
	"sync"

	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

// MemoryStore keeps field values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[query.FieldRef]map[string]any
}

var _ interfaces.FieldStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[query.FieldRef]map[string]any{}}
}

func (s *MemoryStore) Field(_ context.Context, ref query.FieldRef, key string) (any, error) {
	if ref.IsZero() {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[ref][key], nil
}

// Set stores value under key for ref. A nil value removes the field.
func (s *MemoryStore) Set(_ context.Context, ref query.FieldRef, key string, value any) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		delete(s.values[ref], key)
		return nil
	}
	if s.values[ref] == nil {
		s.values[ref] = map[string]any{}
	}
	s.values[ref][key] = value
	return nil
}
