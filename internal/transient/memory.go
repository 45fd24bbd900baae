package transient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

const (
	defaultCapacity    = 10000
	defaultShards      = 8
	defaultMaxTTL      = 7 * 24 * time.Hour
	evictionPercentage = 10
)

type entry struct {
	value     any
	expiresAt time.Time
}

// MemoryStore keeps transients in a sturdyc client. sturdyc applies one TTL
// to the whole client, so each entry also carries its own expiry.
type MemoryStore struct {
	mu     sync.RWMutex
	client *sturdyc.Client[entry]
	maxTTL time.Duration
	now    func() time.Time
}

var _ interfaces.CacheProvider = (*MemoryStore)(nil)

// MemoryOption customises a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxTTL bounds how long any entry may live.
func WithMaxTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.maxTTL = ttl
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{maxTTL: defaultMaxTTL, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	store.client = store.newClient()
	return store
}

func (s *MemoryStore) newClient() *sturdyc.Client[entry] {
	return sturdyc.New[entry](defaultCapacity, defaultShards, s.maxTTL, evictionPercentage)
}

func (s *MemoryStore) Get(_ context.Context, key string) (any, error) {
	key = normalizeKey(key)
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	item, ok := client.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && !s.now().Before(item.expiresAt) {
		client.Delete(key)
		return nil, interfaces.ErrCacheMiss
	}
	return item.value, nil
}

// Set stores value until ttl elapses. A ttl of zero or less keeps the entry
// until the client-wide maximum.
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	key = normalizeKey(key)
	if key == "" {
		return ErrKeyRequired
	}
	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}

	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	client.Set(key, item)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	client.Delete(normalizeKey(key))
	return nil
}

// Clear drops every entry by swapping in a fresh client.
func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.client = s.newClient()
	s.mu.Unlock()
	return nil
}

func normalizeKey(key string) string {
	return strings.TrimSpace(key)
}
