package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheProvider.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// CacheProvider is a TTL'd key/value store for serialisable blobs (transients).
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
