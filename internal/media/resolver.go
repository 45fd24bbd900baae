package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/pkg/interfaces"
)

var (
	// ErrAttachmentNotFound reports an attachment reference with no known source.
	ErrAttachmentNotFound = errors.New("media: attachment not found")
	// ErrSizeMissing reports an attachment without the requested size.
	ErrSizeMissing = errors.New("media: size missing")
)

// IsAbsoluteURL reports whether ref already points at a file.
func IsAbsoluteURL(ref string) bool {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// MemoryResolver maps attachment IDs to per-size URLs. References that are
// already absolute URLs resolve to themselves for every size.
type MemoryResolver struct {
	mu          sync.RWMutex
	attachments map[string]map[string]string
}

var _ interfaces.AttachmentResolver = (*MemoryResolver)(nil)

func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{attachments: map[string]map[string]string{}}
}

// Put records the sources of attachment id keyed by size name. The "full"
// size is returned when a requested size is missing.
func (r *MemoryResolver) Put(id int, sizes map[string]string) {
	copied := make(map[string]string, len(sizes))
	for size, src := range sizes {
		copied[size] = src
	}
	r.mu.Lock()
	r.attachments[strconv.Itoa(id)] = copied
	r.mu.Unlock()
}

func (r *MemoryResolver) Source(_ context.Context, attachment, size string) (string, error) {
	ref := strings.TrimSpace(attachment)
	if ref == "" {
		return "", ErrAttachmentNotFound
	}
	if IsAbsoluteURL(ref) {
		return ref, nil
	}
	if _, err := strconv.Atoi(ref); err != nil {
		return "", fmt.Errorf("%w: %q", ErrAttachmentNotFound, ref)
	}

	r.mu.RLock()
	sizes, ok := r.attachments[ref]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAttachmentNotFound, ref)
	}
	if src := sizes[size]; src != "" {
		return src, nil
	}
	if src := sizes["full"]; src != "" {
		return src, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrSizeMissing, ref, size)
}

// CachedResolver memoises a resolver's answers in a transient store.
type CachedResolver struct {
	next   interfaces.AttachmentResolver
	cache  interfaces.CacheProvider
	ttl    time.Duration
	logger interfaces.Logger
}

// CachedResolverOption configures a CachedResolver.
type CachedResolverOption func(*CachedResolver)

// WithCacheLogger reports cache writes that fail.
func WithCacheLogger(logger interfaces.Logger) CachedResolverOption {
	return func(r *CachedResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewCachedResolver wraps next. A nil cache disables memoisation.
func NewCachedResolver(next interfaces.AttachmentResolver, cache interfaces.CacheProvider, ttl time.Duration, opts ...CachedResolverOption) *CachedResolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	r := &CachedResolver{next: next, cache: cache, ttl: ttl, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *CachedResolver) Source(ctx context.Context, attachment, size string) (string, error) {
	if r.cache == nil {
		return r.next.Source(ctx, attachment, size)
	}
	key := "media:" + strings.TrimSpace(attachment) + ":" + size
	if cached, err := r.cache.Get(ctx, key); err == nil {
		if src, ok := cached.(string); ok && src != "" {
			return src, nil
		}
	}
	src, err := r.next.Source(ctx, attachment, size)
	if err != nil {
		return "", err
	}
	if err := r.cache.Set(ctx, key, src, r.ttl); err != nil {
		logging.FromContext(ctx, r.logger).Warn("media.cache_write_failed", "key", key, "error", err)
	}
	return src, nil
}
