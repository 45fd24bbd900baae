package hooks

import (
	"cmp"
	"context"
	"html/template"
	"slices"
	"sync"

	"github.com/goliatone/go-masthead/internal/media"
	"github.com/goliatone/go-masthead/query"
)

// DefaultPriority is used by callers that have no ordering preference.
const DefaultPriority = 10

// Filter transforms a value for the object being rendered.
type Filter[T any] func(ctx context.Context, value T, obj *query.Object) T

type entry[T any] struct {
	id       uint64
	priority int
	filter   Filter[T]
}

// Chain is an ordered list of filters. Lower priorities run first and equal
// priorities keep registration order. It is safe for concurrent use.
type Chain[T any] struct {
	mu      sync.RWMutex
	next    uint64
	entries []entry[T]
}

// Add registers filter and returns a func that removes it again.
func (c *Chain[T]) Add(priority int, filter Filter[T]) func() {
	if filter == nil {
		return func() {}
	}
	c.mu.Lock()
	c.next++
	id := c.next
	c.entries = append(c.entries, entry[T]{id: id, priority: priority, filter: filter})
	slices.SortStableFunc(c.entries, func(a, b entry[T]) int {
		return cmp.Compare(a.priority, b.priority)
	})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.remove(id) })
	}
}

func (c *Chain[T]) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = slices.DeleteFunc(c.entries, func(e entry[T]) bool {
		return e.id == id
	})
}

// Apply threads value through every filter in order.
func (c *Chain[T]) Apply(ctx context.Context, value T, obj *query.Object) T {
	if c == nil {
		return value
	}
	c.mu.RLock()
	filters := make([]Filter[T], len(c.entries))
	for i, e := range c.entries {
		filters[i] = e.filter
	}
	c.mu.RUnlock()

	for _, filter := range filters {
		value = filter(ctx, value, obj)
	}
	return value
}

// Len reports the number of registered filters.
func (c *Chain[T]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Registry groups the extension points consulted while resolving a header.
type Registry struct {
	ImagesBefore     Chain[media.Images]
	ImagesAfter      Chain[media.Images]
	VideosBefore     Chain[media.Videos]
	VideosAfter      Chain[media.Videos]
	TitleBefore      Chain[string]
	TitleAfter       Chain[string]
	SubtitleBefore   Chain[string]
	SubtitleAfter    Chain[string]
	HeaderType       Chain[string]
	ContentType      Chain[string]
	HeaderMarkup     Chain[template.HTML]
	TemplatePartSlug Chain[string]
}

// NewRegistry returns a registry with every chain empty.
func NewRegistry() *Registry {
	return &Registry{}
}
