package navigation

import (
	"context"
	"sync"
)

// MenuLocator reports the menu assigned to a theme location. A location with
// no menu yields (nil, nil).
type MenuLocator interface {
	MenuAt(ctx context.Context, location string) (*Menu, error)
}

// MemoryLocator keeps location assignments in memory.
type MemoryLocator struct {
	mu    sync.RWMutex
	menus map[string]*Menu
}

var _ MenuLocator = (*MemoryLocator)(nil)

func NewMemoryLocator() *MemoryLocator {
	return &MemoryLocator{menus: map[string]*Menu{}}
}

// Assign places menu at location, replacing any previous assignment.
func (l *MemoryLocator) Assign(location string, menu *Menu) error {
	key, err := NormalizeLocation(location)
	if err != nil {
		return err
	}
	if menu == nil {
		l.Unassign(key)
		return nil
	}
	copied := *menu
	copied.Location = key
	l.mu.Lock()
	l.menus[key] = &copied
	l.mu.Unlock()
	return nil
}

// Unassign clears location.
func (l *MemoryLocator) Unassign(location string) {
	key, err := NormalizeLocation(location)
	if err != nil {
		return
	}
	l.mu.Lock()
	delete(l.menus, key)
	l.mu.Unlock()
}

func (l *MemoryLocator) MenuAt(_ context.Context, location string) (*Menu, error) {
	key, err := NormalizeLocation(location)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.menus[key], nil
}
