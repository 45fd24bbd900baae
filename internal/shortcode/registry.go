package shortcode

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// DefinitionValidator checks a definition before it is stored.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.ShortcodeDefinition) error
}

// Registry holds the shortcodes the service expands, keyed by their
// lowercased tag name.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]interfaces.ShortcodeDefinition
	validator DefinitionValidator
}

// NewRegistry returns an empty registry. A nil validator only checks names.
func NewRegistry(validator DefinitionValidator) *Registry {
	return &Registry{
		byName:    map[string]interfaces.ShortcodeDefinition{},
		validator: validator,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) prepare(def interfaces.ShortcodeDefinition) (interfaces.ShortcodeDefinition, error) {
	def.Name = normalizeName(def.Name)
	if def.Name == "" {
		return def, ErrInvalidDefinition
	}
	if r.validator != nil {
		if err := r.validator.ValidateDefinition(def); err != nil {
			return def, err
		}
	}
	return def, nil
}

// Register adds def. A tag can only be registered once; use Replace to swap
// a built-in for a site specific handler.
func (r *Registry) Register(def interfaces.ShortcodeDefinition) error {
	def, err := r.prepare(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[def.Name]; taken {
		return ErrDuplicateDefinition
	}
	r.byName[def.Name] = def
	return nil
}

// Replace stores def whether or not the tag is already registered.
func (r *Registry) Replace(def interfaces.ShortcodeDefinition) error {
	def, err := r.prepare(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.byName[def.Name] = def
	r.mu.Unlock()
	return nil
}

func (r *Registry) Get(name string) (interfaces.ShortcodeDefinition, bool) {
	r.mu.RLock()
	def, ok := r.byName[normalizeName(name)]
	r.mu.RUnlock()
	return def, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the definitions ordered by name.
func (r *Registry) List() []interfaces.ShortcodeDefinition {
	r.mu.RLock()
	defs := slices.Collect(maps.Values(r.byName))
	r.mu.RUnlock()

	slices.SortFunc(defs, func(a, b interfaces.ShortcodeDefinition) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return defs
}

func (r *Registry) Remove(name string) {
	r.mu.Lock()
	delete(r.byName, normalizeName(name))
	r.mu.Unlock()
}

var _ interfaces.ShortcodeRegistry = (*Registry)(nil)
