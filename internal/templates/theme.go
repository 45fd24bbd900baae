package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// PartsDir is where a theme keeps conventional part overrides.
const PartsDir = "template-parts"

var ErrThemeNameRequired = errors.New("templates: theme name required")

// ThemeConfig locates a theme on disk.
type ThemeConfig struct {
	BasePath       string
	Name           string
	Variant        string
	DefaultTheme   string
	DefaultVariant string
}

// Theme overrides template parts from a theme directory. Parts mapped in the
// manifest are looked up through the selection; anything else falls back to
// template-parts/<part>.html.
type Theme struct {
	fsys      fs.FS
	selection *gotheme.Selection
}

// NewTheme wraps a theme filesystem. selection may be nil when the theme has
// no manifest.
func NewTheme(fsys fs.FS, selection *gotheme.Selection) *Theme {
	return &Theme{fsys: fsys, selection: selection}
}

// LoadTheme reads the theme manifest under BasePath/Name and selects the
// configured variant.
func LoadTheme(cfg ThemeConfig) (*Theme, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = strings.TrimSpace(cfg.DefaultTheme)
	}
	if name == "" {
		return nil, ErrThemeNameRequired
	}

	dir := filepath.Join(filepath.Clean(strings.TrimSpace(cfg.BasePath)), name)
	fsys := os.DirFS(dir)

	manifest, err := gotheme.LoadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("templates: load theme manifest from %s: %w", dir, err)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		manifest.Name = name
	}

	registry := gotheme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("templates: register theme manifest: %w", err)
	}

	variant := strings.TrimSpace(cfg.Variant)
	if variant == "" {
		variant = strings.TrimSpace(cfg.DefaultVariant)
	}
	selector := gotheme.Selector{
		Registry:       registry,
		DefaultTheme:   manifest.Name,
		DefaultVariant: strings.TrimSpace(cfg.DefaultVariant),
	}
	selection, err := selector.Select(manifest.Name, variant)
	if err != nil {
		return nil, fmt.Errorf("templates: select theme %s: %w", manifest.Name, err)
	}
	return NewTheme(fsys, selection), nil
}

// FS exposes the theme filesystem.
func (t *Theme) FS() fs.FS {
	if t == nil {
		return nil
	}
	return t.fsys
}

// PartPath returns the override file for part, if the theme has one.
func (t *Theme) PartPath(part string) (string, bool) {
	if t == nil || t.fsys == nil {
		return "", false
	}
	if t.selection != nil {
		if mapped := strings.TrimSpace(t.selection.Template(part, "")); mapped != "" {
			return path.Clean(mapped), true
		}
	}
	conventional := path.Join(PartsDir, part+".html")
	if info, err := fs.Stat(t.fsys, conventional); err == nil && !info.IsDir() {
		return conventional, true
	}
	return "", false
}
