package templates

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/pkg/interfaces"
)

//go:embed parts/*.html
var embeddedParts embed.FS

// ErrSlugRequired is returned when a part is requested without a slug.
var ErrSlugRequired = errors.New("templates: slug required")

// Renderer resolves template parts the way get_template_part does: the
// specialised slug-name part first, then the plain slug. Theme overrides win
// over embedded parts.
type Renderer struct {
	embedded *template.Template
	theme    *Theme
	logger   interfaces.Logger

	overrides sync.Map // override path -> *template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme installs theme overrides.
func WithTheme(theme *Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer parses the embedded parts and applies options.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	embedded, err := template.New("parts").Funcs(r.funcs()).ParseFS(embeddedParts, "parts/*.html")
	if err != nil {
		return nil, fmt.Errorf("templates: parse embedded parts: %w", err)
	}
	r.embedded = embedded
	return r, nil
}

// RenderPart renders the first part found among slug-name and slug. A part
// that exists nowhere renders as empty markup.
func (r *Renderer) RenderPart(ctx context.Context, slug, name string, data any) (template.HTML, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", ErrSlugRequired
	}
	for _, candidate := range Candidates(slug, name) {
		tmpl, err := r.lookup(candidate)
		if err != nil {
			return "", err
		}
		if tmpl == nil {
			continue
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("templates: render %s: %w", candidate, err)
		}
		return template.HTML(buf.String()), nil
	}

	logging.FromContext(ctx, r.logger).Debug("templates.part.missing", "slug", slug, "name", name)
	return "", nil
}

// Has reports whether a part resolves to a template.
func (r *Renderer) Has(part string) bool {
	tmpl, err := r.lookup(part)
	return err == nil && tmpl != nil
}

// Candidates lists the part names tried for slug and name, most specific
// first.
func Candidates(slug, name string) []string {
	slug = strings.TrimSpace(slug)
	name = strings.TrimSpace(name)
	if name == "" {
		return []string{slug}
	}
	return []string{slug + "-" + name, slug}
}

func (r *Renderer) lookup(part string) (*template.Template, error) {
	if r.theme != nil {
		if overridePath, ok := r.theme.PartPath(part); ok {
			return r.override(overridePath)
		}
	}
	return r.embedded.Lookup(part + ".html"), nil
}

func (r *Renderer) override(overridePath string) (*template.Template, error) {
	if cached, ok := r.overrides.Load(overridePath); ok {
		return cached.(*template.Template), nil
	}
	raw, err := fs.ReadFile(r.theme.FS(), overridePath)
	if err != nil {
		return nil, fmt.Errorf("templates: read override %s: %w", overridePath, err)
	}
	tmpl, err := template.New(path.Base(overridePath)).Funcs(r.funcs()).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("templates: parse override %s: %w", overridePath, err)
	}
	actual, _ := r.overrides.LoadOrStore(overridePath, tmpl)
	return actual.(*template.Template), nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"part": func(slug, name string, data any) (template.HTML, error) {
			return r.RenderPart(context.Background(), slug, name, data)
		},
	}
}

var _ interfaces.TemplatePartRenderer = (*Renderer)(nil)
