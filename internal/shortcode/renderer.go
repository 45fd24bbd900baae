package shortcode

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// Renderer executes shortcode definitions and sanitises their output.
type Renderer struct {
	registry  interfaces.ShortcodeRegistry
	validator *Validator
	sanitizer interfaces.ShortcodeSanitizer
	templates sync.Map
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithRendererSanitizer overrides the default sanitizer.
func WithRendererSanitizer(s interfaces.ShortcodeSanitizer) RendererOption {
	return func(r *Renderer) {
		if s != nil {
			r.sanitizer = s
		}
	}
}

func NewRenderer(registry interfaces.ShortcodeRegistry, validator *Validator, opts ...RendererOption) *Renderer {
	if validator == nil {
		validator = NewValidator()
	}
	r := &Renderer{
		registry:  registry,
		validator: validator,
		sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render runs one shortcode. A sanitizer on ctx takes precedence over the
// renderer's own.
func (r *Renderer) Render(ctx interfaces.ShortcodeContext, sc interfaces.ParsedShortcode, sanitizer interfaces.ShortcodeSanitizer) (template.HTML, error) {
	def, ok := r.registry.Get(sc.Name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownShortcode, sc.Name)
	}
	if sanitizer == nil {
		sanitizer = r.sanitizer
	}

	params, err := r.validator.CoerceParams(def, sc.Params, sanitizer)
	if err != nil {
		return "", err
	}
	inner := sc.Inner
	if !def.AllowInner {
		inner = ""
	}

	var output string
	switch {
	case def.Handler != nil:
		result, err := def.Handler(ctx, params, inner)
		if err != nil {
			return "", err
		}
		output = string(result)
	case def.Template != "":
		rendered, err := r.renderTemplate(def, params, inner)
		if err != nil {
			return "", err
		}
		output = rendered
	default:
		return "", fmt.Errorf("%w: %s has no handler or template", ErrInvalidDefinition, def.Name)
	}

	if sanitizer != nil {
		if output, err = sanitizer.Sanitize(output); err != nil {
			return "", err
		}
	}
	return template.HTML(output), nil
}

func (r *Renderer) renderTemplate(def interfaces.ShortcodeDefinition, params map[string]any, inner string) (string, error) {
	tmpl, err := r.template(def)
	if err != nil {
		return "", err
	}

	data := make(map[string]any, len(params)+1)
	for key, value := range params {
		data[key] = value
	}
	data["Inner"] = template.HTML(inner)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) template(def interfaces.ShortcodeDefinition) (*template.Template, error) {
	key := def.Name + "\x00" + def.Template
	if cached, ok := r.templates.Load(key); ok {
		return cached.(*template.Template), nil
	}
	tmpl, err := parseTemplate(def)
	if err != nil {
		return nil, err
	}
	r.templates.Store(key, tmpl)
	return tmpl, nil
}

func parseTemplate(def interfaces.ShortcodeDefinition) (*template.Template, error) {
	return template.New(def.Name).Option("missingkey=zero").Parse(def.Template)
}
