package interfaces

import (
	"context"
	"html/template"

	"github.com/goliatone/go-masthead/query"
)

// ShortcodeService expands shortcodes embedded in header text.
type ShortcodeService interface {
	Process(ctx context.Context, content string, opts ShortcodeProcessOptions) (string, error)
}

// ShortcodeProcessOptions carries per-call rendering context.
type ShortcodeProcessOptions struct {
	// Object is the queried object the text belongs to.
	Object    *query.Object
	Sanitizer ShortcodeSanitizer
}

// ShortcodeRegistry stores shortcode definitions. Implementations must be safe
// for concurrent use.
type ShortcodeRegistry interface {
	Register(definition ShortcodeDefinition) error
	Get(name string) (ShortcodeDefinition, bool)
	List() []ShortcodeDefinition
	Remove(name string)
}

// ShortcodeSanitizer checks rendered shortcode output.
type ShortcodeSanitizer interface {
	Sanitize(html string) (string, error)
	ValidateURL(raw string) error
}

// ShortcodeDefinition describes a shortcode: its parameter schema and either a
// Go handler or an html/template body.
type ShortcodeDefinition struct {
	Name        string
	Description string
	AllowInner  bool
	Params      []ShortcodeParam
	Template    string
	Handler     ShortcodeHandler
}

// ShortcodeParam describes one accepted attribute.
type ShortcodeParam struct {
	Name     string
	Type     ShortcodeParamType
	Required bool
	Default  any
	Validate func(value any) error
}

// ShortcodeParamType enumerates the supported attribute coercions.
type ShortcodeParamType string

const (
	ShortcodeParamString ShortcodeParamType = "string"
	ShortcodeParamInt    ShortcodeParamType = "int"
	ShortcodeParamBool   ShortcodeParamType = "bool"
	ShortcodeParamURL    ShortcodeParamType = "url"
)

// ShortcodeHandler renders a shortcode with coerced parameters.
type ShortcodeHandler func(ctx ShortcodeContext, params map[string]any, inner string) (template.HTML, error)

// ShortcodeContext is handed to handlers at render time.
type ShortcodeContext struct {
	Context context.Context
	Object  *query.Object
}

// ParsedShortcode is one invocation found by the parser.
type ParsedShortcode struct {
	Name   string
	Params map[string]any
	Inner  string
	// Raw is the original source text of the invocation.
	Raw string
}

// SectionMenuProvider renders the sub-navigation for an object.
type SectionMenuProvider interface {
	SectionMenu(ctx context.Context, obj *query.Object) (template.HTML, error)
}
