package interfaces

import (
	"context"
	"html/template"
)

// TemplatePartRenderer renders a named template part. name may be empty, in
// which case only the slug part is considered.
type TemplatePartRenderer interface {
	RenderPart(ctx context.Context, slug, name string, data any) (template.HTML, error)
}
