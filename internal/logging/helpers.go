package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// WithFields attaches fields when logger implements FieldsLogger and returns
// logger unchanged otherwise. The map is copied before it is handed on.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}

// FromContext returns logger enriched with any fields stored on ctx by
// ContextWithFields, bound to ctx.
func FromContext(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	if logger == nil || ctx == nil {
		return logger
	}
	return WithFields(logger, ContextFields(ctx)).WithContext(ctx)
}
