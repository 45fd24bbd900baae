package interfaces

import (
	"context"

	"github.com/goliatone/go-masthead/query"
)

// FieldStore reads custom field values attached to queried objects.
// A missing field is reported as (nil, nil); errors are reserved for storage
// failures.
type FieldStore interface {
	Field(ctx context.Context, ref query.FieldRef, key string) (any, error)
}
