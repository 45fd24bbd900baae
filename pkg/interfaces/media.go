package interfaces

import "context"

// AttachmentResolver turns an attachment reference into a URL for a named
// image size.
type AttachmentResolver interface {
	Source(ctx context.Context, attachment string, size string) (string, error)
}
