package shortcode

import "errors"

var (
	// ErrDuplicateDefinition indicates an attempt to register a shortcode name twice.
	ErrDuplicateDefinition = errors.New("shortcode: duplicate definition")
	// ErrInvalidDefinition occurs when a definition fails validation.
	ErrInvalidDefinition = errors.New("shortcode: invalid definition")
	// ErrUnknownShortcode is returned when rendering a name with no definition.
	ErrUnknownShortcode = errors.New("shortcode: unknown shortcode")
	// ErrUnsafeOutput is returned by the sanitizer for rejected markup.
	ErrUnsafeOutput = errors.New("shortcode: unsafe output")
)
