package shortcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// Sanitizer rejects inline scripts and limits URL schemes.
type Sanitizer struct {
	allowedSchemes map[string]struct{}
}

// NewSanitizer allows relative, http, https and mailto URLs.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		allowedSchemes: map[string]struct{}{
			"":       {},
			"http":   {},
			"https":  {},
			"mailto": {},
		},
	}
}

func (s *Sanitizer) Sanitize(html string) (string, error) {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<script") {
		return "", fmt.Errorf("%w: script tags are not allowed", ErrUnsafeOutput)
	}
	if strings.Contains(lower, "javascript:") {
		return "", fmt.Errorf("%w: javascript urls are not allowed", ErrUnsafeOutput)
	}
	return html, nil
}

func (s *Sanitizer) ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if _, ok := s.allowedSchemes[strings.ToLower(parsed.Scheme)]; !ok {
		return fmt.Errorf("%w: url scheme %q not permitted", ErrUnsafeOutput, parsed.Scheme)
	}
	return nil
}

var _ interfaces.ShortcodeSanitizer = (*Sanitizer)(nil)
