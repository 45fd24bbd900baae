package shortcode

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-masthead/internal/logging"
	parserpkg "github.com/goliatone/go-masthead/internal/shortcode/parser"
	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// Service expands registered shortcodes in text.
type Service struct {
	registry         *Registry
	renderer         *Renderer
	defaultSanitizer interfaces.ShortcodeSanitizer
	logger           interfaces.Logger
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithDefaultSanitizer overrides the sanitizer used when a call supplies none.
func WithDefaultSanitizer(sanitizer interfaces.ShortcodeSanitizer) ServiceOption {
	return func(s *Service) {
		if sanitizer != nil {
			s.defaultSanitizer = sanitizer
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a service over registry. A nil registry gets an empty
// one with the default validator.
func NewService(registry *Registry, opts ...ServiceOption) *Service {
	if registry == nil {
		registry = NewRegistry(NewValidator())
	}
	service := &Service{
		registry:         registry,
		defaultSanitizer: NewSanitizer(),
		logger:           logging.NoOp(),
	}
	for _, opt := range opts {
		opt(service)
	}
	service.renderer = NewRenderer(registry, NewValidator(), WithRendererSanitizer(service.defaultSanitizer))
	return service
}

// Process renders every registered shortcode in content. Unregistered
// shortcodes stay in the output verbatim, and so does any shortcode whose
// render fails; the failure is logged and the rest of content still expands.
func (s *Service) Process(ctx context.Context, content string, opts interfaces.ShortcodeProcessOptions) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(content) == "" || !strings.Contains(content, "[") {
		return content, nil
	}

	logger := logging.WithFields(s.logger.WithContext(ctx), map[string]any{
		"operation": "shortcode.process",
	})

	parser := parserpkg.NewWordPressParser(s.registry.Has)
	transformed, parsed := parser.Extract(content)
	if len(parsed) == 0 {
		return transformed, nil
	}

	sanitizer := opts.Sanitizer
	if sanitizer == nil {
		sanitizer = s.defaultSanitizer
	}
	scCtx := interfaces.ShortcodeContext{Context: ctx, Object: opts.Object}

	output := transformed
	for idx, sc := range parsed {
		start := time.Now()
		rendered, err := s.renderer.Render(scCtx, sc, sanitizer)
		fields := map[string]any{
			"shortcode":   sc.Name,
			"index":       idx,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			fields["error"] = err
			fields["unsafe"] = IsUnsafe(err)
			logging.WithFields(logger, fields).Warn("shortcode.service.render_failed")
			rendered = template.HTML(sc.Raw)
		} else {
			logging.WithFields(logger, fields).Debug("shortcode.service.render_succeeded")
		}

		output = strings.Replace(output, fmt.Sprintf(parserpkg.PlaceholderFormat, idx), string(rendered), 1)
	}
	return output, nil
}

// Registry exposes the definitions used by Process.
func (s *Service) Registry() *Registry {
	return s.registry
}

var _ interfaces.ShortcodeService = (*Service)(nil)

type noOpService struct{}

// NewNoOpService returns a service that leaves content untouched.
func NewNoOpService() interfaces.ShortcodeService {
	return noOpService{}
}

func (noOpService) Process(_ context.Context, content string, _ interfaces.ShortcodeProcessOptions) (string, error) {
	return content, nil
}

// IsUnsafe reports whether err came from the sanitizer.
func IsUnsafe(err error) bool {
	return errors.Is(err, ErrUnsafeOutput)
}
