package header

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-masthead/internal/fields"
	"github.com/goliatone/go-masthead/internal/hooks"
	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/internal/media"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/internal/shortcode"
	"github.com/goliatone/go-masthead/internal/texturize"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

const (
	DefaultSlug       = "header"
	DefaultDateFormat = "January 2, 2006"
)

// Config carries site settings used while resolving titles.
type Config struct {
	SiteName   string
	DateFormat string
}

// NavigationRenderer renders the navbar placed inside the header.
type NavigationRenderer interface {
	Markup(ctx context.Context, req navigation.Request) (template.HTML, error)
}

// Service resolves page header content for queried objects.
type Service struct {
	cfg        Config
	fields     interfaces.FieldStore
	hooks      *hooks.Registry
	shortcodes interfaces.ShortcodeService
	renderer   interfaces.TemplatePartRenderer
	resolver   interfaces.AttachmentResolver
	nav        NavigationRenderer
	subnav     bool
	logger     interfaces.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithFieldStore(store interfaces.FieldStore) Option {
	return func(s *Service) {
		s.fields = store
	}
}

func WithHooks(registry *hooks.Registry) Option {
	return func(s *Service) {
		if registry != nil {
			s.hooks = registry
		}
	}
}

func WithShortcodes(svc interfaces.ShortcodeService) Option {
	return func(s *Service) {
		if svc != nil {
			s.shortcodes = svc
		}
	}
}

func WithRenderer(renderer interfaces.TemplatePartRenderer) Option {
	return func(s *Service) {
		s.renderer = renderer
	}
}

func WithAttachmentResolver(resolver interfaces.AttachmentResolver) Option {
	return func(s *Service) {
		s.resolver = resolver
	}
}

func WithNavigation(nav NavigationRenderer) Option {
	return func(s *Service) {
		s.nav = nav
	}
}

// WithSectionMenus enables sub-navigation when a section menu provider is
// installed in the shortcode registry.
func WithSectionMenus(provider interfaces.SectionMenuProvider) Option {
	return func(s *Service) {
		s.subnav = provider != nil
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(cfg Config, opts ...Option) *Service {
	if strings.TrimSpace(cfg.DateFormat) == "" {
		cfg.DateFormat = DefaultDateFormat
	}
	s := &Service{
		cfg:        cfg,
		hooks:      hooks.NewRegistry(),
		shortcodes: shortcode.NewNoOpService(),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Hooks exposes the extension points so callers can add filters.
func (s *Service) Hooks() *hooks.Registry {
	return s.hooks
}

// Images returns the header images for obj, or nil when no full size image
// is set.
func (s *Service) Images(ctx context.Context, obj *query.Object) *media.Images {
	images := s.hooks.ImagesBefore.Apply(ctx, media.Images{}, obj)
	if images.Full != "" {
		return &images
	}

	if full := s.fieldString(ctx, obj, fields.KeyImage); full != "" {
		images.Full = full
	}
	if small := s.fieldString(ctx, obj, fields.KeyImageXS); small != "" {
		images.Small = small
	}

	images = s.hooks.ImagesAfter.Apply(ctx, images, obj)
	if images.Full != "" {
		return &images
	}
	return nil
}

// Videos returns the header videos for obj, or nil when no MP4 is set.
func (s *Service) Videos(ctx context.Context, obj *query.Object) *media.Videos {
	videos := trimVideos(s.hooks.VideosBefore.Apply(ctx, media.Videos{}, obj))
	if videos.MP4 != "" {
		return &videos
	}

	if mp4 := s.fieldString(ctx, obj, fields.KeyVideoMP4); mp4 != "" {
		videos.MP4 = mp4
	}
	if webm := s.fieldString(ctx, obj, fields.KeyVideoWebM); webm != "" {
		videos.WebM = webm
	}

	videos = trimVideos(s.hooks.VideosAfter.Apply(ctx, videos, obj))
	if videos.MP4 != "" {
		return &videos
	}
	return nil
}

// Title returns the texturized header title for the request.
func (s *Service) Title(ctx context.Context, qctx query.Context) string {
	obj := qctx.Object
	if title := s.hooks.TitleBefore.Apply(ctx, "", obj); title != "" {
		return texturize.Text(title)
	}

	title := ""
	if obj == nil {
		// 404s get no fallback so a custom h1 can be used.
		if !qctx.Flags.NotFound {
			title = escapeText(s.cfg.SiteName)
		}
	} else {
		title = s.computedTitle(qctx)
	}

	if custom := s.fieldString(ctx, obj, fields.KeyTitle); custom != "" {
		title = s.expand(ctx, obj, custom)
	}

	title = s.hooks.TitleAfter.Apply(ctx, title, obj)
	return texturize.Text(title)
}

func (s *Service) computedTitle(qctx query.Context) string {
	obj := qctx.Object
	flags := qctx.Flags
	switch {
	case flags.Search:
		return fmt.Sprintf("Search Results for &#8220;%s&#8221;", template.HTMLEscapeString(qctx.SearchQuery))
	case flags.FrontPage:
		return escapeText(s.cfg.SiteName)
	case flags.PostTypeArchive:
		return escapeText(obj.Label)
	case flags.Tax:
		return escapeText(obj.Name)
	case flags.Home || flags.Singular:
		return escapeText(obj.Title)
	case flags.Category || flags.Tag:
		return escapeText(obj.Name)
	case flags.Author:
		return escapeText(obj.DisplayName)
	case flags.Year:
		return formatDate(obj, "2006")
	case flags.Month:
		return formatDate(obj, "January 2006")
	case flags.Day:
		return formatDate(obj, s.cfg.DateFormat)
	}
	return ""
}

// Subtitle returns the texturized header subtitle for obj.
func (s *Service) Subtitle(ctx context.Context, obj *query.Object) string {
	if subtitle := s.hooks.SubtitleBefore.Apply(ctx, "", obj); subtitle != "" {
		return texturize.Text(subtitle)
	}
	subtitle := s.expand(ctx, obj, s.fieldString(ctx, obj, fields.KeySubtitle))
	subtitle = s.hooks.SubtitleAfter.Apply(ctx, subtitle, obj)
	return texturize.Text(subtitle)
}

// H1Option reports whether the title or the subtitle is the page h1. A
// subtitle h1 without subtitle text falls back to the title.
func (s *Service) H1Option(ctx context.Context, obj *query.Object) string {
	subtitle := s.fieldString(ctx, obj, fields.KeySubtitle)
	h1 := s.fieldString(ctx, obj, fields.KeyH1)
	if h1 == "" {
		h1 = H1Title
	}
	if h1 == H1Subtitle && strings.TrimSpace(subtitle) == "" {
		h1 = H1Title
	}
	return h1
}

// HeaderType names the header template part variant for obj.
func (s *Service) HeaderType(ctx context.Context, obj *query.Object) string {
	return s.headerType(ctx, obj, s.Images(ctx, obj), s.Videos(ctx, obj))
}

func (s *Service) headerType(ctx context.Context, obj *query.Object, images *media.Images, videos *media.Videos) string {
	headerType := ""
	if images != nil || videos != nil {
		headerType = TypeMedia
	}
	return s.hooks.HeaderType.Apply(ctx, headerType, obj)
}

// ContentType names the header_content part variant for obj.
func (s *Service) ContentType(ctx context.Context, obj *query.Object) string {
	return s.contentType(ctx, obj, s.HeaderType(ctx, obj))
}

func (s *Service) contentType(ctx context.Context, obj *query.Object, headerType string) string {
	contentType := s.fieldString(ctx, obj, fields.KeyContentType)
	// title_subtitle only exists for media headers; plain headers use the
	// default part.
	if headerType == "" && contentType == ContentTypeTitleSubtitle {
		contentType = ""
	}
	return s.hooks.ContentType.Apply(ctx, contentType, obj)
}

// Resolve computes the full header description for the request.
func (s *Service) Resolve(ctx context.Context, qctx query.Context) (*HeaderSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj := qctx.Object
	images := s.Images(ctx, obj)
	videos := s.Videos(ctx, obj)
	headerType := s.headerType(ctx, obj, images, videos)

	height := s.fieldString(ctx, obj, fields.KeyHeight)
	if height == "" {
		height = DefaultHeight
	}

	spec := &HeaderSpec{
		TitleText:    s.Title(ctx, qctx),
		SubtitleText: s.Subtitle(ctx, obj),
		Images:       images,
		Videos:       videos,
		ContentType:  s.contentType(ctx, obj, headerType),
		H1Target:     s.H1Option(ctx, obj),
		HeaderType:   headerType,
		Height:       height,
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *Service) fieldString(ctx context.Context, obj *query.Object, key string) string {
	value, err := fields.Get(ctx, s.fields, obj, key)
	if err != nil {
		ref := obj.Ref()
		logging.WithObject(logging.FromContext(ctx, s.logger), ref.Kind, ref.ID).
			Warn("header.field.read_failed", "key", key, "error", err)
		return ""
	}
	return fields.String(value)
}

// expand runs shortcodes over text. A failing shortcode leaves the text as
// written.
func (s *Service) expand(ctx context.Context, obj *query.Object, text string) string {
	if text == "" {
		return ""
	}
	out, err := s.shortcodes.Process(ctx, text, interfaces.ShortcodeProcessOptions{Object: obj})
	if err != nil {
		ref := obj.Ref()
		logging.WithObject(logging.FromContext(ctx, s.logger), ref.Kind, ref.ID).
			Warn("header.shortcode.failed", "error", err)
		return text
	}
	return out
}

func trimVideos(v media.Videos) media.Videos {
	v.MP4 = strings.TrimSpace(v.MP4)
	v.WebM = strings.TrimSpace(v.WebM)
	return v
}

var markupEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// escapeText neutralises markup in object text while leaving quotes and
// entities for the texturizer.
func escapeText(text string) string {
	return markupEscaper.Replace(text)
}

func formatDate(obj *query.Object, layout string) string {
	if obj == nil || obj.Date.IsZero() {
		return ""
	}
	return obj.Date.Format(layout)
}
