package header

import (
	"context"
	"fmt"
	"html/template"

	"github.com/goliatone/go-masthead/internal/fields"
	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/internal/media"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/internal/shortcode"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

// pictureMedia lists the <source> breakpoints largest first with their media
// queries. xs is the <img> fallback.
var pictureMedia = []struct {
	breakpoint string
	query      string
}{
	{"xl", "(min-width: 1200px)"},
	{"lg", "(min-width: 992px)"},
	{"md", "(min-width: 768px)"},
	{"sm", "(min-width: 576px)"},
}

// PictureSource is one <source> of a header <picture>.
type PictureSource struct {
	Media string
	URL   string
}

// View is the data handed to header template parts.
type View struct {
	Object *query.Object
	Query  query.Context
	Spec   *HeaderSpec

	Title         template.HTML
	Subtitle      template.HTML
	H1            string
	HeaderType    string
	ContentType   string
	Height        string
	CustomContent template.HTML
	Nav           template.HTML

	Pictures []PictureSource
	Fallback string
	Videos   *media.Videos
}

// Markup renders the header template part for the request. The part slug
// defaults to "header" and the part name is the header type.
func (s *Service) Markup(ctx context.Context, qctx query.Context) (template.HTML, error) {
	obj := qctx.Object
	spec, err := s.Resolve(ctx, qctx)
	if err != nil {
		return "", err
	}
	view, err := s.view(ctx, qctx, spec)
	if err != nil {
		return "", err
	}

	if s.renderer == nil {
		return s.hooks.HeaderMarkup.Apply(ctx, "", obj), nil
	}
	slug := s.hooks.TemplatePartSlug.Apply(ctx, DefaultSlug, obj)
	html, err := s.renderer.RenderPart(ctx, slug, spec.HeaderType, view)
	if err != nil {
		return "", fmt.Errorf("header: render %s part: %w", slug, err)
	}
	return s.hooks.HeaderMarkup.Apply(ctx, html, obj), nil
}

// SubnavMarkup renders the object's section menu when the object asks for
// one and section menus are enabled.
func (s *Service) SubnavMarkup(ctx context.Context, qctx query.Context) (template.HTML, error) {
	obj := qctx.Object
	if !s.subnav || obj == nil {
		return "", nil
	}
	ref := obj.Ref()
	logger := logging.WithObject(logging.FromContext(ctx, s.logger), ref.Kind, ref.ID)

	value, err := fields.Get(ctx, s.fields, obj, fields.KeyIncludeSubnav)
	if err != nil {
		logger.Warn("header.subnav.field_failed", "key", fields.KeyIncludeSubnav, "error", err)
		return "", nil
	}
	if !fields.Bool(value) {
		return "", nil
	}
	tag := "[" + shortcode.SectionMenuName + "]"
	out, err := s.shortcodes.Process(ctx, tag, interfaces.ShortcodeProcessOptions{Object: obj})
	if err != nil {
		logger.Warn("header.subnav.failed", "error", err)
		return "", nil
	}
	if out == tag {
		return "", nil
	}
	return template.HTML(out), nil
}

func (s *Service) view(ctx context.Context, qctx query.Context, spec *HeaderSpec) (View, error) {
	obj := qctx.Object
	view := View{
		Object:      obj,
		Query:       qctx,
		Spec:        spec,
		Title:       template.HTML(spec.TitleText),
		Subtitle:    template.HTML(spec.SubtitleText),
		H1:          spec.H1Target,
		HeaderType:  spec.HeaderType,
		ContentType: spec.ContentType,
		Height:      spec.Height,
	}

	if spec.ContentType == ContentTypeCustom {
		view.CustomContent = template.HTML(s.expand(ctx, obj, s.fieldString(ctx, obj, fields.KeyCustomContent)))
	}

	if s.nav != nil {
		nav, err := s.nav.Markup(ctx, navigation.Request{
			Query:      qctx,
			Image:      spec.HeaderType == TypeMedia,
			CurrentURL: qctx.CurrentURL,
		})
		if err != nil {
			return View{}, fmt.Errorf("header: navigation: %w", err)
		}
		view.Nav = nav
	}

	if spec.Images != nil && s.resolver != nil {
		srcs, err := media.PictureSources(ctx, s.resolver, spec.Height, *spec.Images)
		if err != nil {
			return View{}, fmt.Errorf("header: picture sources: %w", err)
		}
		view.Pictures, view.Fallback = pictureSources(srcs)
	}

	if spec.Videos != nil {
		view.Videos = s.videoSources(ctx, obj, *spec.Videos)
	}
	return view, nil
}

func pictureSources(srcs map[string]string) ([]PictureSource, string) {
	sources := make([]PictureSource, 0, len(pictureMedia))
	for _, bp := range pictureMedia {
		if src := srcs[bp.breakpoint]; src != "" {
			sources = append(sources, PictureSource{Media: bp.query, URL: src})
		}
	}
	fallback := srcs["xs"]
	if fallback == "" && len(sources) > 0 {
		fallback = sources[len(sources)-1].URL
	}
	return sources, fallback
}

// videoSources resolves video references to URLs. Videos that cannot be
// resolved are dropped.
func (s *Service) videoSources(ctx context.Context, obj *query.Object, videos media.Videos) *media.Videos {
	if s.resolver == nil {
		return &videos
	}
	resolved := media.Videos{}
	for _, pair := range []struct {
		ref  string
		dest *string
	}{
		{videos.MP4, &resolved.MP4},
		{videos.WebM, &resolved.WebM},
	} {
		if pair.ref == "" {
			continue
		}
		src, err := s.resolver.Source(ctx, pair.ref, "full")
		if err != nil {
			ref := obj.Ref()
			logging.WithObject(logging.FromContext(ctx, s.logger), ref.Kind, ref.ID).
				Warn("header.video.resolve_failed", "video", pair.ref, "error", err)
			continue
		}
		*pair.dest = src
	}
	if resolved.MP4 == "" {
		return nil
	}
	return &resolved
}
