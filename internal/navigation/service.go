package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

const (
	DefaultLocation     = "header-menu"
	DefaultTransientKey = "mainsite_nav_json"
	DefaultCacheTTL     = 24 * time.Hour

	// SectionLocationPrefix prefixes the per-object section menu locations.
	SectionLocationPrefix = "section-menu"

	containerClass = "collapse navbar-collapse"
)

// ErrEmptyDocument reports a refreshed mainsite menu without items.
var ErrEmptyDocument = errors.New("navigation: mainsite menu has no items")

// Config carries the navigation settings.
type Config struct {
	Location           string
	MainsiteURL        string
	DefaultMainsiteURL string
	TransientKey       string
	CacheTTL           time.Duration
	Depth              int
	SiteName           string
	HomeURL            string
}

// Request describes the page a navbar is rendered for.
type Request struct {
	Query query.Context
	// Image reports whether a media background sits behind the navbar.
	Image bool
	// CurrentURL overrides Query.CurrentURL when set.
	CurrentURL string
}

func (r Request) currentURL() string {
	if current := strings.TrimSpace(r.CurrentURL); current != "" {
		return current
	}
	return r.Query.CurrentURL
}

// CustomView feeds the nav part.
type CustomView struct {
	Image          bool
	BrandH1        bool
	SiteName       string
	HomeURL        string
	ContainerClass string
	Items          []*WalkerItem
}

// MainsiteView feeds the nav-mainsite part.
type MainsiteView struct {
	Image bool
	Items []DocumentItem
}

// SectionView feeds the nav-section part.
type SectionView struct {
	Object *query.Object
	Items  []*WalkerItem
}

// Service renders the site navbar: the menu assigned to the header location,
// or the remote mainsite menu when none is assigned.
type Service struct {
	cfg        Config
	locator    MenuLocator
	fetcher    Fetcher
	transients interfaces.CacheProvider
	renderer   interfaces.TemplatePartRenderer
	logger     interfaces.Logger
}

var _ interfaces.SectionMenuProvider = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

func WithLocator(locator MenuLocator) Option {
	return func(s *Service) {
		s.locator = locator
	}
}

func WithFetcher(fetcher Fetcher) Option {
	return func(s *Service) {
		s.fetcher = fetcher
	}
}

// WithTransients sets the store caching the mainsite document.
func WithTransients(store interfaces.CacheProvider) Option {
	return func(s *Service) {
		s.transients = store
	}
}

func WithRenderer(renderer interfaces.TemplatePartRenderer) Option {
	return func(s *Service) {
		s.renderer = renderer
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds the navigation service, filling config defaults.
func NewService(cfg Config, opts ...Option) *Service {
	if strings.TrimSpace(cfg.Location) == "" {
		cfg.Location = DefaultLocation
	}
	if strings.TrimSpace(cfg.TransientKey) == "" {
		cfg.TransientKey = DefaultTransientKey
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if strings.TrimSpace(cfg.HomeURL) == "" {
		cfg.HomeURL = "/"
	}
	cfg.MainsiteURL = strings.TrimSpace(cfg.MainsiteURL)
	cfg.DefaultMainsiteURL = strings.TrimSpace(cfg.DefaultMainsiteURL)
	if cfg.MainsiteURL == "" {
		cfg.MainsiteURL = cfg.DefaultMainsiteURL
	}

	s := &Service{cfg: cfg, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Config returns the effective settings.
func (s *Service) Config() Config {
	return s.cfg
}

// Markup renders the navbar for req.
func (s *Service) Markup(ctx context.Context, req Request) (template.HTML, error) {
	menu, err := s.assignedMenu(ctx)
	if err != nil {
		return "", err
	}
	if menu == nil {
		return s.MainsiteMenu(ctx, req.Image, req.Query.Customizing)
	}

	class := containerClass
	if !req.Image {
		class += " align-self-lg-stretch"
	}
	view := CustomView{
		Image:          req.Image,
		BrandH1:        req.Query.IsHomeOrFront(),
		SiteName:       s.cfg.SiteName,
		HomeURL:        s.cfg.HomeURL,
		ContainerClass: class,
		Items:          Walker{Depth: s.cfg.Depth, CurrentURL: req.currentURL()}.Walk(menu.Items),
	}
	return s.render(ctx, "", view)
}

// MainsiteMenu renders the mainsite navbar. A missing document renders as
// empty markup.
func (s *Service) MainsiteMenu(ctx context.Context, image, customizing bool) (template.HTML, error) {
	doc := s.Document(ctx, customizing)
	if doc == nil {
		return "", nil
	}
	return s.render(ctx, "mainsite", MainsiteView{Image: image, Items: doc.Items})
}

// Document returns the mainsite menu document: the cached copy unless
// customizing, otherwise a fresh fetch of the configured URL falling back to
// the default URL. Only successful fetches are cached, and never while
// customizing.
func (s *Service) Document(ctx context.Context, customizing bool) *Document {
	if !customizing {
		if doc := s.cached(ctx); doc != nil {
			return doc
		}
	}

	doc, err := s.fetch(ctx)
	if err != nil {
		return nil
	}
	if !customizing {
		s.store(ctx, doc)
	}
	return doc
}

// Refresh fetches the mainsite menu and replaces the cached copy. A failed
// fetch, or a document without items unless allowEmpty is set, leaves the
// cache untouched.
func (s *Service) Refresh(ctx context.Context, allowEmpty bool) (*Document, error) {
	doc, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &Document{}
	}
	if !allowEmpty && len(doc.Items) == 0 {
		return nil, ErrEmptyDocument
	}
	if err := s.put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Invalidate drops the cached mainsite menu.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.transients == nil {
		return nil
	}
	if err := s.transients.Delete(ctx, s.cfg.TransientKey); err != nil {
		return fmt.Errorf("navigation: invalidate %s: %w", s.cfg.TransientKey, err)
	}
	logging.FromContext(ctx, s.logger).Info("navigation.mainsite.invalidated", "key", s.cfg.TransientKey)
	return nil
}

// SectionMenu renders the menu assigned to obj's section location.
func (s *Service) SectionMenu(ctx context.Context, obj *query.Object) (template.HTML, error) {
	if obj == nil || s.locator == nil {
		return "", nil
	}
	ref := obj.Ref()
	if ref.IsZero() {
		return "", nil
	}
	menu, err := s.locator.MenuAt(ctx, SectionLocation(obj))
	if err != nil {
		return "", fmt.Errorf("navigation: section menu %s: %w", ref, err)
	}
	if menu == nil || len(menu.Items) == 0 {
		return "", nil
	}
	return s.render(ctx, "section", SectionView{
		Object: obj,
		Items:  Walker{Depth: 1}.Walk(menu.Items),
	})
}

// SectionLocation is the menu location holding obj's section menu.
func SectionLocation(obj *query.Object) string {
	ref := obj.Ref()
	return SectionLocationPrefix + "-" + ref.Kind + "-" + ref.ID
}

func (s *Service) assignedMenu(ctx context.Context) (*Menu, error) {
	if s.locator == nil {
		return nil, nil
	}
	menu, err := s.locator.MenuAt(ctx, s.cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("navigation: menu at %s: %w", s.cfg.Location, err)
	}
	return menu, nil
}

func (s *Service) render(ctx context.Context, name string, view any) (template.HTML, error) {
	if s.renderer == nil {
		return "", nil
	}
	return s.renderer.RenderPart(ctx, "nav", name, view)
}

func (s *Service) fetch(ctx context.Context) (*Document, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", ErrFetchFailed)
	}
	logger := logging.FromContext(ctx, s.logger)

	doc, err := s.fetcher.Fetch(ctx, s.cfg.MainsiteURL)
	if err == nil {
		return doc, nil
	}
	logging.WithMenuSource(logger, s.cfg.Location, s.cfg.MainsiteURL).
		Warn("navigation.mainsite.fetch_failed", "error", err)

	if s.cfg.DefaultMainsiteURL == "" || s.cfg.MainsiteURL == s.cfg.DefaultMainsiteURL {
		return nil, err
	}
	doc, fallbackErr := s.fetcher.Fetch(ctx, s.cfg.DefaultMainsiteURL)
	if fallbackErr != nil {
		logging.WithMenuSource(logger, s.cfg.Location, s.cfg.DefaultMainsiteURL).
			Warn("navigation.mainsite.fallback_failed", "error", fallbackErr)
		return nil, errors.Join(err, fallbackErr)
	}
	return doc, nil
}

func (s *Service) cached(ctx context.Context) *Document {
	if s.transients == nil {
		return nil
	}
	value, err := s.transients.Get(ctx, s.cfg.TransientKey)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			logging.FromContext(ctx, s.logger).Warn("navigation.mainsite.cache_read_failed", "error", err)
		}
		return nil
	}

	var raw []byte
	switch typed := value.(type) {
	case string:
		raw = []byte(typed)
	case []byte:
		raw = typed
	default:
		return nil
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logging.FromContext(ctx, s.logger).Warn("navigation.mainsite.cache_decode_failed", "error", err)
		return nil
	}
	return &doc
}

func (s *Service) store(ctx context.Context, doc *Document) {
	if err := s.put(ctx, doc); err != nil {
		logging.FromContext(ctx, s.logger).Warn("navigation.mainsite.cache_write_failed", "error", err)
	}
}

func (s *Service) put(ctx context.Context, doc *Document) error {
	if s.transients == nil || doc == nil {
		return nil
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("navigation: encode mainsite menu: %w", err)
	}
	if err := s.transients.Set(ctx, s.cfg.TransientKey, string(encoded), s.cfg.CacheTTL); err != nil {
		return fmt.Errorf("navigation: cache mainsite menu: %w", err)
	}
	return nil
}
