package di

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-masthead/internal/commands"
	navigationcmd "github.com/goliatone/go-masthead/internal/commands/navigation"
	"github.com/goliatone/go-masthead/internal/fields"
	"github.com/goliatone/go-masthead/internal/header"
	"github.com/goliatone/go-masthead/internal/hooks"
	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/internal/logging/gologger"
	"github.com/goliatone/go-masthead/internal/media"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/internal/runtimeconfig"
	"github.com/goliatone/go-masthead/internal/shortcode"
	"github.com/goliatone/go-masthead/internal/templates"
	"github.com/goliatone/go-masthead/internal/transient"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the header and navigation services from configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	fieldStore  interfaces.FieldStore
	transients  interfaces.CacheProvider
	attachments interfaces.AttachmentResolver
	fetcher     navigation.Fetcher
	locator     navigation.MenuLocator
	renderer    interfaces.TemplatePartRenderer
	theme       *templates.Theme
	hooks       *hooks.Registry

	shortcodeRegistry *shortcode.Registry
	shortcodeSvc      interfaces.ShortcodeService

	navigationSvc *navigation.Service
	headerSvc     *header.Service

	refreshHandler    *navigationcmd.RefreshMainsiteMenuHandler
	invalidateHandler *navigationcmd.InvalidateMainsiteMenuHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider derived from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database for the bun storage provider. The
// caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

func WithFieldStore(store interfaces.FieldStore) Option {
	return func(c *Container) {
		c.fieldStore = store
	}
}

// WithTransients overrides the store caching the mainsite menu.
func WithTransients(store interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.transients = store
	}
}

func WithAttachmentResolver(resolver interfaces.AttachmentResolver) Option {
	return func(c *Container) {
		c.attachments = resolver
	}
}

// WithFetcher overrides the HTTP fetcher for the mainsite menu.
func WithFetcher(fetcher navigation.Fetcher) Option {
	return func(c *Container) {
		c.fetcher = fetcher
	}
}

func WithMenuLocator(locator navigation.MenuLocator) Option {
	return func(c *Container) {
		c.locator = locator
	}
}

func WithTemplateRenderer(renderer interfaces.TemplatePartRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithHooks shares a hook registry so filters can be added before the
// services are built.
func WithHooks(registry *hooks.Registry) Option {
	return func(c *Container) {
		c.hooks = registry
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "masthead")

	c.configureCacheDefaults()

	if err := c.configureStorage(context.Background()); err != nil {
		return nil, err
	}
	if err := c.configureRenderer(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureNavigation(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureShortcodes(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureHeader()
	c.configureCommands()

	c.logger.Debug("container.configured",
		"storage", strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)),
		"cache", c.cacheService != nil,
		"themes", c.theme != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger || strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "noop") {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return fmt.Errorf("di: logger provider: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))

	if provider == "bun" || c.bunDB != nil {
		if c.bunDB == nil {
			db, err := OpenBunDB(c.Config.Storage)
			if err != nil {
				return err
			}
			c.bunDB = db
			c.ownsDB = true
		}
		if err := EnsureSchema(ctx, c.bunDB); err != nil {
			c.Close()
			return err
		}
	}

	if c.fieldStore == nil {
		switch {
		case c.bunDB != nil:
			c.fieldStore = fields.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
		case provider == "files":
			c.fieldStore = fields.NewFileStore(os.DirFS(c.Config.Storage.FilesDir))
		default:
			c.fieldStore = fields.NewMemoryStore()
		}
	}

	if c.transients == nil {
		if c.bunDB != nil {
			c.transients = transient.NewBunStore(c.bunDB)
		} else {
			c.transients = transient.NewMemoryStore()
		}
	}

	if c.locator == nil {
		if c.bunDB != nil {
			c.locator = navigation.NewBunLocatorWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.locator = navigation.NewMemoryLocator()
		}
	}

	if c.attachments == nil {
		c.attachments = media.NewMemoryResolver()
	}
	c.attachments = media.NewCachedResolver(c.attachments, c.transients, c.Config.Cache.DefaultTTL,
		media.WithCacheLogger(logging.ModuleLogger(c.loggerProvider, "masthead.media")))
	return nil
}

func (c *Container) configureRenderer() error {
	if c.renderer != nil {
		return nil
	}

	opts := []templates.Option{
		templates.WithLogger(logging.ModuleLogger(c.loggerProvider, "masthead.templates")),
	}
	if c.Config.Features.Themes && strings.TrimSpace(c.Config.Themes.DefaultTheme) != "" {
		theme, err := templates.LoadTheme(templates.ThemeConfig{
			BasePath:       c.Config.Themes.BasePath,
			Name:           c.Config.Themes.DefaultTheme,
			Variant:        c.Config.Themes.DefaultVariant,
			DefaultTheme:   c.Config.Themes.DefaultTheme,
			DefaultVariant: c.Config.Themes.DefaultVariant,
		})
		if err != nil {
			return fmt.Errorf("di: load theme: %w", err)
		}
		c.theme = theme
		opts = append(opts, templates.WithTheme(theme))
	}

	renderer, err := templates.NewRenderer(opts...)
	if err != nil {
		return fmt.Errorf("di: template renderer: %w", err)
	}
	c.renderer = renderer
	return nil
}

func (c *Container) configureNavigation() error {
	navCfg := c.Config.Navigation
	if c.fetcher == nil {
		fetcher, err := navigation.NewHTTPFetcher(navCfg.FetchTimeout)
		if err != nil {
			return fmt.Errorf("di: mainsite fetcher: %w", err)
		}
		c.fetcher = fetcher
	}

	c.navigationSvc = navigation.NewService(navigation.Config{
		Location:           navCfg.Location,
		MainsiteURL:        navCfg.MainsiteURL,
		DefaultMainsiteURL: navCfg.DefaultMainsiteURL,
		TransientKey:       navCfg.TransientKey,
		CacheTTL:           navCfg.CacheTTL,
		Depth:              navCfg.Depth,
		SiteName:           c.Config.Site.Name,
		HomeURL:            c.Config.Site.HomeURL,
	},
		navigation.WithLocator(c.locator),
		navigation.WithFetcher(c.fetcher),
		navigation.WithTransients(c.transients),
		navigation.WithRenderer(c.renderer),
		navigation.WithLogger(logging.NavigationLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) configureShortcodes() error {
	if !c.Config.Shortcodes.Enabled {
		c.shortcodeSvc = shortcode.NewNoOpService()
		return nil
	}

	c.shortcodeRegistry = shortcode.NewRegistry(shortcode.NewValidator())
	var provider interfaces.SectionMenuProvider
	if c.Config.Features.SectionMenus {
		provider = c.navigationSvc
	}
	if err := shortcode.RegisterBuiltIns(c.shortcodeRegistry, provider); err != nil {
		return fmt.Errorf("di: register shortcodes: %w", err)
	}
	c.shortcodeSvc = shortcode.NewService(c.shortcodeRegistry,
		shortcode.WithLogger(logging.ModuleLogger(c.loggerProvider, "masthead.shortcode")),
	)
	return nil
}

func (c *Container) configureHeader() {
	if c.hooks == nil {
		c.hooks = hooks.NewRegistry()
	}
	opts := []header.Option{
		header.WithFieldStore(c.fieldStore),
		header.WithHooks(c.hooks),
		header.WithShortcodes(c.shortcodeSvc),
		header.WithRenderer(c.renderer),
		header.WithAttachmentResolver(c.attachments),
		header.WithNavigation(c.navigationSvc),
		header.WithLogger(logging.HeaderLogger(c.loggerProvider)),
	}
	if c.Config.Features.SectionMenus && c.Config.Shortcodes.Enabled {
		opts = append(opts, header.WithSectionMenus(c.navigationSvc))
	}
	c.headerSvc = header.NewService(header.Config{
		SiteName:   c.Config.Site.Name,
		DateFormat: c.Config.Site.DateFormat,
	}, opts...)
}

func (c *Container) configureCommands() {
	logger := logging.CommandsLogger(c.loggerProvider)
	timeout := c.Config.Navigation.FetchTimeout * 2
	c.refreshHandler = navigationcmd.NewRefreshMainsiteMenuHandler(c.navigationSvc, logger,
		commands.WithTimeout[navigationcmd.RefreshMainsiteMenuCommand](timeout),
	)
	c.invalidateHandler = navigationcmd.NewInvalidateMainsiteMenuHandler(c.navigationSvc, logger)
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

// LoggerProvider exposes the configured logger provider. It is nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the database backing the bun provider, if any.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

func (c *Container) FieldStore() interfaces.FieldStore {
	return c.fieldStore
}

func (c *Container) Transients() interfaces.CacheProvider {
	return c.transients
}

func (c *Container) MenuLocator() navigation.MenuLocator {
	return c.locator
}

func (c *Container) TemplateRenderer() interfaces.TemplatePartRenderer {
	return c.renderer
}

// Theme returns the loaded theme, or nil when themes are disabled.
func (c *Container) Theme() *templates.Theme {
	return c.theme
}

func (c *Container) Hooks() *hooks.Registry {
	return c.hooks
}

// ShortcodeRegistry is nil when shortcodes are disabled.
func (c *Container) ShortcodeRegistry() *shortcode.Registry {
	return c.shortcodeRegistry
}

func (c *Container) ShortcodeService() interfaces.ShortcodeService {
	return c.shortcodeSvc
}

func (c *Container) NavigationService() *navigation.Service {
	return c.navigationSvc
}

func (c *Container) HeaderService() *header.Service {
	return c.headerSvc
}

func (c *Container) RefreshMainsiteMenuHandler() *navigationcmd.RefreshMainsiteMenuHandler {
	return c.refreshHandler
}

func (c *Container) InvalidateMainsiteMenuHandler() *navigationcmd.InvalidateMainsiteMenuHandler {
	return c.invalidateHandler
}
