package masthead

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	navigationcmd "github.com/goliatone/go-masthead/internal/commands/navigation"
	"github.com/goliatone/go-masthead/internal/di"
	"github.com/goliatone/go-masthead/internal/header"
	"github.com/goliatone/go-masthead/internal/hooks"
	masthttp "github.com/goliatone/go-masthead/internal/http"
	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

// HeaderSpec is the resolved description of a page header.
type HeaderSpec = header.HeaderSpec

// HeaderService exports the header resolution service.
type HeaderService = *header.Service

// NavigationService exports the navbar service.
type NavigationService = *navigation.Service

// HookRegistry groups the header extension points.
type HookRegistry = *hooks.Registry

// NavigationRequest describes the page a navbar is rendered for.
type NavigationRequest = navigation.Request

// Menu is a navigation menu assigned to a theme location.
type Menu = navigation.Menu

// MenuItem is one entry of a Menu.
type MenuItem = navigation.MenuItem

// MainsiteDocument is the remote primary navigation document.
type MainsiteDocument = navigation.Document

// Module is the top level façade over header and navigation rendering.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

func (m *Module) Header() HeaderService {
	return m.container.HeaderService()
}

func (m *Module) Navigation() NavigationService {
	return m.container.NavigationService()
}

// Hooks returns the registry consulted while resolving headers.
func (m *Module) Hooks() HookRegistry {
	return m.container.Hooks()
}

func (m *Module) Shortcodes() interfaces.ShortcodeService {
	return m.container.ShortcodeService()
}

// RenderHeader returns the header markup followed by the sub-navigation, if
// the queried object has one.
func (m *Module) RenderHeader(ctx context.Context, qctx query.Context) (template.HTML, error) {
	svc := m.container.HeaderService()
	markup, err := svc.Markup(ctx, qctx)
	if err != nil {
		return "", err
	}
	subnav, err := svc.SubnavMarkup(ctx, qctx)
	if err != nil {
		return "", err
	}
	return markup + subnav, nil
}

// ResolveHeader computes the header description without rendering it.
func (m *Module) ResolveHeader(ctx context.Context, qctx query.Context) (*HeaderSpec, error) {
	return m.container.HeaderService().Resolve(ctx, qctx)
}

// RenderNavigation returns the navbar markup on its own.
func (m *Module) RenderNavigation(ctx context.Context, req NavigationRequest) (template.HTML, error) {
	return m.container.NavigationService().Markup(ctx, req)
}

// RefreshMainsiteMenu refetches the remote menu and replaces the cached copy.
func (m *Module) RefreshMainsiteMenu(ctx context.Context, reason string) error {
	return m.container.RefreshMainsiteMenuHandler().Execute(ctx, navigationcmd.RefreshMainsiteMenuCommand{Reason: reason})
}

// InvalidateMainsiteMenu drops the cached remote menu.
func (m *Module) InvalidateMainsiteMenu(ctx context.Context, reason string) error {
	return m.container.InvalidateMainsiteMenuHandler().Execute(ctx, navigationcmd.InvalidateMainsiteMenuCommand{Reason: reason})
}

type contextAssigner interface {
	Assign(ctx context.Context, location string, menu *navigation.Menu) error
}

type memoryAssigner interface {
	Assign(location string, menu *navigation.Menu) error
}

// AssignMenu stores menu at location in the configured menu storage.
func (m *Module) AssignMenu(ctx context.Context, location string, menu *Menu) error {
	switch locator := m.container.MenuLocator().(type) {
	case contextAssigner:
		return locator.Assign(ctx, location, menu)
	case memoryAssigner:
		return locator.Assign(location, menu)
	default:
		return fmt.Errorf("masthead: menu locator %T is read-only", locator)
	}
}

type fieldSetter interface {
	Set(ctx context.Context, ref query.FieldRef, key string, value any) error
}

// SetField writes a custom field for obj. The files provider is read-only.
func (m *Module) SetField(ctx context.Context, obj *query.Object, key string, value any) error {
	store, ok := m.container.FieldStore().(fieldSetter)
	if !ok {
		return fmt.Errorf("masthead: field store %T is read-only", m.container.FieldStore())
	}
	return store.Set(ctx, obj.Ref(), key, value)
}

// HTTPHandler serves the preview API under basePath.
func (m *Module) HTTPHandler(basePath string) http.Handler {
	api := masthttp.NewAPI(
		masthttp.WithBasePath(basePath),
		masthttp.WithHeaderService(m.container.HeaderService()),
		masthttp.WithNavigationService(m.container.NavigationService()),
		masthttp.WithMainsiteCommands(m.container.RefreshMainsiteMenuHandler(), m.container.InvalidateMainsiteMenuHandler()),
		masthttp.WithLogger(logging.HTTPLogger(m.container.LoggerProvider())),
	)
	return api.Handler()
}
