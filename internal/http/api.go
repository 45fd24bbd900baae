package http

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	navigationcmd "github.com/goliatone/go-masthead/internal/commands/navigation"
	"github.com/goliatone/go-masthead/internal/header"
	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

// HeaderService is the header surface served by the API.
type HeaderService interface {
	Markup(ctx context.Context, qctx query.Context) (template.HTML, error)
	SubnavMarkup(ctx context.Context, qctx query.Context) (template.HTML, error)
	Resolve(ctx context.Context, qctx query.Context) (*header.HeaderSpec, error)
}

// NavigationService renders the navbar on its own.
type NavigationService interface {
	Markup(ctx context.Context, req navigation.Request) (template.HTML, error)
}

type RefreshHandler interface {
	Execute(ctx context.Context, msg navigationcmd.RefreshMainsiteMenuCommand) error
}

type InvalidateHandler interface {
	Execute(ctx context.Context, msg navigationcmd.InvalidateMainsiteMenuCommand) error
}

// API registers the preview endpoints.
type API struct {
	basePath   string
	header     HeaderService
	navigation NavigationService
	refresh    RefreshHandler
	invalidate InvalidateHandler
	logger     interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath mounts every route under path.
func WithBasePath(path string) Option {
	return func(api *API) {
		api.basePath = strings.TrimSpace(path)
	}
}

func WithHeaderService(service HeaderService) Option {
	return func(api *API) {
		api.header = service
	}
}

func WithNavigationService(service NavigationService) Option {
	return func(api *API) {
		api.navigation = service
	}
}

// WithMainsiteCommands wires the handlers behind the cache endpoints.
func WithMainsiteCommands(refresh RefreshHandler, invalidate InvalidateHandler) Option {
	return func(api *API) {
		api.refresh = refresh
		api.invalidate = invalidate
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	mux.HandleFunc("GET "+joinPath(api.basePath, "header"), api.handleHeader)
	mux.HandleFunc("GET "+joinPath(api.basePath, "header/spec"), api.handleHeaderSpec)
	mux.HandleFunc("GET "+joinPath(api.basePath, "nav"), api.handleNav)
	mux.HandleFunc("POST "+joinPath(api.basePath, "nav/refresh"), api.handleNavRefresh)
	mux.HandleFunc("DELETE "+joinPath(api.basePath, "nav/cache"), api.handleNavInvalidate)
	return nil
}

// Handler returns a fresh mux with the endpoints registered.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	_ = api.Register(mux)
	return mux
}

func (api *API) handleHeader(w http.ResponseWriter, r *http.Request) {
	if api.header == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	qctx := query.ParseValues(r.URL.Query())

	markup, err := api.header.Markup(r.Context(), qctx)
	if err != nil {
		api.fail(w, r, "http.header.markup_failed", err)
		return
	}
	subnav, err := api.header.SubnavMarkup(r.Context(), qctx)
	if err != nil {
		api.fail(w, r, "http.header.subnav_failed", err)
		return
	}
	writeHTML(w, http.StatusOK, markup+subnav)
}

func (api *API) handleHeaderSpec(w http.ResponseWriter, r *http.Request) {
	if api.header == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	spec, err := api.header.Resolve(r.Context(), query.ParseValues(r.URL.Query()))
	if err != nil {
		api.fail(w, r, "http.header.resolve_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (api *API) handleNav(w http.ResponseWriter, r *http.Request) {
	if api.navigation == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	values := r.URL.Query()
	markup, err := api.navigation.Markup(r.Context(), navigation.Request{
		Query:      query.ParseValues(values),
		Image:      parseBoolQuery(values.Get("image"), false),
		CurrentURL: strings.TrimSpace(values.Get("current_url")),
	})
	if err != nil {
		api.fail(w, r, "http.nav.markup_failed", err)
		return
	}
	writeHTML(w, http.StatusOK, markup)
}

func (api *API) handleNavRefresh(w http.ResponseWriter, r *http.Request) {
	if api.refresh == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var msg navigationcmd.RefreshMainsiteMenuCommand
	if err := decodeJSON(r, &msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid json body"})
		return
	}
	if err := api.refresh.Execute(r.Context(), msg); err != nil {
		api.fail(w, r, "http.nav.refresh_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "refreshed"})
}

func (api *API) handleNavInvalidate(w http.ResponseWriter, r *http.Request) {
	if api.invalidate == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	msg := navigationcmd.InvalidateMainsiteMenuCommand{
		Reason: strings.TrimSpace(r.URL.Query().Get("reason")),
	}
	if err := api.invalidate.Execute(r.Context(), msg); err != nil {
		api.fail(w, r, "http.nav.invalidate_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) fail(w http.ResponseWriter, r *http.Request, event string, err error) {
	status, payload := mapError(err)
	api.logger.WithContext(r.Context()).Warn(event,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, payload)
}
