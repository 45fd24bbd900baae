package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-masthead/internal/di"
	"github.com/goliatone/go-masthead/internal/header"
	masthttp "github.com/goliatone/go-masthead/internal/http"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/internal/runtimeconfig"
)

const admissionsQuery = "kind=post&id=42&type=page&title=Admissions&view=singular"

type stubFetcher struct {
	mu    sync.Mutex
	doc   *navigation.Document
	calls int
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*navigation.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.doc == nil {
		return nil, fmt.Errorf("%w: %s unavailable", navigation.ErrFetchFailed, url)
	}
	return f.doc, nil
}

func (f *stubFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func mainsiteDocument() *navigation.Document {
	return &navigation.Document{Items: []navigation.DocumentItem{
		{Title: "Academics", URL: "https://www.ucf.edu/academics/"},
	}}
}

func setupAPI(t *testing.T, fetcher *stubFetcher, opts ...masthttp.Option) *http.ServeMux {
	t.Helper()
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithFetcher(fetcher))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	apiOpts := []masthttp.Option{
		masthttp.WithHeaderService(container.HeaderService()),
		masthttp.WithNavigationService(container.NavigationService()),
		masthttp.WithMainsiteCommands(container.RefreshMainsiteMenuHandler(), container.InvalidateMainsiteMenuHandler()),
	}
	api := masthttp.NewAPI(append(apiOpts, opts...)...)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return mux
}

func doRequest(t *testing.T, mux http.Handler, method, target string, body any, expectedStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != expectedStatus {
		t.Fatalf("%s %s: expected status %d got %d: %s", method, target, expectedStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
}

func TestAPIHeaderMarkup(t *testing.T) {
	mux := setupAPI(t, &stubFetcher{doc: mainsiteDocument()})

	rec := doRequest(t, mux, http.MethodGet, "/header?"+admissionsQuery, nil, http.StatusOK)
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("expected html content type, got %q", got)
	}
	out := rec.Body.String()
	for _, want := range []string{
		`href="https://www.ucf.edu/academics/"`,
		`>Admissions</h1>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestAPIHeaderSpec(t *testing.T) {
	mux := setupAPI(t, &stubFetcher{doc: mainsiteDocument()})

	rec := doRequest(t, mux, http.MethodGet, "/header/spec?"+admissionsQuery, nil, http.StatusOK)
	var spec header.HeaderSpec
	decodeBody(t, rec, &spec)
	if spec.TitleText != "Admissions" {
		t.Fatalf("expected title Admissions, got %q", spec.TitleText)
	}
	if spec.H1Target != header.H1Title {
		t.Fatalf("expected h1 target title, got %q", spec.H1Target)
	}
	if spec.HasMedia() {
		t.Fatalf("expected no media, got %#v", spec)
	}
}

func TestAPINavMarkup(t *testing.T) {
	mux := setupAPI(t, &stubFetcher{doc: mainsiteDocument()})

	rec := doRequest(t, mux, http.MethodGet, "/nav?view=front_page&image=true", nil, http.StatusOK)
	out := rec.Body.String()
	if !strings.Contains(out, "navbar-mainsite py-2 py-sm-4 navbar-inverse header-gradient") {
		t.Fatalf("expected image navbar classes in %s", out)
	}
}

func TestAPIRefreshAndInvalidate(t *testing.T) {
	fetcher := &stubFetcher{doc: mainsiteDocument()}
	mux := setupAPI(t, fetcher)

	rec := doRequest(t, mux, http.MethodPost, "/nav/refresh", map[string]any{"reason": "deploy"}, http.StatusOK)
	var status map[string]string
	decodeBody(t, rec, &status)
	if status["status"] != "refreshed" {
		t.Fatalf("expected refreshed status, got %#v", status)
	}

	doRequest(t, mux, http.MethodGet, "/nav", nil, http.StatusOK)
	if got := fetcher.count(); got != 1 {
		t.Fatalf("expected nav to read the refreshed cache, got %d fetches", got)
	}

	doRequest(t, mux, http.MethodDelete, "/nav/cache?reason=stale", nil, http.StatusNoContent)
	doRequest(t, mux, http.MethodGet, "/nav", nil, http.StatusOK)
	if got := fetcher.count(); got != 2 {
		t.Fatalf("expected refetch after invalidation, got %d fetches", got)
	}
}

func TestAPIRefreshWithoutBody(t *testing.T) {
	mux := setupAPI(t, &stubFetcher{doc: mainsiteDocument()})
	doRequest(t, mux, http.MethodPost, "/nav/refresh", nil, http.StatusOK)
}

func TestAPIRefreshValidationError(t *testing.T) {
	mux := setupAPI(t, &stubFetcher{doc: mainsiteDocument()})

	rec := doRequest(t, mux, http.MethodPost, "/nav/refresh", map[string]any{"reason": strings.Repeat("x", 201)}, http.StatusBadRequest)
	var payload map[string]any
	decodeBody(t, rec, &payload)
	if payload["error"] != "validation_failed" {
		t.Fatalf("expected validation_failed, got %#v", payload)
	}
}

func TestAPIRefreshUpstreamFailure(t *testing.T) {
	mux := setupAPI(t, &stubFetcher{})

	rec := doRequest(t, mux, http.MethodPost, "/nav/refresh", nil, http.StatusBadGateway)
	var payload map[string]any
	decodeBody(t, rec, &payload)
	if payload["error"] != "upstream_failed" {
		t.Fatalf("expected upstream_failed, got %#v", payload)
	}
}

func TestAPIBasePath(t *testing.T) {
	mux := setupAPI(t, &stubFetcher{doc: mainsiteDocument()}, masthttp.WithBasePath("/preview/"))

	doRequest(t, mux, http.MethodGet, "/preview/header?"+admissionsQuery, nil, http.StatusOK)
	doRequest(t, mux, http.MethodGet, "/header?"+admissionsQuery, nil, http.StatusNotFound)
}

func TestAPIMissingServices(t *testing.T) {
	mux := masthttp.NewAPI().Handler()

	doRequest(t, mux, http.MethodGet, "/header", nil, http.StatusServiceUnavailable)
	doRequest(t, mux, http.MethodGet, "/nav", nil, http.StatusServiceUnavailable)
	doRequest(t, mux, http.MethodPost, "/nav/refresh", nil, http.StatusServiceUnavailable)
}
