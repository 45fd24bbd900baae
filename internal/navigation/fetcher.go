package navigation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves and decodes a mainsite menu document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

const (
	documentInvalidCode = "MAINSITE_MENU_INVALID"
	maxDocumentBytes    = 1 << 20
	defaultFetchTimeout = 10 * time.Second
)

const documentSchema = `{
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "url"],
				"properties": {
					"title": {"type": "string"},
					"url": {"type": "string"},
					"target": {"type": "string"}
				}
			}
		}
	}
}`

// HTTPFetcher fetches menu documents over HTTP. Concurrent fetches of the
// same URL share one request.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
	schema  *jsonschema.Schema
	group   singleflight.Group
}

var _ Fetcher = (*HTTPFetcher)(nil)

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// NewHTTPFetcher builds a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration, opts ...FetcherOption) (*HTTPFetcher, error) {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("mainsite-menu.json", strings.NewReader(documentSchema)); err != nil {
		return nil, fmt.Errorf("navigation: load document schema: %w", err)
	}
	schema, err := compiler.Compile("mainsite-menu.json")
	if err != nil {
		return nil, fmt.Errorf("navigation: compile document schema: %w", err)
	}

	f := &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		schema:  schema,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrFetchFailed)
	}
	// The shared request outlives any single caller; each caller stops
	// waiting when its own context ends.
	results := f.group.DoChan(url, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()
		return f.fetch(fetchCtx, url)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, url, ctx.Err())
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Document), nil
	}
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetchFailed, url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, url, err)
	}
	return f.Decode(body)
}

// Decode validates raw against the document schema and decodes it.
func (f *HTTPFetcher) Decode(raw []byte) (*Document, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, invalidDocument(err)
	}
	if err := f.schema.Validate(payload); err != nil {
		return nil, invalidDocument(err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, invalidDocument(err)
	}
	return &doc, nil
}

func invalidDocument(err error) error {
	return goerrors.Wrap(fmt.Errorf("%w: %v", ErrDocumentInvalid, err), goerrors.CategoryValidation, "mainsite menu document invalid").
		WithTextCode(documentInvalidCode)
}
