package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-masthead"
	"github.com/goliatone/go-masthead/query"
)

var moduleBuilder = func(cfg masthead.Config) (*masthead.Module, error) {
	return masthead.New(cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("masthead: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("masthead", flag.ContinueOnError)
	siteName := fs.String("site-name", "Site", "Site name shown as the navbar brand")
	homeURL := fs.String("home-url", "/", "URL the navbar brand links to")
	rawQuery := fs.String("query", "", "Queried object and view as URL query, e.g. kind=post&id=1&title=About&view=singular")
	mainsiteURL := fs.String("mainsite-url", "", "Remote mainsite menu URL (defaults to the built-in feed)")
	storage := fs.String("storage", "memory", "Field and menu storage: memory, bun or files")
	driver := fs.String("driver", "sqlite", "Database driver for the bun storage: sqlite or postgres")
	dsn := fs.String("dsn", "", "Database DSN for the bun storage")
	filesDir := fs.String("files-dir", "content", "Frontmatter directory for the files storage")
	themesDir := fs.String("themes-dir", "themes", "Directory holding theme overrides")
	theme := fs.String("theme", "", "Theme providing template part overrides")
	sectionMenus := fs.Bool("section-menus", false, "Enable [section-menu] sub-navigation")
	logLevel := fs.String("log-level", "", "Enable logging at the given level")
	logFormat := fs.String("log-format", "console", "Log format: json, console or pretty")
	spec := fs.Bool("spec", false, "Print the resolved header as JSON instead of markup")
	navOnly := fs.Bool("nav", false, "Render only the navbar")
	refresh := fs.Bool("refresh", false, "Refetch the mainsite menu before rendering")
	serve := fs.String("serve", "", "Serve the preview API on this address instead of rendering once")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := masthead.DefaultConfig()
	cfg.Site.Name = *siteName
	cfg.Site.HomeURL = *homeURL
	cfg.Navigation.MainsiteURL = strings.TrimSpace(*mainsiteURL)
	cfg.Storage.Provider = *storage
	cfg.Storage.Driver = *driver
	cfg.Storage.DSN = *dsn
	cfg.Storage.FilesDir = *filesDir
	cfg.Features.SectionMenus = *sectionMenus
	if name := strings.TrimSpace(*theme); name != "" {
		cfg.Features.Themes = true
		cfg.Themes.BasePath = *themesDir
		cfg.Themes.DefaultTheme = name
	}
	if level := strings.TrimSpace(*logLevel); level != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = level
		cfg.Logging.Format = *logFormat
	}

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	if strings.TrimSpace(*serve) != "" {
		return serveAPI(ctx, module, *serve)
	}

	values, err := url.ParseQuery(strings.TrimPrefix(*rawQuery, "?"))
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}
	qctx := query.ParseValues(values)

	if *refresh {
		if err := module.RefreshMainsiteMenu(ctx, "cli"); err != nil {
			return fmt.Errorf("refresh mainsite menu: %w", err)
		}
	}

	switch {
	case *spec:
		resolved, err := module.ResolveHeader(ctx, qctx)
		if err != nil {
			return fmt.Errorf("resolve header: %w", err)
		}
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resolved)
	case *navOnly:
		html, err := module.RenderNavigation(ctx, masthead.NavigationRequest{
			Query:      qctx,
			CurrentURL: values.Get("current_url"),
		})
		if err != nil {
			return fmt.Errorf("render navigation: %w", err)
		}
		_, err = fmt.Fprintln(stdout, html)
		return err
	default:
		html, err := module.RenderHeader(ctx, qctx)
		if err != nil {
			return fmt.Errorf("render header: %w", err)
		}
		_, err = fmt.Fprintln(stdout, html)
		return err
	}
}

func serveAPI(ctx context.Context, module *masthead.Module, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           module.HTTPHandler(""),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("masthead: serving preview API on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
