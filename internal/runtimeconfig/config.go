package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrSiteNameRequired = errors.New("masthead config: site name is required")
var ErrMainsiteURLRequired = errors.New("masthead config: default mainsite navigation url is required")
var ErrMenuLocationRequired = errors.New("masthead config: navigation menu location is required")
var ErrMenuDepthInvalid = errors.New("masthead config: navigation depth must be zero or positive")

// ErrStorageProviderUnknown is returned for providers other than memory, bun and files.
var ErrStorageProviderUnknown = errors.New("masthead config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("masthead config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("masthead config: storage dsn is required for the bun provider")
var ErrFilesDirRequired = errors.New("masthead config: files directory is required for the files provider")

// ErrThemesFeatureRequired indicates a theme was configured with themes disabled.
var ErrThemesFeatureRequired = errors.New("masthead config: themes feature must be enabled to configure themes")
var ErrLoggingProviderRequired = errors.New("masthead config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("masthead config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("masthead config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("masthead config: logging format is invalid")

// DefaultMainsiteNavURL serves the fallback primary navigation document.
const DefaultMainsiteNavURL = "https://www.ucf.edu/wp-json/ucf-rest-menus/v1/menus/23"

// Config aggregates settings for header and navigation rendering.
type Config struct {
	Site       SiteConfig
	Navigation NavigationConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Themes     ThemeConfig
	Shortcodes ShortcodeConfig
	Logging    LoggingConfig
	Features   Features
}

// SiteConfig describes the site the header belongs to.
type SiteConfig struct {
	Name    string
	HomeURL string
	// DateFormat is a Go layout used for day archive titles.
	DateFormat string
}

// NavigationConfig controls custom menus and the remote mainsite menu.
type NavigationConfig struct {
	// MainsiteURL overrides DefaultMainsiteURL; a failed fetch falls back to
	// the default.
	MainsiteURL        string
	DefaultMainsiteURL string
	Location           string
	TransientKey       string
	CacheTTL           time.Duration
	FetchTimeout       time.Duration
	Depth              int
}

// StorageConfig selects where custom fields, menus and transients live.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
	FilesDir string
}

// CacheConfig toggles repository caching.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// ThemeConfig points at template part overrides.
type ThemeConfig struct {
	BasePath       string
	DefaultTheme   string
	DefaultVariant string
}

type ShortcodeConfig struct {
	Enabled bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles optional behaviour.
type Features struct {
	Logger       bool
	Themes       bool
	SectionMenus bool
}

// DefaultConfig returns settings that render with in-memory collaborators.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Name:       "Site",
			HomeURL:    "/",
			DateFormat: "January 2, 2006",
		},
		Navigation: NavigationConfig{
			DefaultMainsiteURL: DefaultMainsiteNavURL,
			Location:           "header-menu",
			TransientKey:       "mainsite_nav_json",
			CacheTTL:           24 * time.Hour,
			FetchTimeout:       10 * time.Second,
			Depth:              2,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite",
			FilesDir: "content",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Themes: ThemeConfig{
			BasePath: "themes",
		},
		Shortcodes: ShortcodeConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.Name) == "" {
		return ErrSiteNameRequired
	}
	if strings.TrimSpace(cfg.Navigation.DefaultMainsiteURL) == "" {
		return ErrMainsiteURLRequired
	}
	if strings.TrimSpace(cfg.Navigation.Location) == "" {
		return ErrMenuLocationRequired
	}
	if cfg.Navigation.Depth < 0 {
		return ErrMenuDepthInvalid
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", "memory":
	case "bun":
		if driver := normalize(cfg.Storage.Driver); driver != "" && driver != "sqlite" && driver != "postgres" {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	case "files":
		if strings.TrimSpace(cfg.Storage.FilesDir) == "" {
			return ErrFilesDirRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	if !cfg.Features.Themes && strings.TrimSpace(cfg.Themes.DefaultTheme) != "" {
		return ErrThemesFeatureRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" && provider != "noop" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := normalize(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// MainsiteFeedURL returns the configured mainsite URL, or the default when unset.
func (n NavigationConfig) MainsiteFeedURL() string {
	if url := strings.TrimSpace(n.MainsiteURL); url != "" {
		return url
	}
	return strings.TrimSpace(n.DefaultMainsiteURL)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
