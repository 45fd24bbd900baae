package masthead_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-masthead"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := masthead.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidateThemesRequireFeature(t *testing.T) {
	cfg := masthead.DefaultConfig()
	cfg.Themes.DefaultTheme = "athena"

	if err := cfg.Validate(); !errors.Is(err, masthead.ErrThemesFeatureRequired) {
		t.Fatalf("expected ErrThemesFeatureRequired, got %v", err)
	}

	cfg.Features.Themes = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidateBunRequiresDSN(t *testing.T) {
	cfg := masthead.DefaultConfig()
	cfg.Storage.Provider = "bun"

	if err := cfg.Validate(); !errors.Is(err, masthead.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidateLoggingFormat(t *testing.T) {
	cfg := masthead.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, masthead.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}
