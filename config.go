package masthead

import "github.com/goliatone/go-masthead/internal/runtimeconfig"

var (
	ErrSiteNameRequired        = runtimeconfig.ErrSiteNameRequired
	ErrMainsiteURLRequired     = runtimeconfig.ErrMainsiteURLRequired
	ErrMenuLocationRequired    = runtimeconfig.ErrMenuLocationRequired
	ErrMenuDepthInvalid        = runtimeconfig.ErrMenuDepthInvalid
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrFilesDirRequired        = runtimeconfig.ErrFilesDirRequired
	ErrThemesFeatureRequired   = runtimeconfig.ErrThemesFeatureRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

// DefaultMainsiteNavURL serves the fallback primary navigation document.
const DefaultMainsiteNavURL = runtimeconfig.DefaultMainsiteNavURL

type (
	Config           = runtimeconfig.Config
	SiteConfig       = runtimeconfig.SiteConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	ThemeConfig      = runtimeconfig.ThemeConfig
	ShortcodeConfig  = runtimeconfig.ShortcodeConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	Features         = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
