package am

import (
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyKwargSplat     = "repr.kwarg_splat"
	KeyIgnoreExisting = "repr.ignore_existing"
	KeyColor          = "output.color"
	KeyLogJSON        = "log.json"
	KeyLogTheme       = "log.theme"
	KeyWatchDebounce  = "watch.debounce_ms"
)

// Default values
const (
	DefaultKwargSplat = "{}"
	DefaultLogTheme   = "everforest"
	DefaultDebounceMS = 300
)

// File names
const (
	ProjectConfigName = "crepr.toml"
	HiddenConfigName  = ".crepr.toml"
	PyprojectName     = "pyproject.toml"
	EnvPrefix         = "CREPR"
)

// DefaultDirPermissions is used when creating the user config directory
const DefaultDirPermissions = 0o750

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyKwargSplat, DefaultKwargSplat)
	v.SetDefault(KeyIgnoreExisting, false)

	v.SetDefault(KeyColor, true)

	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyLogTheme, DefaultLogTheme)

	v.SetDefault(KeyWatchDebounce, DefaultDebounceMS)
}

// Keys lists every known configuration key in display order
func Keys() []string {
	return []string{
		KeyKwargSplat,
		KeyIgnoreExisting,
		KeyColor,
		KeyLogJSON,
		KeyLogTheme,
		KeyWatchDebounce,
	}
}
