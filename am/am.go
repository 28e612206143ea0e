// Package am holds crepr's configuration ("I am").
//
// Values are merged from built-in defaults, the user config file, the
// [tool.crepr] table of the nearest pyproject.toml, the nearest project
// crepr.toml and CREPR_* environment variables, in that order.
package am

import "time"

// Config represents the crepr configuration
type Config struct {
	Repr   ReprConfig   `mapstructure:"repr" toml:"repr" json:"repr" yaml:"repr"`
	Output OutputConfig `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Log    LogConfig    `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Watch  WatchConfig  `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
}

// ReprConfig configures the generated __repr__
type ReprConfig struct {
	KwargSplat     string `mapstructure:"kwarg_splat" toml:"kwarg_splat" json:"kwarg_splat" yaml:"kwarg_splat"`             // Token rendered for **kwargs
	IgnoreExisting bool   `mapstructure:"ignore_existing" toml:"ignore_existing" json:"ignore_existing" yaml:"ignore_existing"` // Skip classes that already define __repr__
}

// OutputConfig configures terminal output
type OutputConfig struct {
	Color bool `mapstructure:"color" toml:"color" json:"color" yaml:"color"`
}

// LogConfig configures the logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // Color theme: gruvbox, everforest
}

// WatchConfig configures crepr watch
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// Debounce returns the debounce period as a duration
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}
