package am

import (
	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Repr.KwargSplat == "" {
		return errors.WithHint(
			errors.New("repr.kwarg_splat cannot be empty"),
			"use \"...\" or \"{}\", or remove the key for the default")
	}

	// 0 = re-run on every event
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	if c.Log.Theme != "" && !logger.HasTheme(c.Log.Theme) {
		return errors.Newf("log.theme %q is not a known theme", c.Log.Theme)
	}

	return nil
}
