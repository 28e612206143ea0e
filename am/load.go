package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the crepr configuration for the working directory
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads and validates configuration from a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = make(map[string]SourceInfo)
}

// initViper initializes Viper for the current working directory
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	viperInstance = NewViper(dir)
	return viperInstance
}

// NewViper builds a Viper instance with every configuration source that
// applies to dir. The sources are recorded in ConfigSources.
func NewViper(dir string) *viper.Viper {
	v := viper.New()

	// Set up environment variable binding: repr.kwarg_splat -> CREPR_REPR_KWARG_SPLAT
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults first
	SetDefaults(v)

	// Merge files in precedence order: user -> pyproject -> project -> env vars
	ConfigSources = make(map[string]SourceInfo)
	mergeConfigFiles(v, dir)

	return v
}

// UserConfigPath returns ~/.config/crepr/crepr.toml
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "crepr", ProjectConfigName)
}

// findUp walks from dir towards the filesystem root and returns the first
// existing file among names
func findUp(dir string, names ...string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// findProjectConfig returns the nearest crepr.toml or .crepr.toml
func findProjectConfig(dir string) string {
	return findUp(dir, ProjectConfigName, HiddenConfigName)
}

// findPyproject returns the nearest pyproject.toml
func findPyproject(dir string) string {
	return findUp(dir, PyprojectName)
}

// readTOML reads a crepr.toml style file into a settings map
func readTOML(path string) (map[string]interface{}, error) {
	tempViper := viper.New()
	tempViper.SetConfigFile(path)
	tempViper.SetConfigType("toml")
	if err := tempViper.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return tempViper.AllSettings(), nil
}

// readPyproject returns the [tool.crepr] table of a pyproject.toml.
// Keys may use dashes, as is usual in pyproject.toml, and the repr
// options may be given at the top of the table.
func readPyproject(path string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	tool, _ := doc["tool"].(map[string]interface{})
	table, _ := tool["crepr"].(map[string]interface{})
	if table == nil {
		return nil, nil
	}

	settings := normalizeKeys(table)
	repr, _ := settings["repr"].(map[string]interface{})
	for _, key := range []string{"kwarg_splat", "ignore_existing"} {
		if value, ok := settings[key]; ok {
			if repr == nil {
				repr = make(map[string]interface{})
			}
			repr[key] = value
			delete(settings, key)
		}
	}
	if repr != nil {
		settings["repr"] = repr
	}
	return settings, nil
}

func normalizeKeys(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for key, value := range in {
		if nested, ok := value.(map[string]interface{}); ok {
			value = normalizeKeys(nested)
		}
		out[strings.ToLower(strings.ReplaceAll(key, "-", "_"))] = value
	}
	return out
}

// mergeConfigFiles merges configuration files in the correct precedence order.
// Precedence (lowest to highest): user < pyproject < project < env vars
func mergeConfigFiles(v *viper.Viper, dir string) {
	type layer struct {
		source ConfigSource
		path   string
		read   func(string) (map[string]interface{}, error)
	}

	layers := []layer{{SourceUser, UserConfigPath(), readTOML}}
	if path := findPyproject(dir); path != "" {
		layers = append(layers, layer{SourcePyproject, path, readPyproject})
	}
	if path := findProjectConfig(dir); path != "" {
		layers = append(layers, layer{SourceProject, path, readTOML})
	}

	for _, l := range layers {
		if l.path == "" {
			continue
		}
		if _, err := os.Stat(l.path); err != nil {
			continue
		}

		settings, err := l.read(l.path)
		if err != nil {
			logger.Warnw("Skipping unreadable config file",
				logger.FieldFile, l.path,
				logger.FieldError, err)
			continue
		}
		if len(settings) == 0 {
			continue
		}

		if err := v.MergeConfigMap(settings); err != nil {
			logger.Warnw("Skipping config file",
				logger.FieldFile, l.path,
				logger.FieldError, err)
			continue
		}
		trackSources(settings, "", SourceInfo{Source: l.source, Path: l.path})
		logger.Debugw("Merged config file",
			logger.FieldSource, string(l.source),
			logger.FieldFile, l.path,
			logger.FieldCount, len(settings))
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}
