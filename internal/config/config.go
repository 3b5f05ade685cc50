// Package config loads nougat settings from a config file, the environment
// and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. NOUGAT_EXPAND_JOBS.
const EnvPrefix = "NOUGAT"

// Config is the full set of settings.
type Config struct {
	Expand ExpandConfig `mapstructure:"expand"`
	Log    LogConfig    `mapstructure:"log"`
}

// ExpandConfig drives `nougat expand`.
type ExpandConfig struct {
	// Jobs bounds the number of files expanded at once.
	Jobs int `mapstructure:"jobs"`
	// OutDir receives expanded files; empty means stdout.
	OutDir string `mapstructure:"out_dir"`
	// Check reports diagnostics without writing output.
	Check bool `mapstructure:"check"`
	// Format is the diagnostic report format: human, json or yaml.
	Format string `mapstructure:"format"`
	// Extensions lists the file suffixes picked up when walking a directory.
	Extensions []string `mapstructure:"extensions"`
	// DebounceMS is the quiet period before a watched file is re-expanded.
	DebounceMS int `mapstructure:"debounce_ms"`
}

// LogConfig selects the logger output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("expand.jobs", 4)
	v.SetDefault("expand.out_dir", "")
	v.SetDefault("expand.check", false)
	v.SetDefault("expand.format", "human")
	v.SetDefault("expand.extensions", []string{".rs"})
	v.SetDefault("expand.debounce_ms", 200)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
}

// New returns a viper instance with defaults and environment binding. When
// path is empty, nougat.toml or nougat.yaml is looked up in the working
// directory and its parents.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path == "" {
		path = findProjectConfig()
	}
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	return v, nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads a single config file on top of the defaults, without
// looking at the environment.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	return Load(v)
}

// Validate rejects settings the expander cannot honor.
func (c *Config) Validate() error {
	if c.Expand.Jobs < 1 {
		return errors.WithHint(errors.Newf("expand.jobs must be at least 1, got %d", c.Expand.Jobs),
			"set expand.jobs in nougat.toml or pass --jobs")
	}
	switch c.Expand.Format {
	case "human", "json", "yaml":
	default:
		return errors.WithHint(errors.Newf("unknown report format %q", c.Expand.Format),
			"use one of human, json or yaml")
	}
	if c.Expand.DebounceMS < 0 {
		return errors.Newf("expand.debounce_ms must not be negative, got %d", c.Expand.DebounceMS)
	}
	return nil
}

var configNames = []string{"nougat.toml", "nougat.yaml", "nougat.yml"}

// findProjectConfig walks up from the working directory to the first
// directory holding a nougat config file.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
