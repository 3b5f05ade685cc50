// Package commands holds the nougat subcommands.
package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/malphas-lang/nougat/internal/config"
)

// ConfigKey is the flag annotation naming the config key a flag overrides.
const ConfigKey = "config"

// ErrDiagnostics is returned once diagnostics have been reported, so main
// exits non-zero without printing anything more.
var ErrDiagnostics = errors.New("expansion reported diagnostics")

var cfg *config.Config

// SetConfig installs the configuration loaded by the root command.
func SetConfig(c *config.Config) { cfg = c }

func currentConfig() *config.Config {
	if cfg == nil {
		return &config.Config{
			Expand: config.ExpandConfig{Jobs: 4, Format: "human", Extensions: []string{".rs"}, DebounceMS: 200},
			Log:    config.LogConfig{Level: "warn"},
		}
	}
	return cfg
}

// Bind marks flag name as an override for config key.
func Bind(flags *pflag.FlagSet, name, key string) {
	if err := flags.SetAnnotation(name, ConfigKey, []string{key}); err != nil {
		panic(err)
	}
}
