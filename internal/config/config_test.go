package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFileTOML(t *testing.T) {
	path := writeConfig(t, "nougat.toml", `
[expand]
jobs = 8
out_dir = "target/expanded"
format = "json"

[log]
level = "debug"
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Expand.Jobs)
	assert.Equal(t, "target/expanded", cfg.Expand.OutDir)
	assert.Equal(t, "json", cfg.Expand.Format)
	assert.Equal(t, []string{".rs"}, cfg.Expand.Extensions, "unset keys keep their default")
	assert.Equal(t, 200, cfg.Expand.DebounceMS)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeConfig(t, "nougat.yaml", "expand:\n  check: true\n  extensions: [.rs, .in]\n")
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Expand.Check)
	assert.Equal(t, []string{".rs", ".in"}, cfg.Expand.Extensions)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Expand: ExpandConfig{Jobs: 1, Format: "human"}}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		hint   bool
	}{
		{"zero jobs", func(c *Config) { c.Expand.Jobs = 0 }, true},
		{"unknown format", func(c *Config) { c.Expand.Format = "xml" }, true},
		{"negative debounce", func(c *Config) { c.Expand.DebounceMS = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.hint, len(errors.GetAllHints(err)) > 0)
		})
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "nougat.toml", "[expand]\njobs = 2\n")
	t.Setenv("NOUGAT_EXPAND_JOBS", "6")
	t.Setenv("NOUGAT_LOG_JSON", "true")

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Expand.Jobs)
	assert.True(t, cfg.Log.JSON)
}

func TestFindProjectConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "nougat.yaml"), []byte("expand:\n  jobs: 3\n"), 0o644))
	t.Chdir(nested)

	got := findProjectConfig()
	want, err := filepath.EvalSymlinks(filepath.Join(root, "nougat.yaml"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}
