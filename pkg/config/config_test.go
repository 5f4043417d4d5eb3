package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gocst.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 256, cfg.Parser.MaxDepth)
	assert.Equal(t, 10000, cfg.Transform.MaxDepth)
	assert.Equal(t, "tree", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce.Duration)
	require.NoError(t, cfg.Validate())

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[parser]
max_depth = 64

[output]
format = "sexpr"
color = "never"

[log]
level = "debug"

[watch]
debounce = "1s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Parser.MaxDepth)
	assert.Equal(t, 10000, cfg.Transform.MaxDepth, "missing keys keep defaults")
	assert.Equal(t, "sexpr", cfg.Output.Format)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Equal(t, time.Second, cfg.Watch.Debounce.Duration)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadExpandsEnv(t *testing.T) {
	path := writeConfig(t, "[output]\nformat = \"yaml\"\n")
	t.Setenv("GOCST_TEST_DIR", filepath.Dir(path))
	cfg, err := Load("$GOCST_TEST_DIR/gocst.toml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"Bad TOML", "[parser\n", "failed to parse config"},
		{"Unknown Key", "[parser]\ndepth = 3\n", "unknown config key \"parser.depth\""},
		{"Bad Format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"Bad Color", "[output]\ncolor = \"sometimes\"\n", "output.color"},
		{"Bad Level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"Bad Duration", "[watch]\ndebounce = \"soon\"\n", "failed to parse config"},
		{"Negative Depth", "[transform]\nmax_depth = -1\n", "transform.max_depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"error\"\n")
	t.Setenv(EnvVar, path)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration)
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(out))
}
