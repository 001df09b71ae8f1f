package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIDGETDEMO_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Session.Backend)
	require.Contains(t, cfg.Session.DSN, "mode=memory")
	require.Equal(t, 20, cfg.Demo.Rows)
	require.Equal(t, 100, cfg.Demo.GeoPoints)
	require.InDelta(t, 37.56, cfg.Demo.CenterLat, 1e-9)
	require.InDelta(t, 126.97, cfg.Demo.CenterLon, 1e-9)
	require.Equal(t, 300*time.Millisecond, cfg.Demo.Spinner)
	require.Equal(t, 100, cfg.Demo.ProgressSteps)
	require.Equal(t, 10*time.Millisecond, cfg.Demo.ProgressInterval)
	require.True(t, cfg.Media.Fetch)
	require.Equal(t, "/dev/video0", cfg.Camera.Device)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[session]
backend = "memory"

[demo]
rows = 5
seed = 42
progress_interval = "1ms"

[media]
fetch = false
`)
	t.Setenv("WIDGETDEMO_EXPORT_DIR", "/tmp/exports")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Session.Backend)
	require.Equal(t, 5, cfg.Demo.Rows)
	require.Equal(t, uint64(42), cfg.Demo.Seed)
	require.Equal(t, time.Millisecond, cfg.Demo.ProgressInterval)
	require.False(t, cfg.Media.Fetch)
	require.Equal(t, "/tmp/exports", cfg.Export.Dir)
	// untouched keys keep defaults
	require.Equal(t, 100, cfg.Demo.GeoPoints)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "[session]\nbackend = \"redis\"\n")
	_, err := Load(path)
	require.ErrorContains(t, err, "unknown session backend")
}

func TestEncodeWritesSections(t *testing.T) {
	path := writeConfig(t, "[demo]\nrows = 7\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))
	require.Contains(t, buf.String(), "[demo]")
	require.Contains(t, buf.String(), "rows = 7")
	require.Contains(t, buf.String(), "[session]")
}
