package main

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/widgetdemo/internal/config"
	"github.com/jask/widgetdemo/internal/demo"
	"github.com/jask/widgetdemo/internal/media"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIDGETDEMO_CONFIG", "")
	t.Setenv("WIDGETDEMO_SESSION_BACKEND", backend)
	t.Setenv("WIDGETDEMO_DEMO_SEED", "7")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestDumpPrintsWholePage(t *testing.T) {
	cfg := testConfig(t, "memory")
	ctx := context.Background()
	store, downloads, closeStore, err := openSession(ctx, cfg)
	require.NoError(t, err)
	defer closeStore()
	require.Nil(t, downloads)

	var buf bytes.Buffer
	cam := media.Static{Err: errors.New("no device")}
	require.NoError(t, dumpPage(ctx, &buf, demo.Page(demo.FromConfig(cfg)), store, cam, 100, "notty"))

	out := ansi.Strip(buf.String())
	require.Contains(t, out, "Streamlit 요소 데모 페이지")
	require.Contains(t, out, demo.CameraFallback)

	// the bar after the spinner section is drawn full
	lines := strings.Split(out, "\n")
	done := slices.IndexFunc(lines, func(l string) bool { return strings.Contains(l, "완료") })
	require.GreaterOrEqual(t, done, 0)
	var bar string
	for _, l := range lines[done+1:] {
		if strings.TrimSpace(l) != "" {
			bar = l
			break
		}
	}
	require.Contains(t, bar, "█")
	require.NotContains(t, bar, "░")
}

func TestOpenSessionSQLite(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	ctx := context.Background()
	store, downloads, closeStore, err := openSession(ctx, cfg)
	require.NoError(t, err)
	defer closeStore()
	require.NotNil(t, downloads)

	n, err := store.Incr(ctx, "k", 2)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}
