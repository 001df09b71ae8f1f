package tui

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/widgetdemo/internal/config"
	"github.com/jask/widgetdemo/internal/database"
	"github.com/jask/widgetdemo/internal/database/repository"
	"github.com/jask/widgetdemo/internal/media"
	"github.com/jask/widgetdemo/internal/session"
	"github.com/jask/widgetdemo/internal/ui"
)

func testConfig() config.Config {
	return config.Config{
		UI:     config.UIConfig{SidebarWidth: 30, MaxWidth: 100, Markdown: "notty"},
		Camera: config.CameraConfig{Timeout: time.Second},
	}
}

func newTestApp(t *testing.T, script ui.Script) *App {
	t.Helper()
	a := New(context.Background(), Options{
		Config:  testConfig(),
		Script:  script,
		Session: session.NewMemory(),
		Open:    func(string) error { return nil },
	})
	a.Init()
	require.NotNil(t, a.tree)
	return a
}

func press(t *testing.T, a *App, keys ...tea.KeyMsg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(k)
	}
	return cmd
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func hasText(a *App, s string) bool {
	for _, t := range a.tree.Text() {
		if t == s {
			return true
		}
	}
	return false
}

func TestEnterClicksFocusedButton(t *testing.T) {
	runs := 0
	a := newTestApp(t, func(r *ui.Run) error {
		runs++
		if r.Button("Go") {
			r.Write("clicked")
		}
		return nil
	})
	require.Equal(t, "button:Go", a.focusKey)
	require.False(t, hasText(a, "clicked"))

	press(t, a, keyEnter)
	require.Equal(t, 2, runs)
	require.True(t, hasText(a, "clicked"))

	// the click is one-shot; an unrelated rerun clears it
	press(t, a, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, 3, runs)
	require.True(t, hasText(a, "clicked"))
	a.rerun()
	require.False(t, hasText(a, "clicked"))
}

func TestTabCyclesFocus(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Button("A")
		r.Checkbox("B", false)
		return nil
	})
	require.Equal(t, "button:A", a.focusKey)
	press(t, a, keyTab)
	require.Equal(t, "checkbox:B", a.focusKey)
	press(t, a, keyTab)
	require.Equal(t, "button:A", a.focusKey)
	press(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, "checkbox:B", a.focusKey)
}

func TestNumberEditorCommitsParsedValue(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Write("age", r.NumberInput("Age", 0, 100, 10))
		return nil
	})
	press(t, a, keyEnter)
	require.Equal(t, modeEdit, a.mode)
	require.Equal(t, "10", a.input.Value())

	a.input.SetValue("42")
	press(t, a, keyEnter)
	require.Equal(t, modePage, a.mode)
	require.True(t, hasText(a, "age 42"))
}

func TestEditorStaysOpenOnInvalidInput(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Write(r.ColorPicker("Color", "#00f900"))
		return nil
	})
	press(t, a, keyEnter)
	a.input.SetValue("#12")
	press(t, a, keyEnter)
	require.Equal(t, modeEdit, a.mode)
	require.NotEmpty(t, a.status)
	require.True(t, hasText(a, "#00f900"))

	press(t, a, keyEsc)
	require.Equal(t, modePage, a.mode)
	require.True(t, hasText(a, "#00f900"))
}

func TestEditorSwallowsQuitKey(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.TextInput("Name", "")
		return nil
	})
	press(t, a, keyEnter)
	press(t, a, runes("q"))
	require.Equal(t, modeEdit, a.mode)
	require.Equal(t, "q", a.input.Value())
}

func TestStepKeysChangeSlider(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Write("v", r.Slider("Level", 0, 10, 5))
		return nil
	})
	press(t, a, tea.KeyMsg{Type: tea.KeyRight})
	require.True(t, hasText(a, "v 6"))
	press(t, a, runes("["))
	require.True(t, hasText(a, "v 0"))
}

func TestMultiSelectCursorToggles(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Write(r.MultiSelect("Pick", []string{"a", "b", "c"}, nil))
		return nil
	})
	press(t, a, tea.KeyMsg{Type: tea.KeyRight}, keyEnter)
	require.True(t, hasText(a, `["b"]`))
	press(t, a, runes("x"))
	require.True(t, hasText(a, "[]"))
}

func TestPaletteJumpsToWidget(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Header("Intro")
		r.Button("First")
		r.Header("Deep section")
		r.Checkbox("Target box", false)
		return nil
	})
	press(t, a, runes("/"))
	require.Equal(t, modePalette, a.mode)
	press(t, a, runes("targ"))
	require.Equal(t, "Target box", a.palette.shown[0].title)
	press(t, a, keyEnter)
	require.Equal(t, modePage, a.mode)
	require.Equal(t, "checkbox:Target box", a.focusKey)
}

func TestRankItemsPrefersSubstring(t *testing.T) {
	items := []paletteItem{{title: "Slider"}, {title: "Select box"}, {title: "Selected"}}
	got := rankItems(items, "sele")
	require.Equal(t, "Select box", got[0].title)
	require.Equal(t, "Selected", got[1].title)
	require.Equal(t, "Slider", got[2].title)
	require.Len(t, rankItems(items, ""), 3)
}

func TestProgressIgnoresStaleTicks(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Progress(2, time.Millisecond)
		return nil
	})
	n := a.tree.ByKey("progress:")
	require.NotNil(t, n)
	p := n.Element.(*ui.Progress)

	a.Update(progressMsg{gen: a.gen - 1, key: n.Key})
	require.Equal(t, 0, p.Value)

	_, cmd := a.Update(progressMsg{gen: a.gen, key: n.Key})
	require.Equal(t, 1, p.Value)
	require.NotNil(t, cmd)
	_, cmd = a.Update(progressMsg{gen: a.gen, key: n.Key})
	require.Equal(t, 2, p.Value)
	require.Nil(t, cmd)
}

func TestSpinnerHidesWhenDone(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Spinner("Wait", time.Minute)
		r.Success("done")
		return nil
	})
	require.Contains(t, a.viewport.View(), "Wait")
	a.Update(spinnerDoneMsg{gen: a.gen, key: "spinner:Wait"})
	require.NotContains(t, a.viewport.View(), "Wait")
}

func TestCameraProbeFailureReachesScript(t *testing.T) {
	a := New(context.Background(), Options{
		Config:  testConfig(),
		Session: session.NewMemory(),
		Camera:  media.Static{Err: os.ErrNotExist},
		Script: func(r *ui.Run) error {
			if _, err := r.CameraInput("Photo"); err != nil {
				r.Write("no camera")
			}
			return nil
		},
	})
	a.Init()
	require.True(t, hasText(a, "no camera"))
}

func TestCaptureFailureFallsBack(t *testing.T) {
	a := New(context.Background(), Options{
		Config:  testConfig(),
		Session: session.NewMemory(),
		Camera:  failingCapture{err: errors.New("permission denied")},
		Script: func(r *ui.Run) error {
			if _, err := r.CameraInput("Photo"); err != nil {
				r.Write("no camera")
			}
			return nil
		},
	})
	a.Init()
	require.NotNil(t, a.tree.ByKey("camera_input:Photo"))

	press(t, a, keyEnter)
	msg := a.capture("camera_input:Photo")()
	a.Update(msg)

	require.Contains(t, a.status, "permission denied")
	require.True(t, hasText(a, "no camera"))
	require.Nil(t, a.tree.ByKey("camera_input:Photo"))
	require.ErrorIs(t, a.probe.Probe(), media.ErrCameraUnavailable)
}

// failingCapture probes fine but cannot take a picture.
type failingCapture struct{ err error }

func (c failingCapture) Probe() error { return nil }

func (c failingCapture) Capture(context.Context) (image.Image, error) { return nil, c.err }

func TestWriteDownloadRecordsFile(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open("file:" + filepath.Join(t.TempDir(), "dl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))
	store, err := session.NewSQL(ctx, db)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Export.Dir = filepath.Join(t.TempDir(), "out")
	repo := repository.NewDownloadRepo(db)
	a := New(ctx, Options{
		Config:    cfg,
		Session:   store,
		Downloads: repo,
		Script: func(r *ui.Run) error {
			r.DownloadButton("Get", []byte("a,b\n1,2\n"), "../sample.csv", "text/csv")
			return nil
		},
	})
	a.Init()

	cmd := press(t, a, keyEnter)
	require.NotNil(t, cmd)
	msg := a.writeDownload(ui.Download{FileName: "../sample.csv", MIME: "text/csv", Data: []byte("a,b\n1,2\n")})()
	dm, ok := msg.(downloadMsg)
	require.True(t, ok)
	require.NoError(t, dm.err)
	require.Equal(t, filepath.Join(cfg.Export.Dir, "sample.csv"), dm.path)
	require.Equal(t, 1, dm.count)
	a.Update(dm)
	require.Contains(t, a.status, "(1 this session)")
	require.Contains(t, a.View(), "run 2")

	data, err := os.ReadFile(dm.path)
	require.NoError(t, err)
	require.Equal(t, "a,b\n1,2\n", string(data))

	rows, err := repo.List(ctx, store.ID())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "text/csv", rows[0].MIME)
	require.EqualValues(t, 8, rows[0].Size)
}

func TestReadUploadDetectsType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x":1}`), 0o600))
	msg := readUpload("file_uploader:Upload", path)().(fileMsg)
	require.NoError(t, msg.err)
	require.Equal(t, "notes.json", msg.file.Name)
	require.Equal(t, "application/json", msg.file.Type)
	require.EqualValues(t, 7, msg.file.Size)

	bare := filepath.Join(t.TempDir(), "README")
	require.NoError(t, os.WriteFile(bare, []byte("plain words"), 0o600))
	msg = readUpload("file_uploader:Upload", bare)().(fileMsg)
	require.NoError(t, msg.err)
	require.Contains(t, msg.file.Type, "text/plain")
}

func TestViewShowsSidebarBesideMain(t *testing.T) {
	a := newTestApp(t, func(r *ui.Run) error {
		r.Sidebar().Title("Side")
		r.Title("Main")
		return nil
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	require.True(t, a.sidebarVisible())
	v := a.View()
	require.Contains(t, v, "Side")
	require.Contains(t, v, "Main")

	a.Update(tea.WindowSizeMsg{Width: 50, Height: 40})
	require.False(t, a.sidebarVisible())
	require.Contains(t, a.viewport.View(), "Side")
}
