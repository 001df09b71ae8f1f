package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/widgetdemo/internal/database"
	"github.com/jask/widgetdemo/internal/database/repository"
	"github.com/jask/widgetdemo/internal/media"
	"github.com/jask/widgetdemo/internal/ui"
)

const maxImageWidth = 60

// loadImages starts a fetch for every image source not seen before.
func (a *App) loadImages() []tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range a.tree.All(ui.KindImage) {
		m := n.Element.(*ui.Media)
		if m.Source == "" || a.images[m.Source] != nil {
			continue
		}
		if a.opts.Loader == nil {
			a.images[m.Source] = &imageEntry{err: media.ErrFetchDisabled}
			continue
		}
		a.images[m.Source] = &imageEntry{loading: true}
		loader, ctx, src := a.opts.Loader, a.ctx, m.Source
		cmds = append(cmds, func() tea.Msg {
			img, err := loader.Load(ctx, src)
			return mediaMsg{src: src, img: img, err: err}
		})
	}
	return cmds
}

func (a *App) renderImage(_ *ui.Node, m *ui.Media, width int) string {
	w := min(width, maxImageWidth)
	if m.Image != nil {
		return media.HalfBlock(m.Image, w)
	}
	e := a.images[m.Source]
	switch {
	case e == nil || e.loading:
		return a.r.st.muted.Render("loading image…")
	case e.err != nil:
		return a.r.st.muted.Render(truncate("[image] "+m.Source, width)) + "\n" + a.r.st.errorText.Render(truncate(e.err.Error(), width))
	}
	if e.cache == nil {
		e.cache = map[int]string{}
	}
	if s, ok := e.cache[w]; ok {
		return s
	}
	s := media.HalfBlock(e.img, w)
	e.cache[w] = s
	return s
}

// capture grabs one frame for the camera input under key.
func (a *App) capture(key string) tea.Cmd {
	cam := a.opts.Camera
	if cam == nil {
		a.status = ui.ErrNoCamera.Error()
		return nil
	}
	ctx, timeout := a.ctx, a.opts.Config.Camera.Timeout
	a.status = "capturing…"
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		img, err := cam.Capture(ctx)
		if err == nil && img == nil {
			err = errors.New("camera returned no frame")
		}
		return captureMsg{key: key, img: img, err: err}
	}
}

// writeDownload saves a clicked download into the export directory and
// records it when a download repository is configured.
func (a *App) writeDownload(d ui.Download) tea.Cmd {
	dir, repo, ctx := a.opts.Config.Export.Dir, a.opts.Downloads, a.ctx
	sessionID := ""
	if a.opts.Session != nil {
		sessionID = a.opts.Session.ID()
	}
	return func() tea.Msg {
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return downloadMsg{err: err}
		}
		path := filepath.Join(dir, filepath.Base(d.FileName))
		if err := os.WriteFile(path, d.Data, 0o644); err != nil {
			return downloadMsg{err: fmt.Errorf("write %s: %w", path, err)}
		}
		if repo != nil && sessionID != "" {
			err := repo.Insert(ctx, repository.Download{
				ID:        uuid.NewString(),
				SessionID: sessionID,
				FileName:  d.FileName,
				MIME:      d.MIME,
				Size:      int64(len(d.Data)),
				Path:      path,
				CreatedAt: database.Now(),
			})
			if err != nil {
				return downloadMsg{path: path, err: fmt.Errorf("record download: %w", err)}
			}
			rows, err := repo.List(ctx, sessionID)
			if err != nil {
				return downloadMsg{path: path, err: fmt.Errorf("list downloads: %w", err)}
			}
			return downloadMsg{path: path, count: len(rows)}
		}
		return downloadMsg{path: path}
	}
}
