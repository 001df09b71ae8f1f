package tui

import (
	"strings"

	"github.com/jask/widgetdemo/internal/media"
	"github.com/jask/widgetdemo/internal/ui"
)

// Render draws a tree once without a terminal program, sidebar first.
// Nothing animates: spinners are done and progress bars are full. Images
// already decoded into the tree are drawn; remote sources are listed by URL.
func Render(t *ui.Tree, width int, mdStyle string) string {
	for _, n := range t.All(ui.KindProgress) {
		p := n.Element.(*ui.Progress)
		p.Value = p.Steps
	}
	r := newRenderer(mdStyle)
	r.spinning = nil
	r.media = func(_ *ui.Node, m *ui.Media, w int) string {
		if m.Image != nil {
			return media.HalfBlock(m.Image, min(w, maxImageWidth))
		}
		return r.st.muted.Render("[image] " + truncate(m.Source, w-8))
	}
	var parts []string
	if len(t.Sidebar.Children) > 0 {
		side, _ := r.page(t.Sidebar, width)
		parts = append(parts, r.st.sidebar.Render(side))
	}
	main, _ := r.page(t.Main, width)
	parts = append(parts, main)
	return strings.Join(parts, "\n\n") + "\n"
}
