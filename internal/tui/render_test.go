package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/widgetdemo/internal/sample"
	"github.com/jask/widgetdemo/internal/ui"
)

func execute(t *testing.T, script ui.Script) *ui.Tree {
	t.Helper()
	tree, err := ui.Execute(script, ui.Env{State: ui.NewState()})
	require.NoError(t, err)
	return tree
}

func frame(t *testing.T) *sample.Frame {
	t.Helper()
	f, err := sample.FromRows([]string{"a", "b"}, [][]float64{{1, -2}, {3, 4}, {0.5, 1}})
	require.NoError(t, err)
	return f
}

func TestRenderDrawsEveryBlock(t *testing.T) {
	f := frame(t)
	tree := execute(t, func(r *ui.Run) error {
		r.Sidebar().Header("Side panel")
		r.Title("Widgets")
		r.Code("print(1)", "python")
		r.Latex(`a + b^2`)
		r.Info("heads up")
		r.Checkbox("Agree", true)
		r.Radio("Pick", []string{"x", "y"})
		r.Table(f)
		r.DataFrame(f)
		r.LineChart(f)
		r.BarChart(f)
		return nil
	})
	out := ansi.Strip(Render(tree, 80, "notty"))

	require.Less(t, strings.Index(out, "Side panel"), strings.Index(out, "Widgets"))
	require.Contains(t, out, "print(1)")
	require.Contains(t, out, "a + b²")
	require.Contains(t, out, "heads up")
	require.Contains(t, out, "[x] Agree")
	require.Contains(t, out, "(•) x")
	require.Contains(t, out, "3.0000")
	require.Contains(t, out, "-2.0000")
}

func TestRenderSkipsFinishedSpinner(t *testing.T) {
	tree := execute(t, func(r *ui.Run) error {
		r.Spinner("Loading", 0)
		r.Success("done")
		return nil
	})
	out := ansi.Strip(Render(tree, 60, "notty"))
	require.NotContains(t, out, "Loading")
	require.Contains(t, out, "done")
}

func TestRenderDrawsProgressComplete(t *testing.T) {
	tree := execute(t, func(r *ui.Run) error {
		r.Progress(100, time.Millisecond)
		return nil
	})
	out := ansi.Strip(Render(tree, 60, "notty"))
	require.Contains(t, out, "█")
	require.NotContains(t, out, "░")
}

func TestRenderImageData(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	tree := execute(t, func(r *ui.Run) error {
		r.ImageData(img, "red square")
		r.Image("https://example.com/x.png", "")
		return nil
	})
	out := ansi.Strip(Render(tree, 40, "notty"))
	require.Contains(t, out, "▀")
	require.Contains(t, out, "red square")
	require.Contains(t, out, "[image] https://example.com/x.png")
}

func TestRenderPageOffsetsFollowBlocks(t *testing.T) {
	tree := execute(t, func(r *ui.Run) error {
		r.Header("One")
		r.Write("line")
		r.Header("Two")
		return nil
	})
	rd := newRenderer("notty")
	_, offsets := rd.page(tree.Main, 40)
	one := tree.Find(ui.KindHeading, "One")
	para := tree.Main.Children[1]
	two := tree.Find(ui.KindHeading, "Two")
	require.Equal(t, 0, offsets[one])
	want := lipgloss.Height(rd.node(one, 40)) + 1 + lipgloss.Height(rd.node(para, 40)) + 1
	require.Equal(t, want, offsets[two])
}

func TestLatexText(t *testing.T) {
	require.Equal(t, "x²", latexText("x^2"))
}

func TestChartRendersLegendForEachSeries(t *testing.T) {
	f := frame(t)
	c := &ui.Chart{Type: ui.ChartArea, Data: f}
	out := ansi.Strip(renderChart(c, 60, chartHeight, newStyles()))
	require.Contains(t, out, "a")
	require.Contains(t, out, "b")
	require.GreaterOrEqual(t, strings.Count(out, "\n"), chartHeight-1)
}

func TestOverlayKeepsBaseOutsideBox(t *testing.T) {
	base := strings.Join([]string{"aaaaaaaa", "bbbbbbbb", "cccccccc"}, "\n")
	got := overlayAt(base, "XY", 3, 1, 8, 3)
	lines := strings.Split(got, "\n")
	require.Equal(t, "aaaaaaaa", lines[0])
	require.Equal(t, "bbbXYbbb", lines[1])
	require.Equal(t, "cccccccc", lines[2])
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "ab…", truncate("abcdef", 3))
	require.Equal(t, "", truncate("abc", 0))
}
