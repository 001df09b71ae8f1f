package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/canvas"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/widgetdemo/internal/ui"
)

// Chart x values are row indices. They are carried through the time-series
// chart as seconds after the epoch.
func xTime(x float64) time.Time { return time.Unix(int64(math.Round(x)), 0) }

func indexLabel(_ int, v float64) string { return strconv.Itoa(int(math.Round(v))) }

func valueLabel(_ int, v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

type bounds struct{ minX, maxX, minY, maxY float64 }

func seriesBounds(names []string, pts map[string][]ui.Point) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	n := 0
	for _, name := range names {
		for _, p := range pts[name] {
			b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
			b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
			n++
		}
	}
	if n == 0 {
		return b, false
	}
	if b.maxX == b.minX {
		b.maxX = b.minX + 1
	}
	if b.maxY == b.minY {
		b.minY, b.maxY = b.minY-1, b.maxY+1
	}
	return b, true
}

func renderChart(c *ui.Chart, width, height int, st styles) string {
	names, pts := c.Series()
	b, ok := seriesBounds(names, pts)
	if !ok {
		return st.muted.Render("no data")
	}
	var body string
	switch c.Type {
	case ui.ChartBar:
		body = barChart(names, pts, b, width, height, st)
	default:
		body = lineChart(names, pts, b, width, height, st, c.Type == ui.ChartArea)
	}
	if c.Title != "" {
		body = st.subheader.Render(c.Title) + "\n" + body
	}
	return body + "\n" + legend(names)
}

func lineChart(names []string, pts map[string][]ui.Point, b bounds, width, height int, st styles, fill bool) string {
	if fill {
		b.minY = math.Min(b.minY, 0)
		b.maxY = math.Max(b.maxY, 0)
	}
	chart := tslc.New(width, height)
	chart.SetXStep(2)
	chart.SetYStep(2)
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorSurface2)
	chart.LabelStyle = st.muted
	chart.SetTimeRange(xTime(b.minX), xTime(b.maxX))
	chart.SetViewTimeRange(xTime(b.minX), xTime(b.maxX))
	chart.SetYRange(b.minY, b.maxY)
	chart.SetViewYRange(b.minY, b.maxY)
	chart.Model.XLabelFormatter = indexLabel
	chart.Model.YLabelFormatter = valueLabel

	for i, name := range names {
		chart.SetDataSetStyle(name, lipgloss.NewStyle().Foreground(seriesColor(i)))
		for _, p := range pts[name] {
			chart.PushDataSet(name, tslc.TimePoint{Time: xTime(p.X), Value: p.Y})
		}
	}
	chart.DrawBrailleAll()
	if fill {
		for i, name := range names {
			fillArea(&chart, pts[name], lipgloss.NewStyle().Foreground(seriesColor(i)))
		}
	}
	return chart.View()
}

// chartPoint maps a data point to its canvas cell.
func chartPoint(chart *tslc.Model, x, y float64) canvas.Point {
	scaled := chart.ScaleFloat64Point(canvas.Float64Point{X: float64(xTime(x).Unix()), Y: y})
	p := canvas.CanvasPointFromFloat64Point(chart.Origin(), scaled)
	if chart.YStep() > 0 {
		p.X++
	}
	if chart.XStep() > 0 {
		p.Y--
	}
	return p
}

// fillArea shades the empty cells between a series and the zero line.
func fillArea(chart *tslc.Model, pts []ui.Point, style lipgloss.Style) {
	if len(pts) < 2 {
		return
	}
	origin := chart.Origin()
	top := max(0, origin.Y-chart.GraphHeight())
	zero := chartPoint(chart, pts[0].X, 0).Y
	for k := 1; k < len(pts); k++ {
		p0 := chartPoint(chart, pts[k-1].X, pts[k-1].Y)
		p1 := chartPoint(chart, pts[k].X, pts[k].Y)
		for x := p0.X; x <= p1.X; x++ {
			if x <= origin.X || x >= chart.Width() {
				continue
			}
			y := p0.Y
			if p1.X != p0.X {
				y = p0.Y + (p1.Y-p0.Y)*(x-p0.X)/(p1.X-p0.X)
			}
			lo, hi := min(y, zero), max(y, zero)
			for cy := max(lo, top); cy <= hi && cy < origin.Y; cy++ {
				cell := canvas.Point{X: x, Y: cy}
				if chart.Canvas.Cell(cell).Rune != 0 {
					continue
				}
				chart.Canvas.SetRuneWithStyle(cell, '░', style)
			}
		}
	}
}

// barChart stacks the series per row. Bars cannot go below zero, so values
// are measured from the smallest value when it is negative.
func barChart(names []string, pts map[string][]ui.Point, b bounds, width, height int, st styles) string {
	base := math.Min(b.minY, 0)
	rows := 0
	for _, name := range names {
		rows = max(rows, len(pts[name]))
	}
	data := make([]barchart.BarData, rows)
	for i := range data {
		data[i].Label = strconv.Itoa(i)
		for j, name := range names {
			if i >= len(pts[name]) {
				continue
			}
			data[i].Values = append(data[i].Values, barchart.BarValue{
				Name:  name,
				Value: pts[name][i].Y - base,
				Style: lipgloss.NewStyle().Foreground(seriesColor(j)),
			})
		}
	}
	bc := barchart.New(width, height,
		barchart.WithStyles(lipgloss.NewStyle().Foreground(colorSurface2), st.muted),
		barchart.WithBarGap(1),
	)
	bc.PushAll(data)
	bc.Draw()
	out := bc.View()
	if base < 0 {
		out += "\n" + st.muted.Render(fmt.Sprintf("baseline %.2f", base))
	}
	return out
}

func legend(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = lipgloss.NewStyle().Foreground(seriesColor(i)).Render("■") + " " + n
	}
	return strings.Join(parts, "  ")
}

// renderMap scatters points on a canvas fitted to their bounding box.
func renderMap(m *ui.Map, width, height int, st styles) string {
	if len(m.Points) == 0 {
		return st.muted.Render("no points")
	}
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for _, p := range m.Points {
		minLat, maxLat = math.Min(minLat, p.Lat), math.Max(maxLat, p.Lat)
		minLon, maxLon = math.Min(minLon, p.Lon), math.Max(maxLon, p.Lon)
	}
	latSpan, lonSpan := math.Max(maxLat-minLat, 1e-9), math.Max(maxLon-minLon, 1e-9)

	w, h := max(4, width-2), max(4, height-2)
	cv := canvas.New(w, h)
	dot := lipgloss.NewStyle().Foreground(colorRed)
	for _, p := range m.Points {
		x := int(math.Round((p.Lon - minLon) / lonSpan * float64(w-1)))
		y := h - 1 - int(math.Round((p.Lat-minLat)/latSpan*float64(h-1)))
		cv.SetRuneWithStyle(canvas.Point{X: x, Y: y}, '●', dot)
	}
	frame := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1)
	caption := fmt.Sprintf("%d points  lat %.3f–%.3f  lon %.3f–%.3f", len(m.Points), minLat, maxLat, minLon, maxLon)
	return frame.Render(cv.View()) + "\n" + st.muted.Render(caption)
}
