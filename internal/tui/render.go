package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/jask/widgetdemo/internal/ui"
)

// renderer turns a ui tree into terminal text. The App fills in focus,
// cursors and animation frames before each render.
type renderer struct {
	st        styles
	focus     string
	optCursor int
	mdStyle   string
	md        map[int]*glamour.TermRenderer
	media     func(n *ui.Node, m *ui.Media, width int) string
	cursors   map[string]int
	spinning  map[string]bool
	spinner   string
	bar       progress.Model
}

func newRenderer(mdStyle string) *renderer {
	if mdStyle == "" {
		mdStyle = "dark"
	}
	return &renderer{
		st:       newStyles(),
		mdStyle:  mdStyle,
		md:       map[int]*glamour.TermRenderer{},
		cursors:  map[string]int{},
		spinning: map[string]bool{},
		spinner:  "⠋",
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// page renders the children of root and returns the first line of every
// node so the viewport can follow focus.
func (r *renderer) page(root *ui.Node, width int) (string, map[*ui.Node]int) {
	offsets := map[*ui.Node]int{}
	var blocks []string
	line := 0
	for _, c := range root.Children {
		s := r.node(c, width)
		if s == "" {
			continue
		}
		walkNodes(c, func(n *ui.Node) { offsets[n] = line })
		blocks = append(blocks, s)
		line += lipgloss.Height(s) + 1
	}
	return strings.Join(blocks, "\n\n"), offsets
}

func walkNodes(n *ui.Node, fn func(*ui.Node)) {
	fn(n)
	for _, c := range n.Children {
		walkNodes(c, fn)
	}
}

func (r *renderer) children(n *ui.Node, width int) string {
	var parts []string
	for _, c := range n.Children {
		if s := r.node(c, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (r *renderer) node(n *ui.Node, width int) string {
	width = max(width, 10)
	focused := n.Key != "" && n.Key == r.focus
	switch el := n.Element.(type) {
	case *ui.Heading:
		text := lipgloss.NewStyle().Width(width).Render(el.Text)
		switch el.Level {
		case 1:
			return r.st.title.Render(text) + "\n" + r.st.title.Render(strings.Repeat("━", min(width, lipgloss.Width(el.Text)+2)))
		case 2:
			return r.st.header.Render(text) + "\n" + r.st.muted.Render(strings.Repeat("─", width))
		default:
			return r.st.subheader.Render(text)
		}

	case *ui.Paragraph:
		return r.st.text.Width(width).Render(el.Text)

	case *ui.Text:
		return r.st.text.Render(truncateLines(el.Body, width))

	case *ui.Markdown:
		return r.markdown(el.Body, width)

	case *ui.Code:
		body := r.st.code.Width(width - 2).Render(el.Body)
		if el.Language == "" {
			return body
		}
		return r.st.muted.Render(el.Language) + "\n" + body

	case *ui.Latex:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Italic(true).Foreground(colorText).Render(latexText(el.Expr)))

	case *ui.Alert:
		return r.st.alerts[string(el.Level)].Width(width - 1).Render(alertIcon(el.Level) + " " + el.Body)

	case *ui.Divider:
		return r.st.muted.Render(strings.Repeat("─", width))

	case *ui.Button:
		return r.button(el.Label, focused)

	case *ui.FormSubmit:
		return r.button(el.Label, focused)

	case *ui.DownloadButton:
		return r.button("↓ "+el.Label, focused)

	case *ui.Checkbox:
		mark := "[ ]"
		if el.Checked {
			mark = r.st.active.Render("[x]")
		}
		return r.focusable(mark+" "+el.Label, focused)

	case *ui.Radio:
		return r.labelled(el.Label, focused, r.options(el.Options, el.Index, "(•)", "( )"), width)

	case *ui.SelectBox:
		return r.labelled(el.Label, focused, r.st.control.Render(" "+optionLabel(el.Options, el.Index)+" ▾ "), width)

	case *ui.MultiSelect:
		return r.labelled(el.Label, focused, r.chips(el, focused), width)

	case *ui.TextInput:
		boxW := min(width, 48)
		value := el.Value
		if value == "" {
			value = r.st.muted.Render("…")
		}
		if el.Multiline {
			boxW = width
		}
		box := r.st.control.Width(boxW).Render(value)
		return r.labelled(el.Label, focused, box, width)

	case *ui.Number:
		if el.Slider {
			return r.labelled(el.Label, focused, r.slider(el, width), width)
		}
		body := r.st.control.Render(" ‹ "+strconv.Itoa(el.Value)+" › ") + r.st.muted.Render(fmt.Sprintf("  %d–%d", el.Min, el.Max))
		return r.labelled(el.Label, focused, body, width)

	case *ui.DateInput:
		return r.labelled(el.Label, focused, r.st.control.Render(" "+el.Value.Format(ui.DateLayout)+" "), width)

	case *ui.TimeInput:
		return r.labelled(el.Label, focused, r.st.control.Render(" "+el.Value.String()+" "), width)

	case *ui.FileUploader:
		body := r.st.control.Render(" ⇪ Browse files ")
		if len(el.Types) > 0 {
			body += r.st.muted.Render("  " + strings.Join(el.Types, ", "))
		}
		if el.File != nil {
			body = r.st.active.Render(el.File.Name) + r.st.muted.Render(fmt.Sprintf("  %d bytes  (x: remove)", el.File.Size))
		}
		return r.labelled(el.Label, focused, body, width)

	case *ui.ColorPicker:
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(el.Hex)).Render("████")
		return r.labelled(el.Label, focused, swatch+" "+el.Hex, width)

	case *ui.Form:
		return r.st.form.Width(width - 2).Render(r.children(n, width-4))

	case *ui.Columns:
		return r.columns(n, width)

	case *ui.Column:
		return r.children(n, width)

	case *ui.Expander:
		arrow := "▸ "
		if el.Expanded {
			arrow = "▾ "
		}
		head := r.focusable(arrow+el.Label, focused)
		if !el.Expanded {
			return head
		}
		body := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorSurface1).
			PaddingLeft(1).
			Render(r.children(n, width-2))
		return head + "\n" + body

	case *ui.Media:
		return r.mediaNode(n, el, width, focused)

	case *ui.DataFrame:
		if el.Static {
			return r.staticTable(el.Data, width)
		}
		return r.dataframe(n, el, width, focused)

	case *ui.Chart:
		return renderChart(el, width, chartHeight, r.st)

	case *ui.Map:
		return renderMap(el, width, mapHeight, r.st)

	case *ui.Spinner:
		if !r.spinning[n.Key] {
			return ""
		}
		return r.st.active.Render(r.spinner) + " " + r.st.text.Render(el.Label)

	case *ui.Progress:
		r.bar.Width = min(width, 60)
		pct := 0.0
		if el.Steps > 0 {
			pct = float64(el.Value) / float64(el.Steps)
		}
		return r.bar.ViewAs(pct)

	case *ui.CameraInput:
		body := r.st.control.Render(" ◉ Take photo ")
		if el.Shot != nil {
			body = r.st.muted.Render("captured " + el.Shot.TakenAt.Format("15:04:05") + "  (enter: retake, x: clear)")
		}
		return r.labelled(el.Label, focused, body, width)

	case *ui.Exception:
		msg := el.Err.Error()
		if el.Stack != "" {
			msg += "\n" + firstLines(el.Stack, 6)
		}
		return r.st.alerts["error"].Width(width - 1).Render(msg)
	}
	return ""
}

func (r *renderer) button(label string, focused bool) string {
	s := " " + label + " "
	if focused {
		return r.st.focused.Render(s)
	}
	return r.st.control.Render(s)
}

func (r *renderer) focusable(s string, focused bool) string {
	if focused {
		return r.st.focused.Render(s)
	}
	return r.st.text.Render(s)
}

func (r *renderer) labelled(label string, focused bool, body string, width int) string {
	head := r.st.label.Render(truncate(label, width))
	if focused {
		head = r.st.focused.Render(truncate(label, width))
	}
	return head + "\n" + body
}

func (r *renderer) options(opts []string, selected int, on, off string) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		if i == selected {
			parts[i] = r.st.active.Render(on + " " + o)
		} else {
			parts[i] = r.st.text.Render(off + " " + o)
		}
	}
	return strings.Join(parts, "  ")
}

func (r *renderer) chips(m *ui.MultiSelect, focused bool) string {
	parts := make([]string, len(m.Options))
	for i, o := range m.Options {
		style := r.st.muted
		text := "[" + o + "]"
		if m.IsSelected(i) {
			style = r.st.active
			text = "[" + o + " ✕]"
		}
		if focused && i == r.optCursor {
			style = style.Underline(true)
		}
		parts[i] = style.Render(text)
	}
	return strings.Join(parts, " ")
}

func (r *renderer) slider(n *ui.Number, width int) string {
	lo, hi := strconv.Itoa(n.Min), strconv.Itoa(n.Max)
	track := max(10, min(40, width-len(lo)-len(hi)-10))
	pos := 0
	if n.Max > n.Min {
		pos = (n.Value - n.Min) * (track - 1) / (n.Max - n.Min)
	}
	bar := r.st.active.Render(strings.Repeat("━", pos)+"●") + r.st.muted.Render(strings.Repeat("─", track-1-pos))
	return r.st.muted.Render(lo+" ") + bar + r.st.muted.Render(" "+hi) + "  " + r.st.active.Render(strconv.Itoa(n.Value))
}

func (r *renderer) columns(n *ui.Node, width int) string {
	cols := n.Children
	if len(cols) == 0 {
		return ""
	}
	const gap = 3
	cw := max(10, (width-gap*(len(cols)-1))/len(cols))
	rendered := make([]string, 0, len(cols)*2)
	for i, c := range cols {
		if i > 0 {
			rendered = append(rendered, strings.Repeat(" ", gap))
		}
		rendered = append(rendered, lipgloss.NewStyle().Width(cw).Render(r.children(c, cw)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (r *renderer) markdown(body string, width int) string {
	md, ok := r.md[width]
	if !ok {
		var err error
		md, err = glamour.NewTermRenderer(glamour.WithStandardStyle(r.mdStyle), glamour.WithWordWrap(width))
		if err != nil {
			md = nil
		}
		r.md[width] = md
	}
	if md == nil {
		return r.st.text.Width(width).Render(body)
	}
	out, err := md.Render(body)
	if err != nil {
		return r.st.text.Width(width).Render(body)
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.TrimLeft(strings.Join(lines, "\n"), "\n")
}

func (r *renderer) mediaNode(n *ui.Node, m *ui.Media, width int, focused bool) string {
	var body string
	switch m.Type {
	case ui.MediaAudio:
		body = r.st.active.Render("♪ ") + r.st.text.Render("0:00 ") + r.st.muted.Render(strings.Repeat("─", min(30, width/2))) + "\n" + r.st.muted.Render(truncate(m.Source, width))
	case ui.MediaVideo:
		body = r.st.active.Render("▶ video") + "\n" + r.st.muted.Render(truncate(m.Source, width))
	default:
		if r.media != nil {
			body = r.media(n, m, width)
		} else {
			body = r.st.muted.Render("[image] " + truncate(m.Source, width-8))
		}
	}
	if m.Caption != "" {
		body += "\n" + r.st.muted.Italic(true).Render(m.Caption)
	}
	if focused {
		body = r.st.focused.Render("o: open") + "\n" + body
	}
	return body
}

func (r *renderer) dataframe(n *ui.Node, d *ui.DataFrame, width int, focused bool) string {
	names := d.Data.Columns()
	rows, cols := d.Data.Dims()
	colW := max(6, min(12, (width-10)/max(1, cols)))
	tcols := []table.Column{{Title: "", Width: 4}}
	for _, c := range names {
		tcols = append(tcols, table.Column{Title: c, Width: colW})
	}
	trows := make([]table.Row, rows)
	for i := range trows {
		row := table.Row{strconv.Itoa(i)}
		for j := 0; j < cols; j++ {
			row = append(row, formatCell(d.Data.At(i, j)))
		}
		trows[i] = row
	}
	t := table.New(
		table.WithColumns(tcols),
		table.WithRows(trows),
		table.WithHeight(min(rows, dataFrameRows)+1),
		table.WithFocused(focused),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(colorMauve).BorderForeground(colorSurface2)
	s.Selected = s.Selected.Foreground(colorBase).Background(colorFocus)
	if !focused {
		s.Selected = s.Cell
	}
	t.SetStyles(s)
	t.SetCursor(r.cursors[n.Key])
	frame := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1)
	if focused {
		frame = frame.BorderForeground(colorFocus)
	}
	return frame.Render(t.View()) + "\n" + r.st.muted.Render(fmt.Sprintf("%d rows × %d columns", rows, cols))
}

func (r *renderer) staticTable(data ui.Tabular, width int) string {
	names := data.Columns()
	rows, cols := data.Dims()
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSurface2)).
		Headers(append([]string{""}, names...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorMauve).Padding(0, 1)
			}
			if col == 0 {
				return r.st.muted.Padding(0, 1)
			}
			return r.st.text.Padding(0, 1).Align(lipgloss.Right)
		})
	for i := 0; i < rows; i++ {
		cells := []string{strconv.Itoa(i)}
		for j := 0; j < cols; j++ {
			cells = append(cells, formatCell(data.At(i, j)))
		}
		t.Row(cells...)
	}
	return truncateLines(t.Render(), width)
}

const (
	chartHeight   = 12
	mapHeight     = 14
	dataFrameRows = 10
)

func formatCell(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

func optionLabel(opts []string, i int) string {
	if i < 0 || i >= len(opts) {
		return ""
	}
	return opts[i]
}

func alertIcon(l ui.AlertLevel) string {
	switch l {
	case ui.AlertSuccess:
		return "✔"
	case ui.AlertWarning:
		return "⚠"
	case ui.AlertError:
		return "✖"
	default:
		return "ℹ"
	}
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', 'n': 'ⁿ',
}

// latexText renders simple expressions: single-character exponents
// become superscripts and backslash commands lose their backslash.
func latexText(expr string) string {
	var b strings.Builder
	rs := []rune(expr)
	for i := 0; i < len(rs); i++ {
		switch {
		case rs[i] == '^' && i+1 < len(rs):
			if sup, ok := superscripts[rs[i+1]]; ok {
				b.WriteRune(sup)
				i++
				continue
			}
			b.WriteRune('^')
		case rs[i] == '\\':
		case rs[i] == '{' || rs[i] == '}':
		default:
			b.WriteRune(rs[i])
		}
	}
	return b.String()
}

func truncateLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = truncate(l, width)
	}
	return strings.Join(lines, "\n")
}

func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
