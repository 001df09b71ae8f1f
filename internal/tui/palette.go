package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/widgetdemo/internal/ui"
)

const paletteRows = 10

type paletteItem struct {
	node  *ui.Node
	title string
	kind  ui.Kind
}

// palette is the jump-to list over headings and focusable widgets.
type palette struct {
	query  textinput.Model
	items  []paletteItem
	shown  []paletteItem
	cursor int
}

func paletteItems(t *ui.Tree) []paletteItem {
	var out []paletteItem
	focusable := map[*ui.Node]bool{}
	for _, n := range t.Focusable() {
		focusable[n] = true
	}
	t.Walk(func(n *ui.Node) bool {
		if h, ok := n.Element.(*ui.Heading); ok {
			out = append(out, paletteItem{node: n, title: h.Text, kind: n.Element.Kind()})
			return true
		}
		if focusable[n] {
			title := n.Label()
			if title == "" {
				title = n.Key
			}
			out = append(out, paletteItem{node: n, title: title, kind: n.Element.Kind()})
		}
		return true
	})
	return out
}

// rankItems keeps every item, substring matches first, the rest ordered
// by edit distance to the query.
func rankItems(items []paletteItem, query string) []paletteItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]paletteItem(nil), items...)
	}
	type scored struct {
		item  paletteItem
		match bool
		dist  int
		pos   int
	}
	all := make([]scored, len(items))
	for i, it := range items {
		title := strings.ToLower(it.title)
		all[i] = scored{
			item:  it,
			match: strings.Contains(title, q),
			dist:  levenshtein.ComputeDistance(q, title),
			pos:   i,
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.match != b.match {
			return a.match
		}
		if a.match {
			return a.pos < b.pos
		}
		return a.dist < b.dist
	})
	out := make([]paletteItem, len(all))
	for i, s := range all {
		out[i] = s.item
	}
	return out
}

func (a *App) openPalette() tea.Cmd {
	q := textinput.New()
	q.Prompt = "/ "
	q.Placeholder = "jump to…"
	q.Width = 40
	items := paletteItems(a.tree)
	a.palette = palette{query: q, items: items, shown: items}
	a.mode = modePalette
	return a.palette.query.Focus()
}

func (a *App) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &a.palette
	if b := a.keys.lookup(msg.String(), scopePalette); b != nil {
		switch b.Action {
		case actionCancel:
			a.mode = modePage
			return a, nil
		case actionNavigate:
			if len(p.shown) == 0 {
				return a, nil
			}
			switch msg.String() {
			case "up", "ctrl+p":
				p.cursor = (p.cursor - 1 + len(p.shown)) % len(p.shown)
			default:
				p.cursor = (p.cursor + 1) % len(p.shown)
			}
			return a, nil
		case actionCommit:
			a.mode = modePage
			if p.cursor < len(p.shown) {
				a.jump(p.shown[p.cursor].node)
			}
			return a, nil
		}
	}
	var cmd tea.Cmd
	p.query, cmd = p.query.Update(msg)
	p.shown = rankItems(p.items, p.query.Value())
	p.cursor = 0
	return a, cmd
}

// jump focuses n when it takes focus and scrolls it into view.
func (a *App) jump(n *ui.Node) {
	for i, f := range a.focusable {
		if f == n {
			a.setFocus(i)
			return
		}
	}
	if line, ok := a.offsets[n]; ok {
		a.viewport.SetYOffset(line)
	}
}

func (a *App) paletteView() string {
	p := a.palette
	var b strings.Builder
	b.WriteString(p.query.View())
	start := 0
	if p.cursor >= paletteRows {
		start = p.cursor - paletteRows + 1
	}
	for i := start; i < len(p.shown) && i < start+paletteRows; i++ {
		it := p.shown[i]
		line := truncate(it.title, 40) + "  " + a.r.st.muted.Render(string(it.kind))
		if i == p.cursor {
			line = a.r.st.focused.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString("\n" + line)
	}
	if len(p.shown) == 0 {
		b.WriteString("\n" + a.r.st.muted.Render("nothing to jump to"))
	}
	return a.r.st.modal.Render(b.String())
}
