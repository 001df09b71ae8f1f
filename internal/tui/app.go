// Package tui hosts a ui script in a Bubble Tea program. Every
// interaction is applied to the widget state and, when it needs one,
// followed by a fresh run of the script.
package tui

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/widgetdemo/internal/config"
	"github.com/jask/widgetdemo/internal/database/repository"
	"github.com/jask/widgetdemo/internal/media"
	"github.com/jask/widgetdemo/internal/session"
	"github.com/jask/widgetdemo/internal/ui"
)

// Options wires an App.
type Options struct {
	Config    config.Config
	Script    ui.Script
	Session   session.Store
	Camera    media.Camera
	Loader    *media.Loader
	Downloads *repository.DownloadRepo
	// Open shows a URL outside the terminal. Defaults to media.OpenURL.
	Open func(url string) error
}

type mode int

const (
	modePage mode = iota
	modeEdit
	modePalette
	modePicker
)

// App is the Bubble Tea model driving one page session.
type App struct {
	ctx   context.Context
	opts  Options
	state *ui.State
	probe ui.Camera

	tree   *ui.Tree
	runErr error
	gen    int
	runs   int64

	focusable []*ui.Node
	focus     int
	focusKey  string
	optCursor int
	offsets   map[*ui.Node]int

	width, height int
	viewport      viewport.Model
	keys          *keyRegistry
	help          help.Model
	showHelp      bool
	r             *renderer
	spinner       spinner.Model
	images        map[string]*imageEntry

	mode      mode
	editKey   string
	multiline bool
	input     textinput.Model
	area      textarea.Model
	picker    filepicker.Model
	palette   palette
	status    string
}

type imageEntry struct {
	img     image.Image
	err     error
	loading bool
	cache   map[int]string
}

type (
	mediaMsg struct {
		src string
		img image.Image
		err error
	}
	captureMsg struct {
		key string
		img image.Image
		err error
	}
	fileMsg struct {
		key  string
		file *ui.UploadedFile
		err  error
	}
	downloadMsg struct {
		path string
		// recorded downloads of the session, 0 when nothing is recorded
		count int
		err   error
	}
	progressMsg struct {
		gen int
		key string
	}
	spinnerDoneMsg struct {
		gen int
		key string
	}
	openMsg struct{ err error }
)

// probeResult replays the startup camera probe on every run.
type probeResult struct{ err error }

func (p probeResult) Probe() error { return p.err }

type toucher interface {
	Touch(ctx context.Context) error
	Runs(ctx context.Context) (int64, error)
}

func New(ctx context.Context, opts Options) *App {
	if opts.Open == nil {
		opts.Open = media.OpenURL
	}
	a := &App{
		ctx:     ctx,
		opts:    opts,
		state:   ui.NewState(),
		keys:    newKeyRegistry(),
		help:    help.New(),
		r:       newRenderer(opts.Config.UI.Markdown),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorBrand))),
		images:  map[string]*imageEntry{},
		width:   100,
		height:  32,
	}
	if opts.Camera != nil {
		err := opts.Camera.Probe()
		if err != nil {
			log.Printf("camera unavailable: %v", err)
		}
		a.probe = probeResult{err: err}
	}
	a.viewport = viewport.New(a.width, a.height-3)
	a.r.media = a.renderImage
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("widgetdemo"), a.rerun())
}

// rerun executes the page against the current state and restarts the
// animations and media loads of the new tree.
func (a *App) rerun() tea.Cmd {
	tree, err := ui.Execute(a.opts.Script, ui.Env{
		Context: a.ctx,
		State:   a.state,
		Session: a.opts.Session,
		Camera:  a.probe,
	})
	if err != nil {
		log.Printf("page run: %v", err)
	}
	if t, ok := a.opts.Session.(toucher); ok {
		if err := t.Touch(a.ctx); err != nil {
			log.Printf("touch session: %v", err)
		} else if n, err := t.Runs(a.ctx); err == nil {
			a.runs = n
		}
	}
	a.tree, a.runErr = tree, err
	a.gen++
	a.refocus()
	cmds := a.startAnimations()
	cmds = append(cmds, a.loadImages()...)
	a.refresh()
	return tea.Batch(cmds...)
}

func (a *App) refocus() {
	prev := a.focus
	a.focusable = a.tree.Focusable()
	a.focus = -1
	for i, n := range a.focusable {
		if n.Key == a.focusKey {
			a.focus = i
			break
		}
	}
	if a.focus < 0 && len(a.focusable) > 0 {
		a.focus = min(max(prev, 0), len(a.focusable)-1)
		a.focusKey = a.focusable[a.focus].Key
	}
}

func (a *App) focused() *ui.Node {
	if a.focus < 0 || a.focus >= len(a.focusable) {
		return nil
	}
	return a.focusable[a.focus]
}

func (a *App) setFocus(i int) {
	if len(a.focusable) == 0 {
		return
	}
	a.focus = (i%len(a.focusable) + len(a.focusable)) % len(a.focusable)
	a.focusKey = a.focusable[a.focus].Key
	a.optCursor = 0
	a.refresh()
	a.ensureVisible(a.focusable[a.focus])
}

func (a *App) sidebarVisible() bool {
	return len(a.tree.Sidebar.Children) > 0 && a.width >= a.opts.Config.UI.SidebarWidth+40
}

func (a *App) mainWidth() int {
	w := a.width - 2
	if a.sidebarVisible() {
		w -= a.opts.Config.UI.SidebarWidth + 1
	}
	if mw := a.opts.Config.UI.MaxWidth; mw > 0 {
		w = min(w, mw)
	}
	return max(w, 20)
}

// refresh re-renders the page into the viewport without running the script.
func (a *App) refresh() {
	if a.tree == nil {
		return
	}
	a.r.focus = a.focusKey
	a.r.optCursor = a.optCursor
	a.r.spinner = a.spinner.View()
	width := a.mainWidth()
	content, offsets := a.r.page(a.tree.Main, width)
	if !a.sidebarVisible() && len(a.tree.Sidebar.Children) > 0 {
		side, sideOffsets := a.r.page(a.tree.Sidebar, width)
		shift := lipgloss.Height(side) + 1
		for n, line := range offsets {
			offsets[n] = line + shift
		}
		for n, line := range sideOffsets {
			offsets[n] = line
		}
		content = side + "\n\n" + content
	}
	a.offsets = offsets
	a.viewport.SetContent(content)
}

// ensureVisible scrolls so n sits inside the viewport.
func (a *App) ensureVisible(n *ui.Node) {
	line, ok := a.offsets[n]
	if !ok {
		return
	}
	top := a.viewport.YOffset
	if line < top || line >= top+a.viewport.Height-4 {
		a.viewport.SetYOffset(max(0, line-a.viewport.Height/4))
	}
}

func (a *App) startAnimations() []tea.Cmd {
	a.r.spinning = map[string]bool{}
	gen := a.gen
	var cmds []tea.Cmd
	for _, n := range a.tree.All(ui.KindSpinner) {
		el := n.Element.(*ui.Spinner)
		key := n.Key
		a.r.spinning[key] = true
		cmds = append(cmds, tea.Tick(el.Duration, func(time.Time) tea.Msg { return spinnerDoneMsg{gen: gen, key: key} }))
	}
	if len(a.r.spinning) > 0 {
		cmds = append(cmds, a.spinner.Tick)
	}
	for _, n := range a.tree.All(ui.KindProgress) {
		cmds = append(cmds, progressTick(gen, n.Key, n.Element.(*ui.Progress).Interval))
	}
	return cmds
}

func progressTick(gen int, key string, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return progressMsg{gen: gen, key: key} })
}

func (a *App) anySpinning() bool {
	for _, on := range a.r.spinning {
		if on {
			return true
		}
	}
	return false
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.viewport.Width = a.width
		if a.tree != nil && a.sidebarVisible() {
			a.viewport.Width = a.width - a.opts.Config.UI.SidebarWidth - 1
		}
		a.viewport.Height = max(3, a.height-3)
		a.help.Width = a.width
		a.refresh()
		return a, nil

	case progressMsg:
		if m.gen != a.gen {
			return a, nil
		}
		n := a.tree.ByKey(m.key)
		if n == nil {
			return a, nil
		}
		p := n.Element.(*ui.Progress)
		p.Value++
		a.refresh()
		if p.Value < p.Steps {
			return a, progressTick(m.gen, m.key, p.Interval)
		}
		return a, nil

	case spinnerDoneMsg:
		if m.gen == a.gen {
			a.r.spinning[m.key] = false
			a.refresh()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.anySpinning() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		a.refresh()
		return a, cmd

	case mediaMsg:
		e := a.images[m.src]
		if e == nil {
			e = &imageEntry{}
			a.images[m.src] = e
		}
		e.loading, e.img, e.err = false, m.img, m.err
		if m.err != nil {
			log.Printf("load %s: %v", m.src, m.err)
		}
		a.refresh()
		return a, nil

	case captureMsg:
		if m.err != nil {
			// later runs see the camera as unavailable so the page falls back
			a.status = "camera: " + m.err.Error()
			a.probe = probeResult{err: fmt.Errorf("%w: %v", media.ErrCameraUnavailable, m.err)}
			return a, a.rerun()
		}
		return a, a.applyKey(m.key, ui.Action{Type: ui.SetCapture, Capture: &ui.Capture{Image: m.img, TakenAt: time.Now()}})

	case fileMsg:
		if m.err != nil {
			a.status = m.err.Error()
			return a, nil
		}
		return a, a.applyKey(m.key, ui.Action{Type: ui.SetFile, File: m.file})

	case downloadMsg:
		if m.err != nil {
			a.status = "download failed: " + m.err.Error()
		} else {
			a.status = "saved " + m.path
			if m.count > 0 {
				a.status += fmt.Sprintf(" (%d this session)", m.count)
			}
		}
		return a, nil

	case openMsg:
		if m.err != nil {
			a.status = "open: " + m.err.Error()
		}
		return a, nil

	case tea.KeyMsg:
		a.status = ""
		switch a.mode {
		case modeEdit:
			return a.handleEditKey(m)
		case modePalette:
			return a.handlePaletteKey(m)
		case modePicker:
			return a.handlePicker(m)
		}
		return a.handlePageKey(m)
	}

	if a.mode == modePicker {
		return a.handlePicker(msg)
	}
	return a, nil
}

func (a *App) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := a.keys.lookup(msg.String(), scopePage)
	if b == nil {
		return a, nil
	}
	n := a.focused()
	switch b.Action {
	case actionQuit:
		return a, tea.Quit
	case actionNextFocus:
		a.setFocus(a.focus + 1)
	case actionPrevFocus:
		a.setFocus(a.focus - 1)
	case actionActivate:
		return a, a.activate(n)
	case actionStepUp:
		return a, a.step(n, 1, ui.Step)
	case actionStepDown:
		return a, a.step(n, -1, ui.Step)
	case actionBigUp:
		return a, a.step(n, 1, ui.BigStep)
	case actionBigDown:
		return a, a.step(n, -1, ui.BigStep)
	case actionScrollUp:
		a.scroll(n, -1)
	case actionScrollDown:
		a.scroll(n, 1)
	case actionPageUp:
		a.viewport.HalfPageUp()
	case actionPageDown:
		a.viewport.HalfPageDown()
	case actionTop:
		a.viewport.GotoTop()
	case actionBottom:
		a.viewport.GotoBottom()
	case actionClear:
		if n != nil {
			return a, a.apply(n, ui.Action{Type: ui.Clear})
		}
	case actionOpen:
		return a, a.open(n)
	case actionPalette:
		return a, a.openPalette()
	case actionHelp:
		a.showHelp = !a.showHelp
	}
	return a, nil
}

// scroll moves the cursor of a focused frame, or the page otherwise.
func (a *App) scroll(n *ui.Node, delta int) {
	if n != nil {
		if df, ok := n.Element.(*ui.DataFrame); ok {
			rows, _ := df.Data.Dims()
			a.r.cursors[n.Key] = min(max(a.r.cursors[n.Key]+delta, 0), rows-1)
			a.refresh()
			return
		}
	}
	if delta < 0 {
		a.viewport.LineUp(-delta)
	} else {
		a.viewport.LineDown(delta)
	}
}

func (a *App) step(n *ui.Node, delta int, t ui.ActionType) tea.Cmd {
	if n == nil {
		return nil
	}
	if ms, ok := n.Element.(*ui.MultiSelect); ok {
		if len(ms.Options) > 0 {
			a.optCursor = (a.optCursor + delta + len(ms.Options)) % len(ms.Options)
			a.refresh()
		}
		return nil
	}
	return a.apply(n, ui.Action{Type: t, Delta: delta})
}

// activate is enter or space on the focused node.
func (a *App) activate(n *ui.Node) tea.Cmd {
	if n == nil {
		return nil
	}
	switch el := n.Element.(type) {
	case *ui.TextInput:
		return a.openEditor(n, el.Value, el.Multiline)
	case *ui.Number:
		return a.openEditor(n, formatInt(el.Value), false)
	case *ui.DateInput:
		return a.openEditor(n, el.Value.Format(ui.DateLayout), false)
	case *ui.TimeInput:
		return a.openEditor(n, el.Value.String(), false)
	case *ui.ColorPicker:
		return a.openEditor(n, el.Hex, false)
	case *ui.FileUploader:
		return a.openPicker(n, el.Types)
	case *ui.CameraInput:
		return a.capture(n.Key)
	case *ui.MultiSelect:
		return a.apply(n, ui.Action{Type: ui.ToggleOption, Index: a.optCursor})
	case *ui.Media:
		return a.open(n)
	case *ui.DataFrame:
		return nil
	}
	return a.apply(n, ui.Action{Type: ui.Activate})
}

// apply records an action and reruns the page when the action asks for it.
func (a *App) apply(n *ui.Node, act ui.Action) tea.Cmd {
	cmd, err := a.tryApply(n, act)
	if err != nil {
		a.status = err.Error()
	}
	return cmd
}

func (a *App) tryApply(n *ui.Node, act ui.Action) (tea.Cmd, error) {
	eff, err := a.state.Apply(n, act)
	if err != nil {
		return nil, err
	}
	var cmds []tea.Cmd
	if eff.Download != nil {
		cmds = append(cmds, a.writeDownload(*eff.Download))
	}
	if eff.Rerun {
		cmds = append(cmds, a.rerun())
	} else {
		a.refocus()
		a.refresh()
	}
	return tea.Batch(cmds...), nil
}

// applyKey applies act to the node with key in the current tree.
func (a *App) applyKey(key string, act ui.Action) tea.Cmd {
	n := a.tree.ByKey(key)
	if n == nil {
		a.status = "widget is gone"
		return nil
	}
	return a.apply(n, act)
}

func (a *App) open(n *ui.Node) tea.Cmd {
	if n == nil {
		return nil
	}
	m, ok := n.Element.(*ui.Media)
	if !ok || m.Source == "" {
		return nil
	}
	open, src := a.opts.Open, m.Source
	return func() tea.Msg { return openMsg{err: open(src)} }
}

func (a *App) View() string {
	if a.tree == nil {
		return "loading…"
	}
	header := a.r.st.title.Render("widgetdemo")
	if a.opts.Session != nil {
		id := a.opts.Session.ID()
		header += a.r.st.muted.Render("  session " + id[:min(8, len(id))])
		if a.runs > 0 {
			header += a.r.st.muted.Render(fmt.Sprintf(" · run %d", a.runs))
		}
	}

	body := a.viewport.View()
	if a.sidebarVisible() {
		sw := a.opts.Config.UI.SidebarWidth
		side, _ := a.r.page(a.tree.Sidebar, sw-3)
		side = a.r.st.sidebar.Width(sw - 1).Height(a.viewport.Height).MaxHeight(a.viewport.Height).Render(side)
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, " ", body)
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, header, body, a.footer())
	switch a.mode {
	case modeEdit:
		screen = centerOverlay(screen, a.editorView(), a.width, a.height)
	case modePalette:
		screen = centerOverlay(screen, a.paletteView(), a.width, a.height)
	case modePicker:
		screen = centerOverlay(screen, a.pickerView(), a.width, a.height)
	}
	return screen
}

func (a *App) footer() string {
	scope := scopePage
	switch a.mode {
	case modeEdit:
		scope = scopeEditor
		if a.multiline {
			scope = scopeArea
		}
	case modePalette:
		scope = scopePalette
	case modePicker:
		scope = scopePicker
	}
	status := a.status
	if status == "" && a.runErr != nil {
		status = a.runErr.Error()
	}
	line := a.r.st.errorText.Render(truncate(status, a.width))
	bindings := a.keys.helpBindings(scope)
	if a.showHelp {
		return line + "\n" + a.help.FullHelpView([][]key.Binding{bindings})
	}
	return line + "\n" + a.help.ShortHelpView(bindings)
}
