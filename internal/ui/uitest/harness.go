// Package uitest drives ui scripts in tests without a terminal.
package uitest

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/widgetdemo/internal/session"
	"github.com/jask/widgetdemo/internal/ui"
)

// Harness runs a script against one state and reruns it the way the
// terminal driver does after each interaction.
type Harness struct {
	t         testing.TB
	script    ui.Script
	env       ui.Env
	Tree      *ui.Tree
	Err       error
	Runs      int
	Downloads []*ui.Download
}

type Option func(*ui.Env)

func WithSession(s session.Store) Option { return func(e *ui.Env) { e.Session = s } }
func WithCamera(c ui.Camera) Option      { return func(e *ui.Env) { e.Camera = c } }

// New runs script once. The session defaults to an in-memory store.
func New(t testing.TB, script ui.Script, opts ...Option) *Harness {
	t.Helper()
	env := ui.Env{State: ui.NewState(), Session: session.NewMemory()}
	for _, o := range opts {
		o(&env)
	}
	h := &Harness{t: t, script: script, env: env}
	h.Run()
	return h
}

// Run executes the script and keeps the resulting tree.
func (h *Harness) Run() *ui.Tree {
	h.Tree, h.Err = ui.Execute(h.script, h.env)
	h.Runs++
	return h.Tree
}

// Widget returns the node of kind with label, failing the test when absent.
func (h *Harness) Widget(kind ui.Kind, label string) *ui.Node {
	h.t.Helper()
	n := h.Tree.Find(kind, label)
	require.NotNil(h.t, n, "no %s %q", kind, label)
	return n
}

// Do applies a to the node of kind with label and reruns when needed.
func (h *Harness) Do(kind ui.Kind, label string, a ui.Action) {
	h.t.Helper()
	h.apply(h.Widget(kind, label), a)
}

// DoKey is Do for a node addressed by its state key.
func (h *Harness) DoKey(key string, a ui.Action) {
	h.t.Helper()
	n := h.Tree.ByKey(key)
	require.NotNil(h.t, n, "no node %q", key)
	h.apply(n, a)
}

func (h *Harness) apply(n *ui.Node, a ui.Action) {
	h.t.Helper()
	eff, err := h.env.State.Apply(n, a)
	require.NoError(h.t, err)
	if eff.Download != nil {
		h.Downloads = append(h.Downloads, eff.Download)
	}
	if eff.Rerun {
		h.Run()
	}
}

// Click activates the button, form submit or download button with label.
func (h *Harness) Click(label string) {
	h.t.Helper()
	for _, k := range []ui.Kind{ui.KindButton, ui.KindFormSubmit, ui.KindDownloadButton} {
		if h.Tree.Find(k, label) != nil {
			h.Do(k, label, ui.Action{Type: ui.Activate})
			return
		}
	}
	h.t.Fatalf("no clickable %q", label)
}

func (h *Harness) Toggle(kind ui.Kind, label string) {
	h.t.Helper()
	h.Do(kind, label, ui.Action{Type: ui.Activate})
}

func (h *Harness) SetText(kind ui.Kind, label, text string) {
	h.t.Helper()
	h.Do(kind, label, ui.Action{Type: ui.SetText, Text: text})
}

func (h *Harness) Step(kind ui.Kind, label string, delta int) {
	h.t.Helper()
	h.Do(kind, label, ui.Action{Type: ui.Step, Delta: delta})
}

// Texts returns the plain text of the current tree.
func (h *Harness) Texts() []string { return h.Tree.Text() }

// HasText reports whether some text element equals s.
func (h *Harness) HasText(s string) bool { return slices.Contains(h.Texts(), s) }
