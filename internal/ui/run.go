// Package ui is a declarative widget framework. A page is a Script that
// declares elements on a Run; every interaction re-executes the script
// against the same State and produces a fresh Tree.
package ui

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/jask/widgetdemo/internal/session"
)

var (
	// ErrScriptPanic wraps a panic raised while a script ran.
	ErrScriptPanic = errors.New("script panicked")
	// ErrOutsideForm is raised by FormSubmitButton outside Form.
	ErrOutsideForm = errors.New("form submit button declared outside a form")
	// ErrNoCamera is returned by CameraInput when no camera is configured.
	ErrNoCamera = errors.New("no camera configured")
	// ErrMissingColumn is returned when data lacks a column an element needs.
	ErrMissingColumn = errors.New("missing column")
)

// Script declares a page.
type Script func(r *Run) error

// Env is what a run executes against.
type Env struct {
	Context context.Context
	State   *State
	Session session.Store
	Camera  Camera
}

type runEnv struct {
	Env
	tree  *Tree
	seen  map[string]int
	forms map[string]bool
}

// Run is the declaration surface handed to a script. Container methods
// return child Runs that append into their container.
type Run struct {
	env    *runEnv
	parent *Node
	form   string
}

// Execute runs script once and returns the tree it declared. A failing or
// panicking script still yields the elements declared so far, followed by
// an Exception node. Triggers are consumed by the run.
func Execute(script Script, env Env) (tree *Tree, err error) {
	if env.Context == nil {
		env.Context = context.Background()
	}
	if env.State == nil {
		env.State = NewState()
	}
	tree = newTree()
	re := &runEnv{Env: env, tree: tree, seen: map[string]int{}, forms: map[string]bool{}}

	defer func() {
		env.State.clearTriggers()
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrScriptPanic, p)
			tree.Main.append(&Node{Element: &Exception{Err: err, Stack: string(debug.Stack())}})
		}
	}()

	if err = script(&Run{env: re, parent: tree.Main}); err != nil {
		tree.Main.append(&Node{Element: &Exception{Err: err}})
	}
	return tree, err
}

// Context returns the run's context.
func (r *Run) Context() context.Context { return r.env.Context }

// Session returns the session store, or nil when the run has none.
func (r *Run) Session() session.Store { return r.env.Session }

// Option adjusts a widget declaration.
type Option func(*options)

type options struct {
	key   string
	index int
}

// Key pins the state key of a widget, replacing the one derived from its label.
func Key(k string) Option { return func(o *options) { o.key = k } }

// Index sets the default option of a radio or select box.
func Index(i int) Option { return func(o *options) { o.index = i } }

func collect(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// keyFor derives the state key: [form/]kind:label, with #n appended for
// the n-th duplicate within the run.
func (r *Run) keyFor(kind Kind, label string, o options) string {
	var b strings.Builder
	if r.form != "" {
		b.WriteString(r.form)
		b.WriteByte('/')
	}
	if o.key != "" {
		b.WriteString(o.key)
	} else {
		b.WriteString(string(kind))
		b.WriteByte(':')
		b.WriteString(label)
	}
	key := b.String()
	r.env.seen[key]++
	if n := r.env.seen[key]; n > 1 {
		key += "#" + strconv.Itoa(n)
	}
	return key
}

func (r *Run) add(key string, el Element) *Node {
	return r.parent.append(&Node{Key: key, Form: r.form, Element: el})
}

// read returns the value a widget shows and the value the script sees.
// Inside a form the two differ until the form is submitted.
func (r *Run) read(key string, def any) (shown, committed any) {
	committed = def
	if v, ok := r.env.State.values[key]; ok {
		committed = v
	}
	shown = committed
	if r.form != "" {
		if v, ok := r.env.State.pending[r.form][key]; ok {
			shown = v
		}
	}
	return shown, committed
}

func (r *Run) child(el Element) *Run {
	n := r.add("", el)
	return &Run{env: r.env, parent: n, form: r.form}
}

// Sidebar returns a Run appending into the sidebar.
func (r *Run) Sidebar() *Run {
	return &Run{env: r.env, parent: r.env.tree.Sidebar}
}
