package ui

// Node is one element of a rendered page. Widget nodes carry the key
// their value is stored under; Form is set for nodes declared inside a form.
type Node struct {
	Key      string
	Form     string
	Element  Element
	Children []*Node
}

func (n *Node) append(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

// Tree is the output of one script run.
type Tree struct {
	Main    *Node
	Sidebar *Node
}

func newTree() *Tree {
	return &Tree{
		Main:    &Node{Element: &Root{}},
		Sidebar: &Node{Element: &Root{}},
	}
}

// Walk visits the sidebar first and then the main area, depth first, in
// declaration order. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node) bool) {
	for _, root := range []*Node{t.Sidebar, t.Main} {
		if !walk(root, fn) {
			return
		}
	}
}

func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node of kind whose label matches, or nil.
func (t *Tree) Find(kind Kind, label string) *Node {
	var found *Node
	t.Walk(func(n *Node) bool {
		if n.Element.Kind() == kind && labelOf(n.Element) == label {
			found = n
			return false
		}
		return true
	})
	return found
}

// ByKey returns the node stored under key, or nil.
func (t *Tree) ByKey(key string) *Node {
	if key == "" {
		return nil
	}
	var found *Node
	t.Walk(func(n *Node) bool {
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// All returns every node of kind.
func (t *Tree) All(kind Kind) []*Node {
	var out []*Node
	t.Walk(func(n *Node) bool {
		if n.Element.Kind() == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Focusable returns the nodes a user can move focus to: widgets plus
// scrollable frames and media with an openable source. Nodes inside a
// collapsed expander are skipped.
func (t *Tree) Focusable() []*Node {
	var out []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		if focusable(n) {
			out = append(out, n)
		}
		if e, ok := n.Element.(*Expander); ok && !e.Expanded {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.Sidebar)
	visit(t.Main)
	return out
}

func focusable(n *Node) bool {
	if n.Key == "" {
		return false
	}
	switch el := n.Element.(type) {
	case Widget:
		return true
	case *DataFrame:
		return !el.Static
	case *Media:
		return el.Source != ""
	}
	return false
}

// Text collects the plain text of every heading, paragraph, alert and
// text node in walk order. Tests use it to look for echoed values.
func (t *Tree) Text() []string {
	var out []string
	t.Walk(func(n *Node) bool {
		switch el := n.Element.(type) {
		case *Heading:
			out = append(out, el.Text)
		case *Paragraph:
			out = append(out, el.Text)
		case *Text:
			out = append(out, el.Body)
		case *Alert:
			out = append(out, el.Body)
		case *Markdown:
			out = append(out, el.Body)
		}
		return true
	})
	return out
}

func labelOf(el Element) string {
	switch e := el.(type) {
	case Widget:
		return e.WidgetLabel()
	case *Heading:
		return e.Text
	case *Spinner:
		return e.Label
	case *Media:
		return e.Source
	}
	return ""
}

// Label returns the label of a node, or its heading text.
func (n *Node) Label() string { return labelOf(n.Element) }
