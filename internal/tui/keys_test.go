package tui

import "testing"

func TestKeyLookupFallsBackToGlobal(t *testing.T) {
	r := newKeyRegistry()

	b := r.lookup("tab", scopePage)
	if b == nil || b.Action != actionNextFocus {
		t.Fatalf("tab in page scope = %v, want %q", b, actionNextFocus)
	}
	quit := r.lookup("q", scopePage)
	if quit == nil || quit.Action != actionQuit {
		t.Fatalf("q in page scope = %v, want %q", quit, actionQuit)
	}
	if got := r.lookup(" ", scopePage); got == nil || got.Action != actionActivate {
		t.Fatalf("space in page scope = %v, want %q", got, actionActivate)
	}
}

func TestKeyLookupEditorScopesDoNotFallBack(t *testing.T) {
	r := newKeyRegistry()
	for _, scope := range []string{scopeEditor, scopeArea, scopePalette, scopePicker} {
		if got := r.lookup("q", scope); got != nil {
			t.Fatalf("q in %s = %q, want no binding", scope, got.Action)
		}
	}
	if got := r.lookup("enter", scopeArea); got != nil {
		t.Fatalf("enter in area scope = %q, want newline passthrough", got.Action)
	}
	if got := r.lookup("ctrl+s", scopeArea); got == nil || got.Action != actionCommit {
		t.Fatalf("ctrl+s in area scope = %v, want commit", got)
	}
}

func TestKeyRegistryNoDuplicateInSameScope(t *testing.T) {
	r := &keyRegistry{
		bindingsByScope: make(map[string][]*binding),
		indexByScope:    make(map[string]map[string]*binding),
	}
	r.register("a", binding{Action: actionOpen, Keys: []string{"x"}, Help: "first"})
	r.register("a", binding{Action: actionClear, Keys: []string{"x"}, Help: "dup"})
	r.register("b", binding{Action: actionClear, Keys: []string{"x"}, Help: "other"})

	if n := len(r.bindingsByScope["a"]); n != 1 {
		t.Fatalf("scope a bindings = %d, want 1", n)
	}
	if got := r.lookup("x", "a").Action; got != actionOpen {
		t.Fatalf("scope a x = %q, want %q", got, actionOpen)
	}
	if got := r.lookup("x", "b").Action; got != actionClear {
		t.Fatalf("scope b x = %q, want %q", got, actionClear)
	}
}

func TestHelpBindingsSkipUnlabelled(t *testing.T) {
	r := newKeyRegistry()
	for _, b := range r.helpBindings(scopePage) {
		if b.Help().Desc == "" {
			t.Fatalf("binding %q has no help text", b.Help().Key)
		}
	}
	area := r.helpBindings(scopeArea)
	if len(area) != 2 {
		t.Fatalf("area help = %d bindings, want 2", len(area))
	}
	if area[0].Help().Key != "ctrl+s" {
		t.Fatalf("area help key = %q, want ctrl+s", area[0].Help().Key)
	}
}

func TestNormalizeKeyName(t *testing.T) {
	cases := map[string]string{
		" ":         "space",
		"G":         "G",
		"Control+U": "ctrl+u",
		"Return":    "enter",
		"   ":       "",
		"shift+tab": "shift+tab",
	}
	for in, want := range cases {
		if got := normalizeKeyName(in); got != want {
			t.Fatalf("normalizeKeyName(%q) = %q, want %q", in, got, want)
		}
	}
}
