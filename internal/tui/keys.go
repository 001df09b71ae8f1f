package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type action string

type binding struct {
	Action action
	Keys   []string
	Help   string
}

// keyRegistry maps key names to actions per input scope. Lookups fall
// back to the global scope.
type keyRegistry struct {
	bindingsByScope map[string][]*binding
	indexByScope    map[string]map[string]*binding
}

const (
	scopeGlobal  = "global"
	scopePage    = "page"
	scopeEditor  = "editor"
	scopeArea    = "area"
	scopePalette = "palette"
	scopePicker  = "picker"
)

const (
	actionQuit       action = "quit"
	actionNextFocus  action = "next_focus"
	actionPrevFocus  action = "prev_focus"
	actionActivate   action = "activate"
	actionStepUp     action = "step_up"
	actionStepDown   action = "step_down"
	actionBigUp      action = "big_up"
	actionBigDown    action = "big_down"
	actionScrollUp   action = "scroll_up"
	actionScrollDown action = "scroll_down"
	actionPageUp     action = "page_up"
	actionPageDown   action = "page_down"
	actionTop        action = "top"
	actionBottom     action = "bottom"
	actionClear      action = "clear"
	actionOpen       action = "open"
	actionPalette    action = "palette"
	actionHelp       action = "help"
	actionCommit     action = "commit"
	actionCancel     action = "cancel"
	actionNavigate   action = "navigate"
)

func newKeyRegistry() *keyRegistry {
	r := &keyRegistry{
		bindingsByScope: make(map[string][]*binding),
		indexByScope:    make(map[string]map[string]*binding),
	}
	reg := func(scope string, a action, keys []string, help string) {
		r.register(scope, binding{Action: a, Keys: keys, Help: help})
	}

	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopePage, actionNextFocus, []string{"tab"}, "next")
	reg(scopePage, actionPrevFocus, []string{"shift+tab"}, "prev")
	reg(scopePage, actionActivate, []string{"enter", "space"}, "use")
	reg(scopePage, actionStepDown, []string{"h/l", "left", "h"}, "change")
	reg(scopePage, actionStepUp, []string{"right", "l"}, "")
	reg(scopePage, actionBigDown, []string{"[/]", "["}, "big step")
	reg(scopePage, actionBigUp, []string{"]"}, "")
	reg(scopePage, actionScrollUp, []string{"j/k", "up", "k"}, "scroll")
	reg(scopePage, actionScrollDown, []string{"down", "j"}, "")
	reg(scopePage, actionPageUp, []string{"pgup", "ctrl+u"}, "")
	reg(scopePage, actionPageDown, []string{"pgdown", "ctrl+d"}, "")
	reg(scopePage, actionTop, []string{"g", "home"}, "top")
	reg(scopePage, actionBottom, []string{"G", "end"}, "bottom")
	reg(scopePage, actionClear, []string{"x", "backspace"}, "clear")
	reg(scopePage, actionOpen, []string{"o"}, "open")
	reg(scopePage, actionPalette, []string{"/"}, "jump")
	reg(scopePage, actionHelp, []string{"?"}, "help")

	reg(scopeEditor, actionCommit, []string{"enter"}, "apply")
	reg(scopeEditor, actionCancel, []string{"esc"}, "cancel")
	reg(scopeArea, actionCommit, []string{"ctrl+s"}, "apply")
	reg(scopeArea, actionCancel, []string{"esc"}, "cancel")

	reg(scopePalette, actionNavigate, []string{"up/down", "up", "down", "ctrl+p", "ctrl+n"}, "navigate")
	reg(scopePalette, actionCommit, []string{"enter"}, "jump")
	reg(scopePalette, actionCancel, []string{"esc"}, "close")

	reg(scopePicker, actionCancel, []string{"esc"}, "cancel")
	return r
}

func (r *keyRegistry) register(scope string, b binding) {
	keys := normalizeKeyList(b.Keys)
	if len(keys) == 0 {
		return
	}
	if _, ok := r.indexByScope[scope]; !ok {
		r.indexByScope[scope] = make(map[string]*binding)
	}
	for _, k := range keys {
		if _, exists := r.indexByScope[scope][k]; exists {
			return
		}
	}
	b.Keys = keys
	r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &b)
	for _, k := range keys {
		r.indexByScope[scope][k] = &b
	}
}

// lookup resolves a key in scope, then in the global scope. Editor-like
// scopes do not fall back so typed letters reach the input.
func (r *keyRegistry) lookup(keyName, scope string) *binding {
	keyName = normalizeKeyName(keyName)
	if keyName == "" {
		return nil
	}
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b
	}
	switch scope {
	case scopeEditor, scopeArea, scopePalette, scopePicker:
		return nil
	}
	return r.indexByScope[scopeGlobal][keyName]
}

func (r *keyRegistry) helpBindings(scope string) []key.Binding {
	var out []key.Binding
	for _, s := range []string{scope, scopeGlobal} {
		for _, b := range r.bindingsByScope[s] {
			if b.Help == "" {
				continue
			}
			out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
		}
		if scope != scopePage {
			break
		}
	}
	return out
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// keep single uppercase runes distinct from lowercase
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}
