package ui

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidInput is returned when typed text cannot become a widget value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownOption is returned for an option index outside the widget's options.
	ErrUnknownOption = errors.New("unknown option")
)

// ActionType is what the user did to a node.
type ActionType int

const (
	// Activate clicks buttons, toggles checkboxes and expanders and
	// advances choice widgets by one.
	Activate ActionType = iota
	Step
	BigStep
	SetText
	ToggleOption
	SetFile
	SetCapture
	Clear
)

// Action is one user interaction with a node.
type Action struct {
	Type    ActionType
	Delta   int
	Index   int
	Text    string
	File    *UploadedFile
	Capture *Capture
}

// Download is the payload of a clicked download button.
type Download struct {
	FileName string
	MIME     string
	Data     []byte
}

// Effect tells the driver what an applied action needs.
type Effect struct {
	Rerun    bool
	Download *Download
}

// State holds widget values across runs of one session.
type State struct {
	values   map[string]any
	pending  map[string]map[string]any
	triggers map[string]bool
}

func NewState() *State {
	return &State{
		values:   map[string]any{},
		pending:  map[string]map[string]any{},
		triggers: map[string]bool{},
	}
}

// Value returns the committed value stored under key.
func (s *State) Value(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *State) triggered(key string) bool { return s.triggers[key] }

func (s *State) clearTriggers() { clear(s.triggers) }

func (s *State) submit(form, key string) {
	for k, v := range s.pending[form] {
		s.values[k] = v
	}
	delete(s.pending, form)
	s.triggers[key] = true
}

// store records v for n: pending inside a form, committed otherwise.
func (s *State) store(n *Node, v any) Effect {
	if n.Form != "" {
		if s.pending[n.Form] == nil {
			s.pending[n.Form] = map[string]any{}
		}
		s.pending[n.Form][n.Key] = v
		return Effect{}
	}
	s.values[n.Key] = v
	return Effect{Rerun: true}
}

// Apply records an interaction with n. The node's element is patched in
// place so edits that do not rerun still show up.
func (s *State) Apply(n *Node, a Action) (Effect, error) {
	switch el := n.Element.(type) {
	case *Button:
		if a.Type != Activate {
			return Effect{}, nil
		}
		el.Clicked = true
		s.triggers[n.Key] = true
		return Effect{Rerun: true}, nil

	case *FormSubmit:
		if a.Type != Activate {
			return Effect{}, nil
		}
		el.Submitted = true
		s.submit(el.Form, n.Key)
		return Effect{Rerun: true}, nil

	case *DownloadButton:
		if a.Type != Activate {
			return Effect{}, nil
		}
		el.Clicked = true
		s.triggers[n.Key] = true
		return Effect{Rerun: true, Download: &Download{FileName: el.FileName, MIME: el.MIME, Data: el.Data}}, nil

	case *Checkbox:
		if a.Type != Activate {
			return Effect{}, nil
		}
		el.Checked = !el.Checked
		return s.store(n, el.Checked), nil

	case *Expander:
		if a.Type != Activate {
			return Effect{}, nil
		}
		el.Expanded = !el.Expanded
		s.values[n.Key] = el.Expanded
		return Effect{}, nil

	case *Radio:
		i, ok := cycle(el.Index, len(el.Options), a)
		if !ok {
			return Effect{}, nil
		}
		el.Index = i
		return s.store(n, i), nil

	case *SelectBox:
		i, ok := cycle(el.Index, len(el.Options), a)
		if !ok {
			return Effect{}, nil
		}
		el.Index = i
		return s.store(n, i), nil

	case *MultiSelect:
		switch a.Type {
		case ToggleOption:
			if a.Index < 0 || a.Index >= len(el.Options) {
				return Effect{}, fmt.Errorf("%w: %d", ErrUnknownOption, a.Index)
			}
			if i := slices.Index(el.Selected, a.Index); i >= 0 {
				el.Selected = slices.Delete(slices.Clone(el.Selected), i, i+1)
			} else {
				el.Selected = append(slices.Clone(el.Selected), a.Index)
				slices.Sort(el.Selected)
			}
		case Clear:
			el.Selected = nil
		default:
			return Effect{}, nil
		}
		return s.store(n, slices.Clone(el.Selected)), nil

	case *TextInput:
		switch a.Type {
		case SetText:
			el.Value = a.Text
		case Clear:
			el.Value = ""
		default:
			return Effect{}, nil
		}
		return s.store(n, el.Value), nil

	case *Number:
		v := el.Value
		switch a.Type {
		case Step:
			v += a.Delta * el.Step
		case BigStep:
			v += a.Delta * el.Step * 10
		case SetText:
			parsed, err := strconv.Atoi(strings.TrimSpace(a.Text))
			if err != nil {
				return Effect{}, fmt.Errorf("%w: number %q", ErrInvalidInput, a.Text)
			}
			v = parsed
		default:
			return Effect{}, nil
		}
		el.Value = el.clamp(v)
		return s.store(n, el.Value), nil

	case *DateInput:
		v := el.Value
		switch a.Type {
		case Step:
			v = v.AddDate(0, 0, a.Delta)
		case BigStep:
			v = v.AddDate(0, a.Delta, 0)
		case SetText:
			parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(a.Text), v.Location())
			if err != nil {
				return Effect{}, fmt.Errorf("%w: date %q", ErrInvalidInput, a.Text)
			}
			v = parsed
		default:
			return Effect{}, nil
		}
		el.Value = v
		return s.store(n, v), nil

	case *TimeInput:
		v := el.Value
		switch a.Type {
		case Step:
			v = v.Add(time.Duration(a.Delta) * el.Step)
		case BigStep:
			v = v.Add(time.Duration(a.Delta) * time.Hour)
		case SetText:
			parsed, err := ParseTimeOfDay(strings.TrimSpace(a.Text))
			if err != nil {
				return Effect{}, err
			}
			v = parsed
		default:
			return Effect{}, nil
		}
		el.Value = v
		return s.store(n, v), nil

	case *ColorPicker:
		v := el.Hex
		switch a.Type {
		case Step:
			v = rotateHue(v, 10*float64(a.Delta))
		case BigStep:
			v = rotateHue(v, 60*float64(a.Delta))
		case SetText:
			hex, err := NormalizeHex(a.Text)
			if err != nil {
				return Effect{}, err
			}
			v = hex
		default:
			return Effect{}, nil
		}
		el.Hex = v
		return s.store(n, v), nil

	case *FileUploader:
		switch a.Type {
		case SetFile:
			el.File = a.File
		case Clear:
			el.File = nil
		default:
			return Effect{}, nil
		}
		return s.store(n, el.File), nil

	case *CameraInput:
		switch a.Type {
		case SetCapture:
			el.Shot = a.Capture
		case Clear:
			el.Shot = nil
		default:
			return Effect{}, nil
		}
		return s.store(n, el.Shot), nil
	}
	return Effect{}, nil
}

// cycle moves a choice index, wrapping at both ends.
func cycle(i, n int, a Action) (int, bool) {
	if n == 0 {
		return i, false
	}
	switch a.Type {
	case Activate:
		return (i + 1) % n, true
	case Step, BigStep:
		return ((i+a.Delta)%n + n) % n, true
	case ToggleOption:
		if a.Index < 0 || a.Index >= n {
			return i, false
		}
		return a.Index, true
	}
	return i, false
}

// NormalizeHex parses "#rgb" or "#rrggbb" and returns lowercase "#rrggbb".
func NormalizeHex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if n := len(s) - 1; n != 3 && n != 6 {
		return "", fmt.Errorf("%w: color %q", ErrInvalidInput, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w: color %q", ErrInvalidInput, s)
	}
	return c.Hex(), nil
}

func rotateHue(hex string, deg float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, s, v).Clamped().Hex()
}
