package tui

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/widgetdemo/internal/ui"
)

// maxUploadBytes caps files handed to an uploader.
const maxUploadBytes = 200 << 20

func formatInt(v int) string { return strconv.Itoa(v) }

func (a *App) openEditor(n *ui.Node, value string, multiline bool) tea.Cmd {
	a.mode = modeEdit
	a.editKey = n.Key
	a.multiline = multiline
	width := min(60, max(20, a.width-10))
	if multiline {
		a.area = textarea.New()
		a.area.ShowLineNumbers = false
		a.area.SetWidth(width)
		a.area.SetHeight(6)
		a.area.SetValue(value)
		return a.area.Focus()
	}
	a.input = textinput.New()
	a.input.Prompt = "› "
	a.input.Width = width
	a.input.SetValue(value)
	a.input.CursorEnd()
	return a.input.Focus()
}

func (a *App) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scope := scopeEditor
	if a.multiline {
		scope = scopeArea
	}
	if b := a.keys.lookup(msg.String(), scope); b != nil {
		switch b.Action {
		case actionCancel:
			a.mode = modePage
			return a, nil
		case actionCommit:
			text := a.input.Value()
			if a.multiline {
				text = a.area.Value()
			}
			n := a.tree.ByKey(a.editKey)
			if n == nil {
				a.mode = modePage
				return a, nil
			}
			cmd, err := a.tryApply(n, ui.Action{Type: ui.SetText, Text: text})
			if err != nil {
				// keep the editor open so the value can be fixed
				a.status = err.Error()
				return a, nil
			}
			a.mode = modePage
			return a, cmd
		}
	}
	var cmd tea.Cmd
	if a.multiline {
		a.area, cmd = a.area.Update(msg)
	} else {
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

func (a *App) editorView() string {
	label := a.editKey
	if n := a.tree.ByKey(a.editKey); n != nil {
		label = n.Label()
	}
	body := a.input.View()
	if a.multiline {
		body = a.area.View()
	}
	hint := "enter: apply · esc: cancel"
	if a.multiline {
		hint = "ctrl+s: apply · esc: cancel"
	}
	return a.r.st.modal.Render(a.r.st.subheader.Render(label) + "\n" + body + "\n" + a.r.st.muted.Render(hint))
}

func (a *App) openPicker(n *ui.Node, types []string) tea.Cmd {
	a.mode = modePicker
	a.editKey = n.Key
	a.picker = filepicker.New()
	if wd, err := os.Getwd(); err == nil {
		a.picker.CurrentDirectory = wd
	}
	for _, t := range types {
		a.picker.AllowedTypes = append(a.picker.AllowedTypes, "."+t)
	}
	a.picker.SetHeight(max(5, a.height/2))
	return a.picker.Init()
}

func (a *App) handlePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if b := a.keys.lookup(k.String(), scopePicker); b != nil && b.Action == actionCancel {
			a.mode = modePage
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	if ok, path := a.picker.DidSelectFile(msg); ok {
		a.mode = modePage
		return a, readUpload(a.editKey, path)
	}
	if ok, path := a.picker.DidSelectDisabledFile(msg); ok {
		a.status = fmt.Sprintf("%s is not an accepted type", filepath.Base(path))
	}
	return a, cmd
}

func (a *App) pickerView() string {
	return a.r.st.modal.Render(a.r.st.subheader.Render("Upload a file") + "\n" + a.picker.View())
}

// readUpload loads path into an uploaded file for the widget under key.
func readUpload(key, path string) tea.Cmd {
	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return fileMsg{key: key, err: err}
		}
		if info.Size() > maxUploadBytes {
			return fileMsg{key: key, err: fmt.Errorf("%s is larger than %d MB", info.Name(), maxUploadBytes>>20)}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fileMsg{key: key, err: err}
		}
		mt := mime.TypeByExtension(filepath.Ext(path))
		if mt == "" {
			mt = http.DetectContentType(data)
		}
		return fileMsg{key: key, file: ui.NewUploadedFile(filepath.Base(path), mt, data)}
	}
}
