package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// entryForm collects a new hierarchy option.
type entryForm struct {
	inputs [3]textinput.Model
	focus  int
}

func newEntryForm() entryForm {
	var f entryForm
	for i, label := range []string{"Space name", "Space type", "Space category"} {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 128
		f.inputs[i] = in
	}
	return f
}

// open clears the form, prefilling the name.
func (f *entryForm) open(name string) {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.inputs[0].SetValue(name)
	f.focus = 0
	f.sync()
}

func (f *entryForm) cycle(delta int) {
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.sync()
}

func (f *entryForm) sync() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
}

func (f *entryForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f entryForm) values() (name, typ, category string) {
	return f.inputs[0].Value(), f.inputs[1].Value(), f.inputs[2].Value()
}
