// Package tui is the terminal review screen.
//
// It runs one session: the current record's old values, an alias input and
// three cascading pickers (name, type, category). Categories follow the
// chosen name only.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/agentstation/reclass"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/reconcile"
	"github.com/agentstation/reclass/pkg/records"
	"github.com/agentstation/reclass/pkg/session"
)

type focus int

const (
	focusAlias focus = iota
	focusName
	focusType
	focusCategory
	focusCount
)

type screen int

const (
	screenReview screen = iota
	screenAddEntry
	screenAllComplete
	screenEnded
)

// Model is the bubbletea model for a review session.
type Model struct {
	client  reclass.Client
	session *session.State
	logger  *zerolog.Logger

	screen   screen
	record   *records.Record
	progress reconcile.Progress

	focus      focus
	alias      textinput.Model
	names      picker
	types      picker
	categories picker

	form entryForm

	status string
	err    error

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New builds the review model and presents the first unresolved record.
func New(client reclass.Client, s *session.State, logger *zerolog.Logger) (*Model, error) {
	if client == nil || s == nil {
		return nil, errors.NewConfigError("tui", "client and session are required", nil)
	}

	alias := textinput.New()
	alias.Placeholder = "optional"
	alias.CharLimit = 256
	alias.Prompt = ""

	m := &Model{
		client:     client,
		session:    s,
		logger:     logging.Component(logger, "tui"),
		alias:      alias,
		names:      picker{title: "Space name"},
		types:      picker{title: "Space type"},
		categories: picker{title: "Space category"},
		form:       newEntryForm(),
		keys:       defaultKeyMap(),
		help:       help.New(),
	}

	res, err := client.NextUnresolved(s)
	if err != nil {
		return nil, err
	}
	m.present(res)
	m.setFocus(focusAlias)
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenAddEntry:
			return m.updateForm(msg)
		case screenAllComplete, screenEnded:
			if key.Matches(msg, m.keys.Quit) || msg.String() == "q" {
				return m.end()
			}
			return m, nil
		default:
			return m.updateReview(msg)
		}
	}
	return m, nil
}

func (m *Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.end()

	case key.Matches(msg, m.keys.Next):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil

	case key.Matches(msg, m.keys.Skip):
		m.skip()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.form.open(m.names.selected())
		m.screen = screenAddEntry
		m.err = nil
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		delta := 1
		if key.Matches(msg, m.keys.Up) {
			delta = -1
		}
		switch m.focus {
		case focusName:
			m.names.move(delta)
			m.refreshCascade()
		case focusType:
			m.types.move(delta)
		case focusCategory:
			m.categories.move(delta)
		}
		return m, nil
	}

	if m.focus != focusAlias {
		return m, nil
	}
	var cmd tea.Cmd
	m.alias, cmd = m.alias.Update(msg)
	m.client.SetAliasDraft(m.session, m.alias.Value())
	return m, cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.screen = screenReview
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.form.cycle(1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.form.cycle(-1)
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		name, typ, category := m.form.values()
		o, err := m.client.AddHierarchyEntry(name, typ, category)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.screen = screenReview
		m.names.set(m.client.CascadeOptions("", "").Names)
		m.names.choose(o.Name)
		m.refreshCascade()
		m.types.choose(o.Type)
		m.categories.choose(o.Category)
		m.status = fmt.Sprintf("Added %s / %s / %s", o.Name, o.Type, o.Category)
		return m, nil
	}

	return m, m.form.update(msg)
}

func (m *Model) submit() {
	if m.record == nil {
		return
	}
	sel := m.selection()
	if err := m.client.CheckSelection(sel); err != nil {
		m.err = err
		return
	}
	sub, err := m.client.Submit(m.session, m.record.ID, sel, m.alias.Value())
	if err != nil {
		m.logger.Error().Err(err).Str("record_id", m.record.ID).Msg("Submit failed")
		m.err = err
		return
	}
	m.err = nil
	m.status = fmt.Sprintf("Saved record %s as %s / %s / %s", sub.Response.ID, sel.Name, sel.Type, sel.Category)
	m.present(sub.Next)
}

func (m *Model) skip() {
	if m.record == nil {
		return
	}
	id := m.record.ID
	res, err := m.client.Skip(m.session, id)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = fmt.Sprintf("Skipped record %s", id)
	m.present(res)
}

func (m *Model) end() (tea.Model, tea.Cmd) {
	m.client.EndSession(m.session)
	m.screen = screenEnded
	return m, tea.Quit
}

// present shows the record in res, or the all-complete screen.
func (m *Model) present(res reconcile.Result) {
	if p, err := m.client.Progress(m.session); err == nil {
		m.progress = p
	}
	if res.AllComplete() {
		m.record = nil
		m.screen = screenAllComplete
		return
	}
	m.record = res.Record
	m.alias.SetValue(m.session.AliasDraft())
	m.names.set(m.client.CascadeOptions("", "").Names)
	m.refreshCascade()
}

// refreshCascade reloads types and categories for the chosen name.
func (m *Model) refreshCascade() {
	c := m.client.CascadeOptions(m.names.selected(), m.types.selected())
	m.types.set(c.Types)
	m.categories.set(c.Categories)
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusAlias {
		m.alias.Focus()
		return
	}
	m.alias.Blur()
}

func (m *Model) selection() reconcile.Selection {
	return reconcile.Selection{
		Name:     m.names.selected(),
		Type:     m.types.selected(),
		Category: m.categories.selected(),
	}
}

// Run starts the terminal program and blocks until the session ends.
func Run(client reclass.Client, s *session.State, logger *zerolog.Logger, opts ...tea.ProgramOption) error {
	m, err := New(client, s, logger)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	_, err = tea.NewProgram(m, opts...).Run()
	return err
}
