package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/session"
)

const (
	masterCSV = "ID,space_alias_name,space_category,space_type,department_occupied\n" +
		"1,Room 101,Admin,Office,Finance\n" +
		"2,Room 102,Support,Storage,Facilities\n"
	optionsCSV = "SPACE NAME,SPACE TYPE,SPACE CATEGORY\n" +
		"A,Office,Admin\n" +
		"A,Lab,Admin\n" +
		"B,Office,Ops\n"
)

func newTestModel(t *testing.T) (*Model, reclass.Client, *session.State) {
	t.Helper()
	dir := t.TempDir()
	master := filepath.Join(dir, "master.csv")
	options := filepath.Join(dir, "options.csv")
	require.NoError(t, os.WriteFile(master, []byte(masterCSV), 0o644))
	require.NoError(t, os.WriteFile(options, []byte(optionsCSV), 0o644))

	c, err := reclass.New(
		reclass.WithMasterPath(master),
		reclass.WithHierarchyPath(options),
		reclass.WithLedgerPath(filepath.Join(dir, "responses.csv")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	s := c.NewSession()
	m, err := New(c, s, nil)
	require.NoError(t, err)
	return m, c, s
}

func press(m *Model, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keySkip  = tea.KeyMsg{Type: tea.KeyCtrlK}
	keyAdd   = tea.KeyMsg{Type: tea.KeyCtrlA}
)

func TestNewRequiresClientAndSession(t *testing.T) {
	_, err := New(nil, session.New(), nil)
	assert.Error(t, err)
}

func TestInitialScreen(t *testing.T) {
	m, _, _ := newTestModel(t)

	require.NotNil(t, m.record)
	assert.Equal(t, "1", m.record.ID)
	assert.Equal(t, screenReview, m.screen)
	assert.Equal(t, []string{"A", "B"}, m.names.items)
	assert.Equal(t, []string{"Lab", "Office"}, m.types.items)
	assert.Equal(t, []string{"Admin"}, m.categories.items)
	assert.Contains(t, m.View(), "Room 101")
	assert.Contains(t, m.View(), "0/2 completed")
}

func TestCascadeFollowsName(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, keyTab, keyDown)
	assert.Equal(t, focusName, m.focus)
	assert.Equal(t, "B", m.names.selected())
	assert.Equal(t, []string{"Office"}, m.types.items)
	assert.Equal(t, []string{"Ops"}, m.categories.items)

	// The chosen type survives when the new name offers it.
	press(m, keyUp)
	assert.Equal(t, "A", m.names.selected())
	assert.Equal(t, "Office", m.types.selected())

	// Moving the type never narrows categories.
	press(m, keyTab, keyDown)
	assert.Equal(t, focusType, m.focus)
	assert.Equal(t, "Lab", m.types.selected())
	assert.Equal(t, []string{"Admin"}, m.categories.items)
}

func TestAliasDraftAndSubmit(t *testing.T) {
	m, c, s := newTestModel(t)

	typeText(m, "Desk")
	assert.Equal(t, "Desk", s.AliasDraft())

	press(m, keySave)
	require.NoError(t, m.err)

	rows, err := c.LedgerRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].ID)
	assert.Equal(t, "A", rows[0].NewSpaceName)
	assert.Equal(t, "Lab", rows[0].NewType)
	assert.Equal(t, "Admin", rows[0].NewCategory)
	assert.Equal(t, "Desk", rows[0].NewSpaceAliasName)

	require.NotNil(t, m.record)
	assert.Equal(t, "2", m.record.ID)
	assert.Empty(t, m.alias.Value())
	assert.Equal(t, 1, m.progress.Completed)
	assert.Contains(t, m.View(), "Saved record 1")
}

func TestSkipToAllComplete(t *testing.T) {
	m, _, s := newTestModel(t)

	press(m, keySkip)
	assert.Equal(t, "2", m.record.ID)
	assert.True(t, s.IsSkipped("1"))

	press(m, keySkip)
	assert.Equal(t, screenAllComplete, m.screen)
	assert.Nil(t, m.record)
	assert.Equal(t, 2, m.progress.Skipped)
	assert.Contains(t, m.View(), "All records are complete")

	// Review keys do nothing on the terminal screen.
	assert.Nil(t, press(m, keySave))
	assert.Equal(t, screenAllComplete, m.screen)
}

func TestAddHierarchyEntry(t *testing.T) {
	m, c, _ := newTestModel(t)

	press(m, keyAdd)
	require.Equal(t, screenAddEntry, m.screen)
	name, _, _ := m.form.values()
	assert.Equal(t, "A", name)

	press(m, keyTab)
	typeText(m, "Storage")
	press(m, keyEnter)
	assert.Equal(t, screenAddEntry, m.screen)
	assert.True(t, errors.IsValidation(m.err))

	press(m, keyTab)
	typeText(m, "Support")
	press(m, keyEnter)
	require.NoError(t, m.err)
	assert.Equal(t, screenReview, m.screen)
	assert.Equal(t, "A", m.names.selected())
	assert.Equal(t, "Storage", m.types.selected())
	assert.Equal(t, []string{"Admin", "Support"}, m.categories.items)
	assert.Equal(t, "Support", m.categories.selected())
	assert.Len(t, c.HierarchyOptions(), 4)
}

func TestAddFormCancel(t *testing.T) {
	m, c, _ := newTestModel(t)
	press(m, keyAdd, keyEsc)
	assert.Equal(t, screenReview, m.screen)
	assert.Len(t, c.HierarchyOptions(), 3)
}

func TestEscEndsSession(t *testing.T) {
	m, _, s := newTestModel(t)
	s.Skip("1")

	cmd := press(m, keyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, s.Ended())
	assert.Equal(t, screenEnded, m.screen)
}

func TestPicker(t *testing.T) {
	p := picker{title: "x"}
	assert.Empty(t, p.selected())
	p.move(1)

	p.set([]string{"a", "b", "c"})
	p.move(-1)
	assert.Equal(t, "c", p.selected())

	p.set([]string{"c", "d"})
	assert.Equal(t, "c", p.selected())
	p.set([]string{"e"})
	assert.Equal(t, "e", p.selected())
}
