package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("reclass review"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(m.progress.String()))
	b.WriteString("\n\n")

	switch m.screen {
	case screenAllComplete:
		b.WriteString(statusStyle.Render("All records are complete."))
		b.WriteString("\n")
		if m.progress.Skipped > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%d skipped this session; they return next session.", m.progress.Skipped)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("esc to quit"))
		return b.String()

	case screenEnded:
		b.WriteString(mutedStyle.Render("Session ended."))
		return b.String()

	case screenAddEntry:
		b.WriteString(m.formView())
	default:
		b.WriteString(m.reviewView())
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) reviewView() string {
	r := m.record
	rows := []string{
		labelStyle.Render("ID") + r.ID,
		labelStyle.Render("Space name") + r.SpaceAliasName,
		labelStyle.Render("Type") + r.SpaceType,
		labelStyle.Render("Category") + r.SpaceCategory,
		labelStyle.Render("Department") + r.DepartmentOccupied,
	}
	record := recordBoxStyle.Render(strings.Join(rows, "\n"))

	aliasBox := blurredBoxStyle
	if m.focus == focusAlias {
		aliasBox = focusedBoxStyle
	}
	alias := aliasBox.Render(labelStyle.Render("New alias") + m.alias.View())

	width := 24
	if m.width > 0 {
		width = max(16, m.width/3-4)
	}
	height := 8
	if m.height > 0 {
		height = max(3, m.height-22)
	}
	pickers := lipgloss.JoinHorizontal(lipgloss.Top,
		m.names.view(m.focus == focusName, width, height),
		m.types.view(m.focus == focusType, width, height),
		m.categories.view(m.focus == focusCategory, width, height),
	)

	return lipgloss.JoinVertical(lipgloss.Left, record, alias, pickers)
}

func (m *Model) formView() string {
	labels := []string{"Name", "Type", "Category"}
	rows := make([]string, 0, len(labels)+2)
	rows = append(rows, pickerTitleStyle.Render("Add hierarchy option"))
	for i, in := range m.form.inputs {
		rows = append(rows, labelStyle.Render(labels[i])+in.View())
	}
	rows = append(rows, mutedStyle.Render("enter to save · esc to cancel"))
	return focusedBoxStyle.Render(strings.Join(rows, "\n"))
}
