package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// picker is a vertical single-choice list. The highlighted item is the
// current choice.
type picker struct {
	title  string
	items  []string
	cursor int
}

// set replaces the items, keeping the current choice when it survives.
func (p *picker) set(items []string) {
	current := p.selected()
	p.items = items
	p.cursor = 0
	p.choose(current)
}

// choose moves the cursor to value if present.
func (p *picker) choose(value string) bool {
	for i, it := range p.items {
		if it == value {
			p.cursor = i
			return true
		}
	}
	return false
}

func (p *picker) move(delta int) {
	if len(p.items) == 0 {
		return
	}
	p.cursor = (p.cursor + delta + len(p.items)) % len(p.items)
}

func (p picker) selected() string {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return ""
	}
	return p.items[p.cursor]
}

func (p picker) view(focused bool, width, height int) string {
	title := pickerTitleStyle.Render(p.title)
	var lines []string
	if len(p.items) == 0 {
		lines = append(lines, mutedStyle.Render("(none)"))
	}

	// Scroll so the cursor stays visible.
	start := 0
	if height > 0 && p.cursor >= height {
		start = p.cursor - height + 1
	}
	for i := start; i < len(p.items) && (height <= 0 || i < start+height); i++ {
		it := p.items[i]
		if i == p.cursor {
			lines = append(lines, selectedStyle.Render("› "+it))
			continue
		}
		lines = append(lines, "  "+it)
	}

	box := blurredBoxStyle
	if focused {
		box = focusedBoxStyle
	}
	return box.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}
