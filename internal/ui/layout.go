package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is hidden.
	LayoutCompactWidth = 100

	// LayoutListRatio is the share of the width given to the post list.
	LayoutListRatio = 0.45
)

// chromeHeight is the header, the command bar and the notice line.
const chromeHeight = 3

// contentHeight returns the rows available below the header.
func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 3)
}

// renderBox draws a bordered pane with a title in the top border.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	lines := strings.Split(content, "\n")
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	body := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		MaxHeight(innerH).
		Render(strings.Join(lines, "\n"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Render(body)

	if title == "" {
		return box
	}
	// Splice the title into the top border.
	rows := strings.SplitN(box, "\n", 2)
	label := " " + truncate(title, innerW-4) + " "
	top := lipgloss.NewStyle().Foreground(lipgloss.Color(border)).Render("╭─") +
		m.theme.Styles().AccentText.Bold(true).Render(label) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(border)).
			Render(strings.Repeat("─", max(innerW-1-lipgloss.Width(label), 0))+"╮")
	if len(rows) == 2 {
		return top + "\n" + rows[1]
	}
	return top
}


func placeModal(theme Theme, content string, width, screenW, screenH int) string {
	if screenW > 0 {
		width = min(width, screenW-2)
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(max(width, 20)).
		Render(content)
	if screenW <= 0 || screenH <= 0 {
		return panel
	}
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, panel,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
