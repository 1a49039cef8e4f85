package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks a yes/no question and runs onYes when accepted.
type confirmModal struct {
	title string
	body  string
	onYes tea.Cmd
}

func newConfirmModal(title, body string, onYes tea.Cmd) confirmModal {
	return confirmModal{title: title, body: body, onYes: onYes}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case k.String() == "y", key.Matches(k, keys.Confirm):
		return c, c.onYes, true
	case k.String() == "n", key.Matches(k, keys.Escape):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.body))
	b.WriteString("\n\n")
	b.WriteString(styles.Key.Render("y/enter") + styles.MutedText.Render(" confirm   ") +
		styles.Key.Render("n/esc") + styles.MutedText.Render(" cancel"))
	return placeModal(theme, b.String(), 48, width, height)
}
