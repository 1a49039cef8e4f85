package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pampup/pamp/internal/pamp"
)

// renderHeader renders the logo, view tabs, user and connection state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("pamp")}

	if m.session.LoggedIn() {
		tabs := []struct {
			view  View
			label string
		}{
			{ViewPosts, "1 Posts"},
			{ViewCalendar, "2 Calendar"},
			{ViewProfile, "3 Profile"},
		}
		for _, t := range tabs {
			if t.view == m.currentView {
				parts = append(parts, styles.Selected.Render(" "+t.label+" "))
			} else {
				parts = append(parts, styles.MutedText.Render(" "+t.label+" "))
			}
		}
		name := m.session.User().Username
		if name == "" {
			name = m.snapshot.Profile.DisplayName()
		}
		if name != "" {
			parts = append(parts, styles.SuccessText.Render("● "+name))
		}
	} else {
		parts = append(parts, styles.WarningText.Render("● logged out"))
	}

	parts = append(parts, m.connectionStatus(styles))

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// connectionStatus summarizes the poller's last result.
func (m Model) connectionStatus(styles Styles) string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return styles.DangerText.Render(strings.ToUpper(pamp.Message(snap.LastError))) +
			" " + styles.WarningText.Render("Retrying...")
	case snap.LastError != nil:
		return styles.WarningText.Render(truncate(pamp.Message(snap.LastError), 40))
	case !snap.LastUpdated.IsZero():
		return styles.FaintText.Render("updated " + snap.LastUpdated.Format("15:04:05"))
	default:
		return ""
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogin:
		commands = []cmd{{"enter", "Submit"}, {"ctrl+n", "Switch form"}}
	case ViewCalendar:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"n", "New"},
			{"t", "Today"},
			{"E", "Export"},
		}
	case ViewProfile:
		commands = []cmd{
			{"a", "Avatar"},
			{"A", "Remove avatar"},
			{"b", "Telegram"},
			{"c", "Check"},
			{"L", "Log out"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"m", ternary(m.posts.scope == "all", "Mine", "All")},
			{"/", "Search"},
		}
	}
	if m.currentView != ViewLogin {
		commands = append(commands, cmd{"r", "Refresh"}, cmd{"?", "More"})
	}

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, styles.AccentText.Render(c.key)+":"+styles.MutedText.Render(c.desc))
	}
	segments = append(segments, styles.AccentText.Render("T")+":"+styles.FaintText.Render(m.theme.Name))

	return styles.Header.Width(m.width).Render(strings.Join(segments, "  "))
}

// renderNotice renders the one-line status message under the content.
func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	if m.notice == "" {
		return ""
	}
	style := styles.InfoText
	if m.noticeErr {
		style = styles.DangerText
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(style.Render(truncate(m.notice, max(m.width-2, 10))))
}
