package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/linkqr"
	"github.com/pampup/pamp/internal/logtail"
	"github.com/pampup/pamp/internal/upload"
)

type profileState struct {
	editingAvatar bool
	avatarInput   textinput.Model
	busy          bool
	link          string
	qr            string
	problems      []logtail.Entry
}

// profileProblemLimit is how many recent log failures the profile lists.
const profileProblemLimit = 5

func newProfileState() profileState {
	ti := textinput.New()
	ti.Placeholder = "path to an image"
	ti.Width = 50
	return profileState{avatarInput: ti}
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Avatar):
		if m.profile.busy {
			return m, nil
		}
		m.profile.editingAvatar = true
		m.profile.avatarInput.SetValue("")
		return m, m.profile.avatarInput.Focus()
	case key.Matches(msg, m.keys.ClearAvatar):
		if m.profile.busy || m.snapshot.Profile.Avatar == "" {
			return m, nil
		}
		m.modal = newConfirmModal("Remove avatar?", "Your profile picture will be deleted.",
			saveAvatarCmd(m.ctx, m.api, ""))
	case key.Matches(msg, m.keys.LinkBot):
		m.setNotice("Requesting a Telegram link…", false)
		return m, linkTelegramCmd(m.ctx, m.api)
	case key.Matches(msg, m.keys.CheckLink):
		return m, checkTelegramCmd(m.ctx, m.api)
	case key.Matches(msg, m.keys.Logout):
		m.modal = newConfirmModal("Log out?", "The saved login on this machine will be removed.",
			logoutCmd(m.session))
	}
	return m, nil
}

func (m Model) handleAvatarInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		// Dropping a file pastes its (possibly quoted) path.
		if paths := upload.SplitPaths(string(msg.Runes)); len(paths) > 0 {
			m.profile.avatarInput.SetValue(paths[0])
			return m, nil
		}
	}
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.profile.editingAvatar = false
		m.profile.avatarInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		paths := upload.SplitPaths(m.profile.avatarInput.Value())
		m.profile.editingAvatar = false
		m.profile.avatarInput.Blur()
		if len(paths) == 0 {
			return m, nil
		}
		m.profile.busy = true
		m.setNotice("Uploading avatar…", false)
		return m, saveAvatarCmd(m.ctx, m.api, paths[0])
	}
	var cmd tea.Cmd
	m.profile.avatarInput, cmd = m.profile.avatarInput.Update(msg)
	return m, cmd
}

// telegramLink renders the deep link for code as text plus a QR code.
func telegramLink(bot, code string) (string, string, error) {
	link := linkqr.DeepLink(bot, code)
	qr, err := linkqr.Render(link, 2)
	if err != nil {
		return link, "", fmt.Errorf("render qr: %w", err)
	}
	return link, qr, nil
}

func (m Model) renderProfile() string {
	styles := m.theme.Styles()
	var b strings.Builder

	p := m.snapshot.Profile
	user := m.session.User()
	name := p.DisplayName()
	if name == "" {
		name = user.Username
	}
	email := p.User.Email
	if email == "" {
		email = user.Email
	}

	row := func(label, value string) {
		b.WriteString(styles.MutedText.Render(padRight(label, 12)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	row("Username", name)
	row("Email", ternary(email == "", "—", email))
	row("Avatar", ternary(p.Avatar == "", "none", truncateMiddle(p.Avatar, 60)))
	if exp, ok := m.session.Expiry(); ok {
		row("Token", "valid until "+exp.Local().Format("15:04"))
	}
	b.WriteString("\n")

	if m.profile.editingAvatar {
		b.WriteString(styles.AccentText.Render("New avatar  "))
		b.WriteString(m.profile.avatarInput.View())
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("enter uploads, esc cancels; you can drop a file here"))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.Text.Bold(true).Render("Telegram reminders"))
	b.WriteString("\n")
	switch {
	case !m.snapshot.HasTelegram:
		row("Status", "unknown")
	case m.snapshot.TelegramLinked:
		b.WriteString(styles.SuccessText.Render("● linked"))
		b.WriteString(styles.MutedText.Render("  reminders arrive before each session"))
		b.WriteString("\n")
	default:
		b.WriteString(styles.WarningText.Render("● not linked"))
		b.WriteString(styles.MutedText.Render("  press b to get a link"))
		b.WriteString("\n")
	}
	if m.profile.link != "" && !m.snapshot.TelegramLinked {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Open this link or scan the code, then press c:"))
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render(m.profile.link))
		b.WriteString("\n")
		if m.profile.qr != "" {
			b.WriteString(m.profile.qr)
		}
	}

	if len(m.profile.problems) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Text.Bold(true).Render("Recent problems"))
		b.WriteString("\n")
		for _, e := range m.profile.problems {
			stamp := "--:--"
			if !e.Time.IsZero() {
				stamp = e.Time.Format("Jan 2 15:04")
			}
			b.WriteString(styles.FaintText.Render(padRight(stamp, 13)))
			b.WriteString(styles.DangerText.Render(truncate(e.Message, max(m.width-20, 20))))
			b.WriteString("\n")
		}
	}

	return m.renderBox("Profile", b.String(), m.width, m.contentHeight(), true)
}
