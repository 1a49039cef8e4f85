package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/schedule"
)

type sessionField int

const (
	sessionDate sessionField = iota
	sessionTime
	sessionRecurrence
	sessionDays
	sessionFieldCount
)

// sessionModal drives a schedule.Dialog from the keyboard.
type sessionModal struct {
	ctx context.Context
	api pamp.API
	now func() time.Time

	dialog schedule.Dialog
	focus  sessionField
	date   textinput.Model
	clock  textinput.Model
	dayIdx int // 0 is Monday
}

func newSessionModal(ctx context.Context, api pamp.API, now func() time.Time, d schedule.Dialog) sessionModal {
	s := sessionModal{ctx: ctx, api: api, now: now, dialog: d}

	s.date = textinput.New()
	s.date.Placeholder = "YYYY-MM-DD"
	s.date.CharLimit = 10
	s.date.Width = 12
	s.date.SetValue(d.Values.Date)

	s.clock = textinput.New()
	s.clock.Placeholder = "HH:MM"
	s.clock.CharLimit = 5
	s.clock.Width = 7
	s.clock.SetValue(d.Values.Time)

	s.focusField(sessionDate)
	return s
}

func (s *sessionModal) focusField(f sessionField) {
	s.focus = f
	s.date.Blur()
	s.clock.Blur()
	switch f {
	case sessionDate:
		s.date.Focus()
	case sessionTime:
		s.clock.Focus()
	}
}

func (s sessionModal) weekly() bool {
	return schedule.Recurrence(s.dialog.Values.Recurrence) == schedule.Weekly
}

// nextField skips the day picker for one-off sessions.
func (s sessionModal) nextField(step int) sessionField {
	f := s.focus
	for {
		f = sessionField((int(f) + step + int(sessionFieldCount)) % int(sessionFieldCount))
		if f != sessionDays || s.weekly() {
			return f
		}
	}
}

func (s sessionModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case sessionSavedMsg:
		next, closed := s.dialog.Finish(msg.err)
		s.dialog = next
		return s, nil, closed
	case sessionDeletedMsg:
		next, closed := s.dialog.Finish(msg.err)
		s.dialog = next
		return s, nil, closed
	case tea.KeyMsg:
		return s.handleKey(msg, keys)
	}
	return s, nil, false
}

func (s sessionModal) handleKey(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		s.dialog = s.dialog.Close()
		return s, nil, !s.dialog.Open()
	case key.Matches(msg, keys.Save), key.Matches(msg, keys.Confirm):
		return s.save()
	case key.Matches(msg, keys.Destroy):
		return s.delete()
	case key.Matches(msg, keys.Tab):
		s.focusField(s.nextField(1))
		return s, nil, false
	case key.Matches(msg, keys.ShiftTab):
		s.focusField(s.nextField(-1))
		return s, nil, false
	}

	var cmd tea.Cmd
	switch s.focus {
	case sessionDate:
		s.date, cmd = s.date.Update(msg)
		s.dialog = s.dialog.SetDate(s.date.Value())
	case sessionTime:
		s.clock, cmd = s.clock.Update(msg)
		s.dialog = s.dialog.SetTime(s.clock.Value())
	case sessionRecurrence:
		if key.Matches(msg, keys.Toggle, keys.Left, keys.Right) {
			next := schedule.Weekly
			if s.weekly() {
				next = schedule.Once
			}
			s.dialog = s.dialog.SetRecurrence(next)
		}
	case sessionDays:
		switch {
		case key.Matches(msg, keys.Left):
			s.dayIdx = (s.dayIdx + 6) % 7
		case key.Matches(msg, keys.Right):
			s.dayIdx = (s.dayIdx + 1) % 7
		case key.Matches(msg, keys.Toggle):
			s.dialog = s.dialog.ToggleDay(pickerDay(s.dayIdx))
		}
	}
	return s, cmd, false
}

func (s sessionModal) save() (Modal, tea.Cmd, bool) {
	next, in, err := s.dialog.BeginSave(s.now())
	if err != nil {
		if !errors.Is(err, schedule.ErrBusy) {
			s.dialog.Err = sessionError(err)
		}
		return s, nil, false
	}
	s.dialog = next
	return s, saveSessionCmd(s.ctx, s.api, s.dialog.SessionID, in), false
}

func (s sessionModal) delete() (Modal, tea.Cmd, bool) {
	next, id, err := s.dialog.BeginDelete()
	if err != nil {
		if !errors.Is(err, schedule.ErrBusy) {
			s.dialog.Err = sessionError(err)
		}
		return s, nil, false
	}
	s.dialog = next
	return s, deleteSessionCmd(s.ctx, s.api, id), false
}

// sessionError turns a dialog error into a sentence.
func sessionError(err error) string {
	msg := err.Error()
	if msg == "" {
		return ""
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// pickerDay maps picker columns, Monday first, to weekdays.
func pickerDay(idx int) time.Weekday {
	return time.Weekday((idx + 1) % 7)
}

func (s sessionModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	heading := "New training session"
	if s.dialog.Phase == schedule.Editing {
		heading = "Edit training session"
	}
	b.WriteString(styles.Text.Bold(true).Render(heading))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	label := func(f sessionField, text string) string {
		if s.focus == f {
			return styles.AccentText.Render(padRight(text, 12))
		}
		return styles.MutedText.Render(padRight(text, 12))
	}

	b.WriteString(label(sessionDate, "Date") + s.date.View() + "\n")
	b.WriteString(label(sessionTime, "Time") + s.clock.View() + "\n")

	once, weekly := styles.Text, styles.FaintText
	if s.weekly() {
		once, weekly = styles.FaintText, styles.Text
	}
	b.WriteString(label(sessionRecurrence, "Repeats") +
		once.Render("once") + styles.MutedText.Render(" / ") + weekly.Render("weekly") + "\n")

	if s.weekly() {
		b.WriteString(label(sessionDays, "Days"))
		for i := 0; i < 7; i++ {
			wd := pickerDay(i)
			cell := " " + wd.String()[:2] + " "
			style := styles.FaintText
			if s.dialog.HasDay(wd) {
				style = styles.SuccessText
			}
			if s.focus == sessionDays && i == s.dayIdx {
				style = styles.Selected
			}
			b.WriteString(style.Render(cell))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.dialog.Busy:
		b.WriteString(styles.WarningText.Render("Saving…"))
	case s.dialog.Err != "":
		b.WriteString(styles.DangerText.Render(s.dialog.Err))
	}
	b.WriteString("\n")

	hints := styles.Key.Render("enter") + styles.MutedText.Render(" save  ") +
		styles.Key.Render("space") + styles.MutedText.Render(" toggle  ")
	if s.dialog.Phase == schedule.Editing {
		hints += styles.Key.Render("ctrl+d") + styles.MutedText.Render(" delete  ")
	}
	hints += styles.Key.Render("esc") + styles.MutedText.Render(" close")
	b.WriteString(hints)

	return placeModal(theme, b.String(), 52, width, height)
}
