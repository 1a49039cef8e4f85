package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/schedule"
)

type calendarRowKind int

const (
	rowDay calendarRowKind = iota
	rowOccurrence
	rowSlot
	rowSection
)

// calendarRow is one line of the agenda: a section or day heading, an
// occurrence, or the empty slot that opens the create dialog for that day.
type calendarRow struct {
	kind  calendarRowKind
	day   time.Time
	occ   schedule.Occurrence
	label string
}

func (r calendarRow) selectable() bool { return r.kind == rowOccurrence || r.kind == rowSlot }

const (
	sectionLater = "Later"
	sectionPast  = "Past"
)

type calendarState struct {
	rows        []calendarRow
	occurrences []schedule.Occurrence
	skipped     int
	selected    int
}

// buildCalendar expands sessions over [now, now+horizon] and lays them out
// as agenda rows. Sessions with no occurrence in that window still get a row
// under the Later or Past section so they can be edited or deleted. It also
// returns every expanded occurrence, sorted, and the number of sessions that
// could not be read.
func buildCalendar(list []pamp.TrainingSession, now time.Time, horizon time.Duration, loc *time.Location) ([]calendarRow, []schedule.Occurrence, int) {
	if loc == nil {
		loc = time.Local
	}
	sessions, errs := schedule.FromWireAll(list)
	occ := schedule.Expand(sessions, schedule.ExpandConfig{
		Now:      now,
		Horizon:  horizon,
		Location: loc,
	})
	schedule.SortOccurrences(occ)

	var rows []calendarRow
	shown := map[int64]bool{}
	for _, day := range schedule.GroupByDay(occ, now, now.Add(horizon), loc) {
		rows = append(rows, calendarRow{kind: rowDay, day: day.Date})
		for _, o := range day.Occurrences {
			rows = append(rows, calendarRow{kind: rowOccurrence, day: day.Date, occ: o})
			shown[o.SessionID] = true
		}
		rows = append(rows, calendarRow{kind: rowSlot, day: day.Date})
	}

	later, past := outsideWindow(sessions, occ, shown, now, horizon, loc)
	rows = appendSection(rows, sectionLater, later, loc)
	rows = appendSection(rows, sectionPast, past, loc)
	return rows, occ, len(errs)
}

// outsideWindow picks a row for every session without one in the window:
// all of its occurrences after the window, otherwise its latest past one.
// A weekly session anchored beyond the window gets its first week.
func outsideWindow(sessions []schedule.Session, occ []schedule.Occurrence, shown map[int64]bool, now time.Time, horizon time.Duration, loc *time.Location) (later, past []schedule.Occurrence) {
	today := midnightIn(now, loc)
	lastDay := midnightIn(now.Add(horizon), loc)

	for _, s := range sessions {
		if shown[s.ID] {
			continue
		}
		var after []schedule.Occurrence
		var latestPast *schedule.Occurrence
		for i := range occ {
			o := occ[i]
			if o.SessionID != s.ID {
				continue
			}
			switch day := midnightIn(o.Start, loc); {
			case day.After(lastDay):
				after = append(after, o)
			case day.Before(today):
				latestPast = &occ[i]
			}
		}
		switch {
		case len(after) > 0:
			later = append(later, after...)
		case latestPast != nil:
			past = append(past, *latestPast)
		default:
			anchor := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, loc)
			first := schedule.Expand([]schedule.Session{s}, schedule.ExpandConfig{
				Now:      anchor,
				Horizon:  7 * 24 * time.Hour,
				Location: loc,
			})
			schedule.SortOccurrences(first)
			if len(first) > 0 {
				later = append(later, first[0])
			}
		}
	}
	schedule.SortOccurrences(later)
	schedule.SortOccurrences(past)
	return later, past
}

// appendSection adds a titled block of day headings and occurrences.
func appendSection(rows []calendarRow, title string, occ []schedule.Occurrence, loc *time.Location) []calendarRow {
	if len(occ) == 0 {
		return rows
	}
	rows = append(rows, calendarRow{kind: rowSection, label: title})
	var current time.Time
	for _, o := range occ {
		day := midnightIn(o.Start, loc)
		if !day.Equal(current) {
			rows = append(rows, calendarRow{kind: rowDay, day: day})
			current = day
		}
		rows = append(rows, calendarRow{kind: rowOccurrence, day: day, occ: o})
	}
	return rows
}

func midnightIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// moveSelection steps from i by delta, skipping day headings.
func moveSelection(rows []calendarRow, i, delta int) int {
	if len(rows) == 0 {
		return 0
	}
	for j := i + delta; j >= 0 && j < len(rows); j += delta {
		if rows[j].selectable() {
			return j
		}
	}
	return i
}

// firstSelectable returns the first selectable row at or after i.
func firstSelectable(rows []calendarRow, i int) int {
	for j := max(i, 0); j < len(rows); j++ {
		if rows[j].selectable() {
			return j
		}
	}
	return moveSelection(rows, len(rows), -1)
}

// slotFor picks the start prefilled for a new session on day: the configured
// hour, or the next full hour when that has already passed today.
func slotFor(day time.Time, hour int, now time.Time, loc *time.Location) time.Time {
	slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc)
	if !slot.Before(now) {
		return slot
	}
	next := now.In(loc).Truncate(time.Hour).Add(time.Hour)
	if sameDay(next, day) {
		return next
	}
	return slot
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func (m *Model) rebuildCalendar() {
	loc := m.config.Location
	var keep string
	if row, ok := m.selectedCalendarRow(); ok {
		keep = row.occ.Key + "|" + row.day.Format(time.DateOnly)
	}
	rows, occ, skipped := buildCalendar(m.snapshot.Sessions, m.now(), m.config.Horizon(), loc)
	m.calendar.rows = rows
	m.calendar.occurrences = occ
	m.calendar.skipped = skipped

	// Keep the cursor on the same entry across refreshes.
	for i, r := range rows {
		if r.selectable() && r.occ.Key+"|"+r.day.Format(time.DateOnly) == keep {
			m.calendar.selected = i
			return
		}
	}
	m.calendar.selected = firstSelectable(rows, clampIndex(m.calendar.selected, len(rows)))
}

func (m Model) selectedCalendarRow() (calendarRow, bool) {
	rows := m.calendar.rows
	if len(rows) == 0 || m.calendar.selected >= len(rows) {
		return calendarRow{}, false
	}
	row := rows[m.calendar.selected]
	return row, row.selectable()
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.calendar.rows
	switch {
	case key.Matches(msg, m.keys.Up):
		m.calendar.selected = moveSelection(rows, m.calendar.selected, -1)
	case key.Matches(msg, m.keys.Down):
		m.calendar.selected = moveSelection(rows, m.calendar.selected, 1)
	case key.Matches(msg, m.keys.Top), key.Matches(msg, m.keys.Today):
		m.calendar.selected = firstSelectable(rows, 0)
	case key.Matches(msg, m.keys.Bottom):
		m.calendar.selected = moveSelection(rows, len(rows), -1)
	case key.Matches(msg, m.keys.ExportICS):
		m.setNotice("Exporting calendar…", false)
		return m, exportICSCmd(m.config.ICSExport, m.calendar.occurrences, "pamp training")
	case key.Matches(msg, m.keys.NewPost):
		if row, ok := m.selectedCalendarRow(); ok {
			return m.openCreateSession(row.day)
		}
	case key.Matches(msg, m.keys.Confirm):
		row, ok := m.selectedCalendarRow()
		if !ok {
			return m, nil
		}
		if row.kind == rowSlot {
			return m.openCreateSession(row.day)
		}
		return m.openEditSession(row.occ)
	}
	return m, nil
}

func (m Model) openCreateSession(day time.Time) (tea.Model, tea.Cmd) {
	slot := slotFor(day, m.config.SlotHour, m.now(), m.config.Location)
	d := schedule.NewDialog(m.config.Location).OpenCreate(slot)
	m.modal = newSessionModal(m.ctx, m.api, m.now, d)
	return m, nil
}

func (m Model) openEditSession(occ schedule.Occurrence) (tea.Model, tea.Cmd) {
	ts, ok := m.snapshot.Session(occ.SessionID)
	if !ok {
		m.setNotice("That session no longer exists", true)
		return m, nil
	}
	s, err := schedule.FromWire(ts)
	if err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	d := schedule.NewDialog(m.config.Location).OpenEdit(occ, s)
	m.modal = newSessionModal(m.ctx, m.api, m.now, d)
	return m, nil
}

func (m Model) renderCalendar() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	inner := max(height-2, 1)

	lines := make([]string, 0, len(m.calendar.rows))
	today := m.now().In(m.config.Location)
	for i, row := range m.calendar.rows {
		var line string
		switch row.kind {
		case rowSection:
			line = styles.MutedText.Bold(true).Render("── " + row.label + " ──")
		case rowDay:
			label := row.day.Format("Monday, 2 Jan 2006")
			if sameDay(today, row.day) {
				label += "  (today)"
			}
			line = styles.AccentText.Bold(true).Render(label)
		case rowOccurrence:
			line = "  " + styles.InfoText.Render(row.occ.Start.Format("15:04")+"–"+row.occ.End.Format("15:04")) +
				"  " + styles.Text.Render(row.occ.Title) + m.sessionSuffix(row.occ.SessionID)
		case rowSlot:
			line = "  " + styles.FaintText.Render("+ add session")
		}
		if i == m.calendar.selected && row.selectable() {
			line = styles.AccentText.Render("▸") + line[1:]
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, styles.MutedText.Render("Nothing scheduled"))
	}

	// Scroll so the selection stays visible.
	start := 0
	if m.calendar.selected >= inner {
		start = m.calendar.selected - inner + 1
	}
	end := min(start+inner, len(lines))

	title := fmt.Sprintf("Training calendar · next %d weeks · %d sessions", m.config.HorizonWeeks, len(m.snapshot.Sessions))
	if m.calendar.skipped > 0 {
		title += fmt.Sprintf(" · %d unreadable", m.calendar.skipped)
	}
	return m.renderBox(title, strings.Join(lines[start:end], "\n"), m.width, height, true)
}

// sessionSuffix marks weekly sessions with their days.
func (m Model) sessionSuffix(id int64) string {
	ts, ok := m.snapshot.Session(id)
	if !ok {
		return ""
	}
	s, err := schedule.FromWire(ts)
	if err != nil || s.Recurrence != schedule.Weekly || len(s.Days) == 0 {
		return ""
	}
	return m.theme.Styles().FaintText.Render("  weekly: " + schedule.FormatDays(s.Days))
}
