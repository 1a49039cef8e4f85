package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/pampup/pamp/internal/pamp"
)

const (
	dateLayout     = "2006-01-02"
	wireTimeLayout = "15:04:05"
	clockLayout    = "15:04"
)

// Recurrence is how often a session repeats.
type Recurrence string

const (
	Once   Recurrence = "once"
	Weekly Recurrence = "weekly"
)

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant at c on the given calendar day in loc.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, c.Second, 0, loc)
}

// Session is a training session as stored on the server. Date holds only the
// calendar day; its clock and location are ignored.
type Session struct {
	ID         int64
	Date       time.Time
	Clock      Clock
	Recurrence Recurrence
	Days       []time.Weekday
}

// HasDay reports whether wd is one of the selected weekdays.
func (s Session) HasDay(wd time.Weekday) bool {
	for _, d := range s.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// FromWire converts the server representation.
func FromWire(ts pamp.TrainingSession) (Session, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(ts.Date))
	if err != nil {
		return Session{}, fmt.Errorf("session %d: parse date %q: %w", ts.ID, ts.Date, err)
	}
	clock, err := ParseClock(ts.Time)
	if err != nil {
		return Session{}, fmt.Errorf("session %d: %w", ts.ID, err)
	}
	rec := Recurrence(strings.ToLower(strings.TrimSpace(ts.Recurrence)))
	switch rec {
	case Once, Weekly:
	case "":
		rec = Once
	default:
		return Session{}, fmt.Errorf("session %d: unknown recurrence %q", ts.ID, ts.Recurrence)
	}
	days, err := ParseDays(ts.DaysOfWeek)
	if err != nil {
		return Session{}, fmt.Errorf("session %d: %w", ts.ID, err)
	}
	return Session{ID: ts.ID, Date: date, Clock: clock, Recurrence: rec, Days: days}, nil
}

// FromWireAll converts every session, skipping ones the server sent malformed.
// The returned errors describe the skipped rows.
func FromWireAll(list []pamp.TrainingSession) ([]Session, []error) {
	out := make([]Session, 0, len(list))
	var errs []error
	for _, ts := range list {
		s, err := FromWire(ts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, s)
	}
	return out, errs
}

// Wire returns the writable server representation. Days are only sent for
// weekly sessions.
func (s Session) Wire() pamp.TrainingSessionInput {
	in := pamp.TrainingSessionInput{
		Date:       s.Date.Format(dateLayout),
		Time:       fmt.Sprintf("%02d:%02d:%02d", s.Clock.Hour, s.Clock.Minute, s.Clock.Second),
		Recurrence: string(s.Recurrence),
	}
	if s.Recurrence == Weekly {
		in.DaysOfWeek = FormatDays(s.Days)
	}
	return in
}

// ParseClock accepts HH:MM:SS or HH:MM.
func ParseClock(value string) (Clock, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{wireTimeLayout, clockLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Clock{}, fmt.Errorf("parse time %q", value)
}

// ParseDays parses a comma separated list of English weekday names.
func ParseDays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		wd, ok := weekdayByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, wd)
	}
	return days, nil
}

// FormatDays joins weekday names the way the server stores them.
func FormatDays(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}

func weekdayByName(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := wd.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:3]) {
			return wd, true
		}
	}
	return 0, false
}
