package schedule

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// DefaultHorizon is how far past now weekly sessions are expanded.
	DefaultHorizon = 4 * 7 * 24 * time.Hour
	// SessionDuration is the fixed length of every occurrence.
	SessionDuration = time.Hour
	// DefaultTitle labels occurrences in the calendar.
	DefaultTitle = "Training session"

	defaultMaxOccurrencesPerSession = 5000
)

// Occurrence is one concrete calendar entry produced from a Session.
type Occurrence struct {
	SessionID int64
	Title     string
	Start     time.Time
	End       time.Time
	// Key is stable for the same session and start across refreshes.
	Key string
}

// ExpandConfig controls Expand. Zero values select the defaults.
type ExpandConfig struct {
	Now      time.Time
	Horizon  time.Duration
	Location *time.Location
	Title    string

	// MaxOccurrencesPerSession caps expansion of sessions anchored far in the past.
	MaxOccurrencesPerSession int
}

func (cfg ExpandConfig) withDefaults() ExpandConfig {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.MaxOccurrencesPerSession <= 0 {
		cfg.MaxOccurrencesPerSession = defaultMaxOccurrencesPerSession
	}
	return cfg
}

// Expand turns sessions into occurrences.
//
// A once session yields exactly one occurrence regardless of the horizon. A
// weekly session yields one occurrence for every selected weekday from its
// anchor date up to, but excluding, the day whose midnight reaches
// Now+Horizon. A weekly session with no selected days is treated as once.
// The result is in session order, not sorted by time.
func Expand(sessions []Session, cfg ExpandConfig) []Occurrence {
	cfg = cfg.withDefaults()
	horizon := cfg.Now.Add(cfg.Horizon)

	out := make([]Occurrence, 0, len(sessions))
	for _, s := range sessions {
		if s.Recurrence != Weekly || len(s.Days) == 0 {
			out = append(out, makeOccurrence(s, s.Clock.On(s.Date, cfg.Location), cfg))
			continue
		}
		out = append(out, expandWeekly(s, horizon, cfg)...)
	}
	return out
}

func expandWeekly(s Session, horizon time.Time, cfg ExpandConfig) []Occurrence {
	anchor := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, cfg.Location)
	if !anchor.Before(horizon) {
		return nil
	}

	r, err := rrule.StrToRRule("FREQ=WEEKLY;BYDAY=" + byDay(s.Days))
	if err != nil {
		log.Printf("expand: session %d: parse rule: %v", s.ID, err)
		return nil
	}
	r.DTStart(anchor)

	var set rrule.Set
	set.RRule(r)

	days := set.Between(anchor, horizon.In(cfg.Location), true)
	out := make([]Occurrence, 0, len(days))
	for _, day := range days {
		if !day.Before(horizon) {
			break
		}
		if len(out) >= cfg.MaxOccurrencesPerSession {
			log.Printf("expand: session %d: truncated at %d occurrences", s.ID, cfg.MaxOccurrencesPerSession)
			break
		}
		out = append(out, makeOccurrence(s, s.Clock.On(day, cfg.Location), cfg))
	}
	return out
}

func makeOccurrence(s Session, start time.Time, cfg ExpandConfig) Occurrence {
	return Occurrence{
		SessionID: s.ID,
		Title:     cfg.Title,
		Start:     start,
		End:       start.Add(SessionDuration),
		Key:       fmt.Sprintf("%d@%s", s.ID, start.Format(time.RFC3339Nano)),
	}
}

func byDay(days []time.Weekday) string {
	codes := make([]string, 0, len(days))
	seen := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		codes = append(codes, strings.ToUpper(d.String()[:2]))
	}
	return strings.Join(codes, ",")
}

// SortOccurrences orders occurrences by start, then session id.
func SortOccurrences(occ []Occurrence) {
	sort.SliceStable(occ, func(i, j int) bool {
		if !occ[i].Start.Equal(occ[j].Start) {
			return occ[i].Start.Before(occ[j].Start)
		}
		return occ[i].SessionID < occ[j].SessionID
	})
}

// Day groups the occurrences that start on one calendar day.
type Day struct {
	Date        time.Time
	Occurrences []Occurrence
}

// GroupByDay returns one Day for every calendar day from the day of from up to
// and including the day of to, in loc. Occurrences outside that range are
// dropped. Each day's occurrences are sorted by start.
func GroupByDay(occ []Occurrence, from, to time.Time, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}
	first := midnight(from.In(loc))
	last := midnight(to.In(loc))
	if last.Before(first) {
		return nil
	}

	var days []Day
	index := map[string]int{}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		index[d.Format(dateLayout)] = len(days)
		days = append(days, Day{Date: d})
	}
	for _, o := range occ {
		i, ok := index[o.Start.In(loc).Format(dateLayout)]
		if !ok {
			continue
		}
		days[i].Occurrences = append(days[i].Occurrences, o)
	}
	for i := range days {
		SortOccurrences(days[i].Occurrences)
	}
	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
