package ui

import (
	"testing"
	"time"

	"github.com/pampup/pamp/internal/pamp"
)

func TestBuildCalendar(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	list := []pamp.TrainingSession{
		{ID: 1, Date: "2025-03-04", Time: "18:00:00", Recurrence: "once"},
		{ID: 2, Date: "not a date", Time: "18:00:00", Recurrence: "once"},
	}

	rows, occ, skipped := buildCalendar(list, now, 48*time.Hour, time.UTC)
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(occ) != 1 || occ[0].SessionID != 1 {
		t.Fatalf("occurrences = %#v, want session 1 only", occ)
	}

	wantKinds := []calendarRowKind{rowDay, rowSlot, rowDay, rowOccurrence, rowSlot, rowDay, rowSlot}
	if len(rows) != len(wantKinds) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantKinds))
	}
	for i, want := range wantKinds {
		if rows[i].kind != want {
			t.Fatalf("rows[%d].kind = %v, want %v", i, rows[i].kind, want)
		}
	}
	if rows[3].day.Day() != 4 || !rows[3].occ.Start.Equal(time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("occurrence row = %#v", rows[3])
	}
}

func TestMoveSelectionSkipsDayHeadings(t *testing.T) {
	rows := []calendarRow{
		{kind: rowDay}, {kind: rowSlot},
		{kind: rowDay}, {kind: rowOccurrence}, {kind: rowSlot},
	}
	tests := []struct {
		name     string
		from     int
		delta    int
		expected int
	}{
		{"down over heading", 1, 1, 3},
		{"up over heading", 3, -1, 1},
		{"top stays", 1, -1, 1},
		{"bottom stays", 4, 1, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := moveSelection(rows, tc.from, tc.delta); got != tc.expected {
				t.Fatalf("moveSelection(%d, %d) = %d, want %d", tc.from, tc.delta, got, tc.expected)
			}
		})
	}
	if got := firstSelectable(rows, 0); got != 1 {
		t.Fatalf("firstSelectable = %d, want 1", got)
	}
	if got := moveSelection(nil, 3, 1); got != 0 {
		t.Fatalf("moveSelection(nil) = %d, want 0", got)
	}
}

func TestSlotFor(t *testing.T) {
	loc := time.UTC
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)
	morning := time.Date(2025, 3, 3, 10, 20, 0, 0, loc)
	lateNight := time.Date(2025, 3, 3, 23, 30, 0, 0, loc)

	tests := []struct {
		name string
		day  time.Time
		hour int
		now  time.Time
		want time.Time
	}{
		{"later today", today, 18, morning, time.Date(2025, 3, 3, 18, 0, 0, 0, loc)},
		{"passed today uses next hour", today, 8, morning, time.Date(2025, 3, 3, 11, 0, 0, 0, loc)},
		{"future day", tomorrow, 8, morning, time.Date(2025, 3, 4, 8, 0, 0, 0, loc)},
		{"no hour left today", today, 8, lateNight, time.Date(2025, 3, 3, 8, 0, 0, 0, loc)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := slotFor(tc.day, tc.hour, tc.now, loc); !got.Equal(tc.want) {
				t.Fatalf("slotFor = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildCalendarListsSessionsOutsideHorizon(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	list := []pamp.TrainingSession{
		{ID: 5, Date: "2026-12-01", Time: "10:00:00", Recurrence: "once"},
		{ID: 6, Date: "2026-10-01", Time: "08:00:00", Recurrence: "once"},
		{ID: 7, Date: "2027-01-04", Time: "07:00:00", Recurrence: "weekly", DaysOfWeek: "Monday,Thursday"},
		{ID: 8, Date: "2026-10-20", Time: "18:00:00", Recurrence: "once"},
	}

	rows, occ, _ := buildCalendar(list, now, 4*7*24*time.Hour, time.UTC)
	if len(occ) != 3 {
		t.Fatalf("expanded %d occurrences, want 3", len(occ))
	}

	ids := map[int64]int{}
	for _, r := range rows {
		if r.kind == rowOccurrence {
			ids[r.occ.SessionID]++
		}
	}
	for _, id := range []int64{5, 6, 7, 8} {
		if ids[id] != 1 {
			t.Fatalf("session %d has %d rows, want 1", id, ids[id])
		}
	}

	tail := rows[len(rows)-8:]
	want := []struct {
		kind    calendarRowKind
		label   string
		session int64
		start   time.Time
	}{
		{kind: rowSection, label: sectionLater},
		{kind: rowDay},
		{kind: rowOccurrence, session: 5, start: time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)},
		{kind: rowDay},
		{kind: rowOccurrence, session: 7, start: time.Date(2027, 1, 4, 7, 0, 0, 0, time.UTC)},
		{kind: rowSection, label: sectionPast},
		{kind: rowDay},
		{kind: rowOccurrence, session: 6, start: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)},
	}
	for i, w := range want {
		got := tail[i]
		if got.kind != w.kind || got.label != w.label {
			t.Fatalf("tail[%d] = kind %v label %q, want kind %v label %q", i, got.kind, got.label, w.kind, w.label)
		}
		if w.kind == rowOccurrence && (got.occ.SessionID != w.session || !got.occ.Start.Equal(w.start)) {
			t.Fatalf("tail[%d] = session %d at %v, want %d at %v", i, got.occ.SessionID, got.occ.Start, w.session, w.start)
		}
	}

	// Section headings are skipped like day headings.
	last := len(rows) - 1
	if got := moveSelection(rows, last, -1); rows[got].kind != rowOccurrence || rows[got].occ.SessionID != 7 {
		t.Fatalf("moveSelection up from the past session landed on %#v", rows[got])
	}
}
