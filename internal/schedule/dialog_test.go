package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestDialogCreateSaveLifecycle(t *testing.T) {
	slot := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

	d := NewDialog(time.UTC).OpenCreate(slot)
	if d.Phase != Creating {
		t.Fatalf("Phase = %v, want Creating", d.Phase)
	}
	if _, ok := d.Mode.(CreateMode); !ok {
		t.Fatalf("Mode = %T, want CreateMode", d.Mode)
	}
	if d.Values.Date != "2025-03-10" || d.Values.Time != "18:00" || d.Values.Recurrence != "once" {
		t.Fatalf("prefilled values = %#v", d.Values)
	}

	d = d.SetRecurrence(Weekly).ToggleDay(time.Thursday).ToggleDay(time.Monday)
	d, in, err := d.BeginSave(now)
	if err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	if !d.Busy {
		t.Fatalf("Busy = false after BeginSave")
	}
	if in.Date != "2025-03-10" || in.Time != "18:00:00" || in.Recurrence != "weekly" || in.DaysOfWeek != "Monday,Thursday" {
		t.Fatalf("input = %#v", in)
	}

	if _, _, err := d.BeginSave(now); !errors.Is(err, ErrBusy) {
		t.Fatalf("second BeginSave error = %v, want ErrBusy", err)
	}
	if d.Close().Phase != Creating {
		t.Fatalf("Close while busy closed the dialog")
	}

	d, closed := d.Finish(nil)
	if !closed || d.Open() {
		t.Fatalf("Finish(nil) closed=%v open=%v, want closed", closed, d.Open())
	}
}

func TestDialogRejectsPastStartWithoutBusy(t *testing.T) {
	slot := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	d := NewDialog(time.UTC).OpenCreate(slot)
	next, _, err := d.BeginSave(now)
	if !errors.Is(err, ErrPastSession) {
		t.Fatalf("BeginSave error = %v, want ErrPastSession", err)
	}
	if next.Busy {
		t.Fatalf("rejected save left the dialog busy")
	}
	if next.Values.Date != d.Values.Date || next.Values.Time != d.Values.Time {
		t.Fatalf("rejected save changed the values")
	}
}

func TestDialogValidation(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	base := NewDialog(time.UTC).OpenCreate(time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		d    Dialog
	}{
		{"bad date", base.SetDate("04/03/2025")},
		{"bad time", base.SetTime("9am")},
		{"empty date", base.SetDate("")},
		{"bad recurrence", base.SetRecurrence(Recurrence("daily"))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.d.BeginSave(now)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("BeginSave error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestDialogEditPrefillsAndDeletes(t *testing.T) {
	s := weeklySession(time.Monday, time.Thursday)
	occ := Expand([]Session{s}, ExpandConfig{Now: anchorMonday, Location: time.UTC})[1]

	d := NewDialog(time.UTC).OpenEdit(occ, s)
	if d.Phase != Editing || d.SessionID != 5 {
		t.Fatalf("OpenEdit = phase %v session %d", d.Phase, d.SessionID)
	}
	if d.Values.Date != "2025-03-06" || d.Values.Time != "18:00" || d.Values.Recurrence != "weekly" {
		t.Fatalf("prefilled values = %#v", d.Values)
	}
	if !d.HasDay(time.Monday) || !d.HasDay(time.Thursday) || d.HasDay(time.Friday) {
		t.Fatalf("prefilled days = %v", d.Values.Days)
	}

	d, id, err := d.BeginDelete()
	if err != nil || id != 5 {
		t.Fatalf("BeginDelete = %d, %v", id, err)
	}
	if _, _, err := d.BeginDelete(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second BeginDelete error = %v, want ErrBusy", err)
	}
}

func TestDialogFinishErrorKeepsValues(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	d := NewDialog(time.UTC).OpenCreate(time.Date(2025, time.March, 5, 7, 0, 0, 0, time.UTC))
	d = d.SetTime("07:45")
	d, _, err := d.BeginSave(now)
	if err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}

	d, closed := d.Finish(errors.New("execute request: dial tcp: connection refused"))
	if closed || !d.Open() {
		t.Fatalf("Finish(err) closed the dialog")
	}
	if d.Busy {
		t.Fatalf("Busy = true after Finish")
	}
	if d.Err != "server is offline" {
		t.Fatalf("Err = %q, want server is offline", d.Err)
	}
	if d.Values.Time != "07:45" {
		t.Fatalf("Time = %q, want 07:45", d.Values.Time)
	}

	if _, _, err := d.BeginSave(now); err != nil {
		t.Fatalf("retry BeginSave returned error: %v", err)
	}
}

func TestDialogClosedAndCreateModeGuards(t *testing.T) {
	now := time.Now()
	closed := NewDialog(time.UTC)
	if _, _, err := closed.BeginSave(now); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("BeginSave on closed dialog error = %v, want ErrNotOpen", err)
	}
	create := closed.OpenCreate(now.Add(time.Hour))
	if _, _, err := create.BeginDelete(); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("BeginDelete in create mode error = %v, want ErrNotEditing", err)
	}
	toggled := create.ToggleDay(time.Sunday).ToggleDay(time.Sunday)
	if len(toggled.Values.Days) != 0 {
		t.Fatalf("double toggle left days %v", toggled.Values.Days)
	}
}
