package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pampup/pamp/internal/pamp"
)

var (
	// ErrPastSession rejects saving a session that starts before now.
	ErrPastSession = errors.New("session starts in the past")
	// ErrBusy rejects a second save or delete while one is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNotOpen is returned when acting on a closed dialog.
	ErrNotOpen = errors.New("dialog is not open")
	// ErrNotEditing is returned when deleting from the create dialog.
	ErrNotEditing = errors.New("only stored sessions can be deleted")
	// ErrInvalid wraps field validation failures.
	ErrInvalid = errors.New("invalid session")
)

// Phase is the dialog's lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Creating
	Editing
)

// DialogMode says what the dialog was opened for.
type DialogMode interface {
	dialogMode()
}

// CreateMode opens the dialog on an empty calendar slot.
type CreateMode struct {
	Slot time.Time
}

// EditMode opens the dialog on an existing occurrence.
type EditMode struct {
	Occurrence Occurrence
}

func (CreateMode) dialogMode() {}
func (EditMode) dialogMode()   {}

// Values are the editable fields of the dialog.
type Values struct {
	Date       string   `validate:"required,datetime=2006-01-02"`
	Time       string   `validate:"required,datetime=15:04"`
	Recurrence string   `validate:"required,oneof=once weekly"`
	Days       []string `validate:"dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
}

var validate = validator.New()

// Dialog is the create/edit session dialog. Like draft.Draft it is a value:
// every transition returns the next state.
type Dialog struct {
	Phase  Phase
	Mode   DialogMode
	Values Values
	// SessionID is the stored session being edited.
	SessionID int64
	// Busy is set between BeginSave/BeginDelete and Finish.
	Busy bool
	// Err is the inline message of the last failed request.
	Err string

	loc *time.Location
}

// NewDialog returns a closed dialog interpreting dates in loc.
func NewDialog(loc *time.Location) Dialog {
	if loc == nil {
		loc = time.Local
	}
	return Dialog{loc: loc}
}

// Open reports whether the dialog is showing.
func (d Dialog) Open() bool { return d.Phase != Idle }

// OpenCreate opens the dialog on slot with date and time prefilled.
func (d Dialog) OpenCreate(slot time.Time) Dialog {
	slot = slot.In(d.location())
	return Dialog{
		Phase: Creating,
		Mode:  CreateMode{Slot: slot},
		Values: Values{
			Date:       slot.Format(dateLayout),
			Time:       slot.Format(clockLayout),
			Recurrence: string(Once),
		},
		loc: d.loc,
	}
}

// OpenEdit opens the dialog on occ, taking recurrence and days from the stored
// session it came from.
func (d Dialog) OpenEdit(occ Occurrence, s Session) Dialog {
	start := occ.Start.In(d.location())
	var days []string
	for _, wd := range s.Days {
		days = append(days, wd.String())
	}
	rec := s.Recurrence
	if rec == "" {
		rec = Once
	}
	return Dialog{
		Phase:     Editing,
		Mode:      EditMode{Occurrence: occ},
		SessionID: s.ID,
		Values: Values{
			Date:       start.Format(dateLayout),
			Time:       start.Format(clockLayout),
			Recurrence: string(rec),
			Days:       days,
		},
		loc: d.loc,
	}
}

// Close discards the dialog. A dialog with a request in flight stays open.
func (d Dialog) Close() Dialog {
	if d.Busy {
		return d
	}
	return Dialog{loc: d.loc}
}

// SetDate sets the YYYY-MM-DD date field.
func (d Dialog) SetDate(value string) Dialog {
	d.Values.Date = strings.TrimSpace(value)
	return d
}

// SetTime sets the HH:MM time field.
func (d Dialog) SetTime(value string) Dialog {
	d.Values.Time = strings.TrimSpace(value)
	return d
}

// SetRecurrence sets the recurrence field.
func (d Dialog) SetRecurrence(r Recurrence) Dialog {
	d.Values.Recurrence = string(r)
	return d
}

// ToggleDay adds or removes wd from the selected days.
func (d Dialog) ToggleDay(wd time.Weekday) Dialog {
	name := wd.String()
	days := make([]string, 0, len(d.Values.Days)+1)
	found := false
	for _, day := range d.Values.Days {
		if day == name {
			found = true
			continue
		}
		days = append(days, day)
	}
	if !found {
		days = append(days, name)
	}
	d.Values.Days = days
	return d
}

// HasDay reports whether wd is selected.
func (d Dialog) HasDay(wd time.Weekday) bool {
	for _, day := range d.Values.Days {
		if day == wd.String() {
			return true
		}
	}
	return false
}

// Start parses the entered date and time in the dialog's location.
func (d Dialog) Start() (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+clockLayout, d.Values.Date+" "+d.Values.Time, d.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date or time: %v", ErrInvalid, err)
	}
	return t, nil
}

// BeginSave validates the entered values and marks the dialog busy. It fails
// without side effects when the values are invalid, the start is before now,
// or a request is already in flight.
func (d Dialog) BeginSave(now time.Time) (Dialog, pamp.TrainingSessionInput, error) {
	if d.Phase == Idle {
		return d, pamp.TrainingSessionInput{}, ErrNotOpen
	}
	if d.Busy {
		return d, pamp.TrainingSessionInput{}, ErrBusy
	}
	if err := validate.Struct(d.Values); err != nil {
		return d, pamp.TrainingSessionInput{}, fmt.Errorf("%w: %s", ErrInvalid, describeValidation(err))
	}
	start, err := d.Start()
	if err != nil {
		return d, pamp.TrainingSessionInput{}, err
	}
	if start.Before(now) {
		return d, pamp.TrainingSessionInput{}, ErrPastSession
	}

	in := pamp.TrainingSessionInput{
		Date:       start.Format(dateLayout),
		Time:       start.Format(wireTimeLayout),
		Recurrence: d.Values.Recurrence,
	}
	if Recurrence(d.Values.Recurrence) == Weekly {
		in.DaysOfWeek = strings.Join(orderedDays(d.Values.Days), ",")
	}
	d.Busy = true
	d.Err = ""
	return d, in, nil
}

// BeginDelete marks the dialog busy and returns the session to delete.
func (d Dialog) BeginDelete() (Dialog, int64, error) {
	if d.Phase == Idle {
		return d, 0, ErrNotOpen
	}
	if d.Phase != Editing || d.SessionID == 0 {
		return d, 0, ErrNotEditing
	}
	if d.Busy {
		return d, 0, ErrBusy
	}
	d.Busy = true
	d.Err = ""
	return d, d.SessionID, nil
}

// Finish ends the request started by BeginSave or BeginDelete. On failure the
// dialog stays open with the message and the entered values; on success it
// closes. The bool reports whether the dialog closed.
func (d Dialog) Finish(err error) (Dialog, bool) {
	d.Busy = false
	if err != nil {
		d.Err = pamp.Message(err)
		return d, false
	}
	return Dialog{loc: d.loc}, true
}

func (d Dialog) location() *time.Location {
	if d.loc == nil {
		return time.Local
	}
	return d.loc
}

// orderedDays returns names Monday first, without duplicates.
func orderedDays(names []string) []string {
	selected := map[string]bool{}
	for _, n := range names {
		selected[n] = true
	}
	out := make([]string, 0, len(selected))
	for i := 1; i <= 7; i++ {
		name := time.Weekday(i % 7).String()
		if selected[name] {
			out = append(out, name)
		}
	}
	return out
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must look like %s", strings.ToLower(fe.Field()), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s %q is not allowed", strings.ToLower(fe.Field()), fe.Value()))
		}
	}
	return strings.Join(parts, ", ")
}
