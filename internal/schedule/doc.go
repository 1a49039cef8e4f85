// Package schedule expands training sessions into calendar occurrences and
// models the create/edit session dialog.
//
// # Expansion
//
// A once session produces one occurrence at its date and time. A weekly session
// produces an occurrence on every selected weekday, walking from the session's
// anchor date until the day whose midnight reaches now plus the horizon
// (four weeks by default). Expansion uses an RRULE (FREQ=WEEKLY;BYDAY=...)
// anchored at midnight of the session date, so days that are not selected
// produce nothing even when the anchor falls on them. Every occurrence lasts
// one hour. Occurrences are recomputed on each refresh and never stored.
//
// # Dialog
//
// Dialog is a small state machine: Idle, Creating (opened on an empty slot) or
// Editing (opened on an occurrence). BeginSave checks the entered values, and
// rejects starts before now and re-entry while a request is in flight. Finish
// closes the dialog on success and keeps it open with an inline message on
// failure.
//
// # Export
//
// WriteICS renders occurrences as an iCalendar file so they can be imported
// into another calendar application.
package schedule
