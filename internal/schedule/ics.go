package schedule

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"
)

const icsProductID = "-//pamp//training sessions//EN"

// WriteICS writes occurrences as an iCalendar document. Each occurrence becomes
// its own VEVENT keyed by the occurrence key.
func WriteICS(w io.Writer, occ []Occurrence, calendarName string, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)
	if calendarName != "" {
		cal.SetXWRCalName(calendarName)
	}
	for _, o := range occ {
		ev := cal.AddEvent(o.Key + "@pamp")
		ev.SetDtStampTime(stamp.UTC())
		ev.SetStartAt(o.Start.UTC())
		ev.SetEndAt(o.End.UTC())
		ev.SetSummary(o.Title)
	}
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

// ExportICS writes occurrences to path, creating parent directories.
func ExportICS(path string, occ []Occurrence, calendarName string, stamp time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := WriteICS(f, occ, calendarName, stamp); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
