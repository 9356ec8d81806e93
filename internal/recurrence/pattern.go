// Package recurrence expands weekly meeting patterns into concrete calendar
// occurrences and applies date/time-scoped exceptions to them. Every function
// here is a pure function of its inputs; occurrences are recomputed on each
// call and never persisted.
package recurrence

import (
	"time"

	"github.com/dertown/dertown-api/internal/timezone"
)

// Weekday codes as stored on pattern rows (two-letter iCalendar form).
var weekdayFromCode = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var codeFromWeekday = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// WeekdayFromCode maps a stored two-letter weekday code to time.Weekday.
func WeekdayFromCode(code string) (time.Weekday, bool) {
	wd, ok := weekdayFromCode[code]
	return wd, ok
}

// WeekdayCode maps a time.Weekday back to its stored two-letter code.
func WeekdayCode(wd time.Weekday) string { return codeFromWeekday[wd] }

// Pattern is a weekly recurrence rule: which weekdays an activity meets, at
// what time of day, how many weeks apart, and an optional inclusive end date.
type Pattern struct {
	ID        string
	Weekdays  map[time.Weekday]bool
	StartTime string // HH:MM:SS wall clock in the reference zone
	EndTime   string
	Interval  int     // weeks between meeting weeks; 1 = every week
	Until     *string // inclusive YYYY-MM-DD bound, nil = open-ended
}

// Bounds is an inclusive calendar-date window. Empty strings leave that side
// unbounded.
type Bounds struct {
	Start string
	End   string
}

// Meta carries the display fields stamped onto every occurrence a pattern
// produces.
type Meta struct {
	ActivityID  string
	Title       string
	Description string
	Location    string
	Color       string
}

// State tags the final disposition of an occurrence after exception
// resolution. Cancelled occurrences are removed from the sequence outright,
// so only the two surviving states appear on output.
type State int

const (
	// StateScheduled marks an occurrence untouched by any exception.
	StateScheduled State = iota
	// StateException marks an occurrence replaced by an exception variant.
	StateException
)

// ExceptionNote annotates an exception-variant occurrence with the exception
// that modified it.
type ExceptionNote struct {
	ID    string
	Name  string
	Notes string
}

// Occurrence is one concrete, time-bound instance produced by expanding a
// pattern. Identity is the (ID, Start) pair; two expansions of the same
// inputs yield equal occurrences but never shared objects.
type Occurrence struct {
	ID          string
	Title       string
	Description string
	Start       timezone.Instant
	End         timezone.Instant
	AllDay      bool
	ActivityID  string
	PatternID   string
	Location    string
	Color       string
	State       State
	Exception   *ExceptionNote // set only when State == StateException
}
