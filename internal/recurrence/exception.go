package recurrence

import (
	"sort"
	"strconv"
	"strings"
)

// ExceptionColor marks occurrences rewritten by an exception so calendar
// widgets render them distinctly from regular meetings.
const ExceptionColor = "#b45309"

// Exception is a date/time-scoped override that cancels or modifies
// occurrences. A nil ActivityID means the exception applies gym-wide; an
// absent time window means the exception covers whole days.
type Exception struct {
	ID         string
	ActivityID *string
	StartDate  string // inclusive YYYY-MM-DD
	EndDate    string // inclusive
	StartTime  *string
	EndTime    *string
	Name       string
	Notes      string
}

// allDay reports whether the exception covers whole days rather than a time
// window.
func (e Exception) allDay() bool { return e.StartTime == nil || e.EndTime == nil }

func (e Exception) appliesTo(activityID string) bool {
	return e.ActivityID == nil || *e.ActivityID == activityID
}

// Resolve applies exceptions to expanded occurrences. For each occurrence
// the first matching exception wins: an all-day exception cancels the
// occurrence, a time-scoped exception whose window overlaps the occurrence's
// replaces it with an annotated variant. Occurrences no exception touches
// pass through unmodified, keeping their position.
//
// Exceptions are sorted deterministically before resolution (start date,
// then activity-specific before gym-wide, then ID) so that "first match"
// does not depend on storage iteration order.
func Resolve(occurrences []Occurrence, exceptions []Exception) []Occurrence {
	if len(exceptions) == 0 {
		return occurrences
	}

	sorted := make([]Exception, len(exceptions))
	copy(sorted, exceptions)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartDate != b.StartDate {
			return a.StartDate < b.StartDate
		}
		if (a.ActivityID != nil) != (b.ActivityID != nil) {
			return a.ActivityID != nil
		}
		return a.ID < b.ID
	})

	resolved := make([]Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		date := occ.Start.Time().Format("2006-01-02")
		kept := true
		final := occ
		for _, exc := range sorted {
			if !exc.appliesTo(occ.ActivityID) {
				continue
			}
			if date < exc.StartDate || date > exc.EndDate {
				continue
			}
			if exc.allDay() {
				kept = false
				break
			}
			if overlapsWindow(occ, exc) {
				final = exceptionVariant(occ, exc)
				break
			}
		}
		if kept {
			resolved = append(resolved, final)
		}
	}
	return resolved
}

func exceptionVariant(occ Occurrence, exc Exception) Occurrence {
	variant := occ
	variant.Title = occ.Title + " (" + exc.Name + ")"
	variant.Description = exc.Notes
	variant.Color = ExceptionColor
	variant.State = StateException
	variant.Exception = &ExceptionNote{ID: exc.ID, Name: exc.Name, Notes: exc.Notes}
	return variant
}

// overlapsWindow compares minute-of-day ranges, both half-open.
func overlapsWindow(occ Occurrence, exc Exception) bool {
	excStart, ok := minuteOfDay(*exc.StartTime)
	if !ok {
		return false
	}
	excEnd, ok := minuteOfDay(*exc.EndTime)
	if !ok {
		return false
	}
	t := occ.Start.Time()
	occStart := t.Hour()*60 + t.Minute()
	e := occ.End.Time()
	occEnd := e.Hour()*60 + e.Minute()
	return occStart < excEnd && excStart < occEnd
}

func minuteOfDay(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return 0, false
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hh*60 + mm, true
}
