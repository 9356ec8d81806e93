// Package feed renders stored events into the wire formats external
// calendar consumers expect: iCalendar documents, RSS 2.0 items, and
// provider deep links. All rendering is a pure function of the event rows,
// the reference timezone, and the clock value the caller passes in.
package feed

import (
	"time"

	"github.com/dertown/dertown-api/internal/timezone"
)

// Event is the exporter-facing shape of a stored event row. A nil StartTime
// marks an all-day event; a stored "00:00:00" is a real midnight start.
type Event struct {
	ID          string
	Title       string
	Description string
	StartDate   string
	EndDate     *string
	StartTime   *string
	EndTime     *string
	Location    string
	URL         string
}

// Window is an event's resolved time span: exact start and end instants plus
// the all-day tag that decides which encoding the exporters use.
type Window struct {
	Start  timezone.Instant
	End    timezone.Instant
	AllDay bool
}

// ResolveWindow composes an event's start and end instants, applying the
// end-time fallback ladder when no explicit end exists:
//
//  1. end date + end time    -> composed directly
//  2. end date only          -> 23:59:59 of that date
//  3. end time only          -> same start date at that time
//  4. nothing                -> start + defaultDuration
//
// All-day events (nil start time) start at reference-zone midnight; their
// end is exclusive, midnight of the day after the stated end date (or after
// the start date when no end date is given).
func ResolveWindow(conv *timezone.Converter, ev Event, defaultDuration time.Duration) (Window, error) {
	if ev.StartTime == nil {
		return resolveAllDay(conv, ev)
	}

	start, err := conv.ToInstant(ev.StartDate, ev.StartTime)
	if err != nil {
		return Window{}, err
	}

	var end timezone.Instant
	switch {
	case ev.EndDate != nil && ev.EndTime != nil:
		end, err = conv.ToInstant(*ev.EndDate, ev.EndTime)
	case ev.EndDate != nil:
		endOfDay := "23:59:59"
		end, err = conv.ToInstant(*ev.EndDate, &endOfDay)
	case ev.EndTime != nil:
		end, err = conv.ToInstant(ev.StartDate, ev.EndTime)
	default:
		end = start.Add(defaultDuration)
	}
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

func resolveAllDay(conv *timezone.Converter, ev Event) (Window, error) {
	start, err := conv.ToInstant(ev.StartDate, nil)
	if err != nil {
		return Window{}, err
	}
	lastDay := ev.StartDate
	if ev.EndDate != nil {
		lastDay = *ev.EndDate
	}
	dayAfter, err := conv.AddDays(lastDay, 1)
	if err != nil {
		return Window{}, err
	}
	end, err := conv.ToInstant(dayAfter, nil)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end, AllDay: true}, nil
}
