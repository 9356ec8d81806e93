// Package timezone converts stored wall-clock dates and times, which are
// always interpreted in a single configured reference timezone, into exact
// instants and the string renderings the calendar exporters need.
package timezone

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate reports a date or time string that cannot be decomposed
// into calendar components. Callers treat it as a per-record failure, never
// a fatal one.
var ErrInvalidDate = errors.New("invalid date or time")

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Instant is an exact point in time carrying the reference-timezone offset
// in force at that point, sufficient to render any target format without
// recomputation.
type Instant struct {
	t time.Time
}

// Time exposes the underlying time, located in the reference timezone.
func (i Instant) Time() time.Time { return i.t }

// IsZero reports whether the instant is the zero value.
func (i Instant) IsZero() bool { return i.t.IsZero() }

// Add returns the instant shifted by d.
func (i Instant) Add(d time.Duration) Instant { return Instant{t: i.t.Add(d)} }

// Before reports whether i is strictly earlier than o.
func (i Instant) Before(o Instant) bool { return i.t.Before(o.t) }

// Equal reports whether both instants denote the same point in time.
func (i Instant) Equal(o Instant) bool { return i.t.Equal(o.t) }

// OffsetISO8601 renders YYYY-MM-DDTHH:mm:ss±HH:MM using the offset embedded
// in the instant.
func (i Instant) OffsetISO8601() string { return i.t.Format("2006-01-02T15:04:05-07:00") }

// UTCBasic renders YYYYMMDDTHHMMSSZ, the bare UTC basic form expected by
// iCalendar timestamps and Google Calendar date parameters.
func (i Instant) UTCBasic() string { return i.t.UTC().Format("20060102T150405Z") }

// UTCExtended renders YYYY-MM-DDTHH:mm:ssZ, used by Outlook deep links.
func (i Instant) UTCExtended() string { return i.t.UTC().Format("2006-01-02T15:04:05Z") }

// ReferenceBasic renders YYYYMMDDTHHMMSS as reference-zone wall-clock time,
// the form used for DTSTART values qualified with a TZID parameter.
func (i Instant) ReferenceBasic() string { return i.t.Format("20060102T150405") }

// Converter maps (calendar date, wall-clock time) pairs to instants and
// back. It is immutable and safe for concurrent use.
type Converter struct {
	zoneID string
	loc    *time.Location
}

// NewConverter loads the IANA zone the process stores all wall-clock values
// in.
func NewConverter(zoneID string) (*Converter, error) {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone %q: %w", zoneID, err)
	}
	return &Converter{zoneID: zoneID, loc: loc}, nil
}

// Zone returns the configured IANA zone identifier.
func (c *Converter) Zone() string { return c.zoneID }

// ToInstant resolves a calendar date plus optional time of day to the exact
// instant at that wall-clock moment in the reference zone. A nil timeOfDay
// means midnight of the date (the start of an all-day event). The UTC offset
// applied is whatever is in force at that specific moment, so results stay
// correct across daylight-saving transitions.
func (c *Converter) ToInstant(date string, timeOfDay *string) (Instant, error) {
	if date == "" {
		return Instant{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}
	clock := "00:00:00"
	if timeOfDay != nil {
		normalized, err := normalizeTimeOfDay(*timeOfDay)
		if err != nil {
			return Instant{}, err
		}
		clock = normalized
	}
	t, err := time.ParseInLocation(dateTimeLayout, date+"T"+clock, c.loc)
	if err != nil {
		return Instant{}, fmt.Errorf("%w: %q %q", ErrInvalidDate, date, clock)
	}
	return Instant{t: t}, nil
}

// ReferenceComponents is the inverse of ToInstant: it splits an instant back
// into the reference-zone calendar date and time of day.
func (c *Converter) ReferenceComponents(in Instant) (date string, timeOfDay string) {
	local := in.t.In(c.loc)
	return local.Format(dateLayout), local.Format("15:04:05")
}

// Today returns the reference-zone calendar date of now as YYYY-MM-DD.
func (c *Converter) Today(now time.Time) string {
	return now.In(c.loc).Format(dateLayout)
}

// Weekday returns the weekday of a calendar date string.
func (c *Converter) Weekday(date string) (time.Weekday, error) {
	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t.Weekday(), nil
}

// AddDays shifts a calendar date string by n days.
func (c *Converter) AddDays(date string, n int) (string, error) {
	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t.AddDate(0, 0, n).Format(dateLayout), nil
}

// normalizeTimeOfDay accepts HH:MM:SS or HH:MM (seconds zero-padded) and
// rejects anything else.
func normalizeTimeOfDay(raw string) (string, error) {
	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 2:
		parts = append(parts, "00")
	case 3:
	default:
		return "", fmt.Errorf("%w: time %q", ErrInvalidDate, raw)
	}
	for _, p := range parts {
		if len(p) != 2 {
			return "", fmt.Errorf("%w: time %q", ErrInvalidDate, raw)
		}
	}
	return strings.Join(parts, ":"), nil
}
