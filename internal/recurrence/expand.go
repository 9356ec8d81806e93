package recurrence

import (
	"fmt"
	"time"

	"github.com/dertown/dertown-api/internal/timezone"
)

// Expand walks every calendar date in the intersection of the activity's
// season bounds, the pattern's until bound, and the query range, and emits
// one occurrence for each date whose weekday belongs to the pattern's
// weekday set and whose week falls on the pattern's interval. The walk is
// single-pass and linear in the number of days in the window.
//
// A pattern with no weekdays, or a window whose effective start is after its
// effective end, yields an empty slice: a degenerate pattern is valid
// configuration, not an error.
func Expand(conv *timezone.Converter, p Pattern, season Bounds, query Bounds, meta Meta) ([]Occurrence, error) {
	if len(p.Weekdays) == 0 {
		return nil, nil
	}

	start := maxDate(season.Start, query.Start)
	end := minDate(season.End, query.End)
	if p.Until != nil {
		end = minDate(end, *p.Until)
	}
	if start == "" || end == "" || start > end {
		return nil, nil
	}

	startDay, err := parseDay(start)
	if err != nil {
		return nil, err
	}
	endDay, err := parseDay(end)
	if err != nil {
		return nil, err
	}

	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	anchorWeek := weekStart(startDay)

	var occurrences []Occurrence
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		if !p.Weekdays[day.Weekday()] {
			continue
		}
		if interval > 1 {
			weeks := int(weekStart(day).Sub(anchorWeek).Hours() / (24 * 7))
			if weeks%interval != 0 {
				continue
			}
		}
		date := day.Format("2006-01-02")
		occStart, err := conv.ToInstant(date, &p.StartTime)
		if err != nil {
			return nil, err
		}
		occEnd, err := conv.ToInstant(date, &p.EndTime)
		if err != nil {
			return nil, err
		}
		occurrences = append(occurrences, Occurrence{
			ID:          fmt.Sprintf("%s-%s", p.ID, date),
			Title:       meta.Title,
			Description: meta.Description,
			Start:       occStart,
			End:         occEnd,
			AllDay:      false,
			ActivityID:  meta.ActivityID,
			PatternID:   p.ID,
			Location:    meta.Location,
			Color:       meta.Color,
			State:       StateScheduled,
		})
	}
	return occurrences, nil
}

func parseDay(date string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", timezone.ErrInvalidDate, date)
	}
	return t, nil
}

// weekStart returns the Monday beginning the week containing t.
func weekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset)
}

// maxDate treats the empty string as an open bound. YYYY-MM-DD compares
// lexicographically in chronological order.
func maxDate(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a > b {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a < b {
		return a
	}
	return b
}
