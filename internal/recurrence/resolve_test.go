package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expandSeptember(t *testing.T) []Occurrence {
	t.Helper()
	conv := newConv(t)
	occs, err := Expand(conv, testPattern(), Bounds{}, Bounds{Start: "2025-09-01", End: "2025-09-10"}, testMeta())
	require.NoError(t, err)
	require.Len(t, occs, 4) // Sep 1, 3, 8, 10
	return occs
}

func TestResolveNoExceptionsPassThrough(t *testing.T) {
	occs := expandSeptember(t)

	resolved := Resolve(occs, nil)
	require.Len(t, resolved, 4)
	for i := range occs {
		assert.Equal(t, occs[i].ID, resolved[i].ID)
		assert.Equal(t, StateScheduled, resolved[i].State)
	}
}

func TestResolveAllDayExceptionCancels(t *testing.T) {
	occs := expandSeptember(t)

	closure := Exception{
		ID:        "exc-1",
		StartDate: "2025-09-03",
		EndDate:   "2025-09-08",
		Name:      "Facility Closed",
	}

	resolved := Resolve(occs, []Exception{closure})
	require.Len(t, resolved, 2)
	assert.Equal(t, "pat-1-2025-09-01", resolved[0].ID)
	assert.Equal(t, "pat-1-2025-09-10", resolved[1].ID)
}

func TestResolveTimeScopedExceptionSubstitutes(t *testing.T) {
	occs := expandSeptember(t)

	// Occurrences run 16:00-17:30; this window overlaps their tail.
	start, end := "17:00:00", "20:00:00"
	meet := Exception{
		ID:        "exc-2",
		StartDate: "2025-09-03",
		EndDate:   "2025-09-03",
		StartTime: &start,
		EndTime:   &end,
		Name:      "Home Meet",
		Notes:     "Spectators welcome",
	}

	resolved := Resolve(occs, []Exception{meet})
	require.Len(t, resolved, 4)

	variant := resolved[1]
	assert.Equal(t, "pat-1-2025-09-03", variant.ID)
	assert.Equal(t, "Rec Gymnastics (Home Meet)", variant.Title)
	assert.Equal(t, "Spectators welcome", variant.Description)
	assert.Equal(t, ExceptionColor, variant.Color)
	assert.Equal(t, StateException, variant.State)
	require.NotNil(t, variant.Exception)
	assert.Equal(t, "exc-2", variant.Exception.ID)

	// Surrounding occurrences stay untouched and in order.
	assert.Equal(t, StateScheduled, resolved[0].State)
	assert.Equal(t, StateScheduled, resolved[2].State)
}

func TestResolveNonOverlappingWindowIgnored(t *testing.T) {
	occs := expandSeptember(t)

	start, end := "18:00:00", "20:00:00" // after the 16:00-17:30 occurrence
	late := Exception{
		ID:        "exc-3",
		StartDate: "2025-09-03",
		EndDate:   "2025-09-03",
		StartTime: &start,
		EndTime:   &end,
		Name:      "Evening Rental",
	}

	resolved := Resolve(occs, []Exception{late})
	require.Len(t, resolved, 4)
	assert.Equal(t, StateScheduled, resolved[1].State)
}

func TestResolveFirstMatchWins(t *testing.T) {
	occs := expandSeptember(t)

	start, end := "16:30:00", "17:00:00"
	timeScoped := Exception{
		ID:        "exc-b",
		StartDate: "2025-09-03",
		EndDate:   "2025-09-03",
		StartTime: &start,
		EndTime:   &end,
		Name:      "Photo Day",
	}
	allDay := Exception{
		ID:        "exc-a",
		StartDate: "2025-09-03",
		EndDate:   "2025-09-03",
		Name:      "Closure",
	}

	// Same date and same specificity: the ID tiebreak sorts exc-a first, so
	// the all-day cancellation wins regardless of input order.
	forward := Resolve(occs, []Exception{allDay, timeScoped})
	backward := Resolve(occs, []Exception{timeScoped, allDay})
	require.Len(t, forward, 3)
	require.Equal(t, len(forward), len(backward))
	for i := range forward {
		assert.Equal(t, forward[i].ID, backward[i].ID)
	}
}

func TestResolveActivitySpecificBeforeGymWide(t *testing.T) {
	occs := expandSeptember(t)

	activity := "act-1"
	start, end := "16:00:00", "17:00:00"
	specific := Exception{
		ID:         "exc-z",
		ActivityID: &activity,
		StartDate:  "2025-09-03",
		EndDate:    "2025-09-03",
		StartTime:  &start,
		EndTime:    &end,
		Name:       "Team Practice",
	}
	gymWide := Exception{
		ID:        "exc-a",
		StartDate: "2025-09-03",
		EndDate:   "2025-09-03",
		Name:      "Closure",
	}

	resolved := Resolve(occs, []Exception{gymWide, specific})
	require.Len(t, resolved, 4)
	assert.Equal(t, StateException, resolved[1].State)
	assert.Equal(t, "exc-z", resolved[1].Exception.ID)
}

func TestResolveScopeFiltering(t *testing.T) {
	occs := expandSeptember(t)

	other := "act-other"
	foreign := Exception{
		ID:         "exc-4",
		ActivityID: &other,
		StartDate:  "2025-09-01",
		EndDate:    "2025-09-30",
		Name:       "Other Program Closure",
	}

	resolved := Resolve(occs, []Exception{foreign})
	assert.Len(t, resolved, 4)
}

func TestResolveDeterministicAcrossCalls(t *testing.T) {
	occs := expandSeptember(t)
	excs := []Exception{
		{ID: "exc-1", StartDate: "2025-09-08", EndDate: "2025-09-08", Name: "Closure"},
		{ID: "exc-2", StartDate: "2025-09-01", EndDate: "2025-09-01", Name: "Closure"},
	}

	first := Resolve(occs, excs)
	second := Resolve(occs, excs)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].Start.Equal(second[i].Start))
	}
}

func TestWeekdayCodeRoundTrip(t *testing.T) {
	for code, wd := range map[string]time.Weekday{"SU": time.Sunday, "MO": time.Monday, "SA": time.Saturday} {
		got, ok := WeekdayFromCode(code)
		require.True(t, ok)
		assert.Equal(t, wd, got)
		assert.Equal(t, code, WeekdayCode(wd))
	}
	_, ok := WeekdayFromCode("XX")
	assert.False(t, ok)
}
