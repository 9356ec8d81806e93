package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dertown/dertown-api/internal/timezone"
)

func newConv(t *testing.T) *timezone.Converter {
	t.Helper()
	conv, err := timezone.NewConverter("America/Los_Angeles")
	require.NoError(t, err)
	return conv
}

func strPtr(s string) *string { return &s }

func timedEvent() Event {
	return Event{
		ID:        "ev-1",
		Title:     "Farmers Market",
		StartDate: "2025-09-06",
		StartTime: strPtr("19:00:00"),
	}
}

func TestResolveWindowExplicitEnd(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.EndDate = strPtr("2025-09-07")
	ev.EndTime = strPtr("10:00:00")

	w, err := ResolveWindow(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.False(t, w.AllDay)
	assert.Equal(t, "20250906T190000", w.Start.ReferenceBasic())
	assert.Equal(t, "20250907T100000", w.End.ReferenceBasic())
}

func TestResolveWindowEndDateOnlyIsEndOfDay(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.EndDate = strPtr("2025-09-07")

	w, err := ResolveWindow(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "20250907T235959", w.End.ReferenceBasic())
}

func TestResolveWindowEndTimeOnlyUsesStartDate(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.EndTime = strPtr("21:30:00")

	w, err := ResolveWindow(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "20250906T213000", w.End.ReferenceBasic())
}

func TestResolveWindowNoEndDefaultsToOneHour(t *testing.T) {
	conv := newConv(t)

	w, err := ResolveWindow(conv, timedEvent(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, w.End.Time().Sub(w.Start.Time()))
	assert.Equal(t, "20250906T200000", w.End.ReferenceBasic())
}

func TestResolveWindowAllDay(t *testing.T) {
	conv := newConv(t)
	ev := Event{ID: "ev-2", Title: "Street Fair", StartDate: "2025-09-06"}

	w, err := ResolveWindow(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.True(t, w.AllDay)
	assert.Equal(t, "20250906T000000", w.Start.ReferenceBasic())
	// Exclusive end: midnight of the following day.
	assert.Equal(t, "20250907T000000", w.End.ReferenceBasic())
}

func TestResolveWindowAllDayMultiDayExclusiveEnd(t *testing.T) {
	conv := newConv(t)
	ev := Event{ID: "ev-3", Title: "Oktoberfest", StartDate: "2025-10-03", EndDate: strPtr("2025-10-05")}

	w, err := ResolveWindow(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.True(t, w.AllDay)
	assert.Equal(t, "20251006T000000", w.End.ReferenceBasic())
}

func TestResolveWindowMidnightIsTimedNotAllDay(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.StartTime = strPtr("00:00:00")

	w, err := ResolveWindow(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.False(t, w.AllDay)
	assert.Equal(t, "20250906T000000", w.Start.ReferenceBasic())
	assert.Equal(t, "20250906T010000", w.End.ReferenceBasic())
}

func TestResolveWindowInvalidDate(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.StartDate = "09/06/2025"

	_, err := ResolveWindow(conv, ev, time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, timezone.ErrInvalidDate)
}

func TestIsCurrentOrFuture(t *testing.T) {
	today := "2025-09-06"

	assert.True(t, IsCurrentOrFuture("2025-09-06", nil, today), "event starting today is included")
	assert.False(t, IsCurrentOrFuture("2025-09-05", nil, today), "event one day past is excluded")
	assert.True(t, IsCurrentOrFuture("2025-09-07", nil, today), "event one day out is included")
	assert.True(t, IsCurrentOrFuture("2025-08-01", strPtr("2025-09-06"), today), "ongoing event is included")
	assert.False(t, IsCurrentOrFuture("2025-08-01", strPtr("2025-09-05"), today), "fully past event is excluded")
}
