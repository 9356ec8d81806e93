package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dertown/dertown-api/internal/dto"
	"github.com/dertown/dertown-api/internal/models"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

type stubActivityRepo struct {
	activities    []models.ActivityDetail
	activity      *models.ActivityDetail
	pattern       *models.RecurrencePattern
	patternErr    error
	exceptions    []models.CalendarException
	exceptionsErr error
}

func (r *stubActivityRepo) List(ctx context.Context) ([]models.ActivityDetail, error) {
	return r.activities, nil
}

func (r *stubActivityRepo) FindByID(ctx context.Context, id string) (*models.ActivityDetail, error) {
	if r.activity == nil || r.activity.ID != id {
		return nil, sql.ErrNoRows
	}
	return r.activity, nil
}

func (r *stubActivityRepo) GetPattern(ctx context.Context, patternID string) (*models.RecurrencePattern, error) {
	if r.patternErr != nil {
		return nil, r.patternErr
	}
	if r.pattern == nil {
		return nil, sql.ErrNoRows
	}
	return r.pattern, nil
}

func (r *stubActivityRepo) ListExceptions(ctx context.Context, activityID, startDate, endDate string) ([]models.CalendarException, error) {
	if r.exceptionsErr != nil {
		return nil, r.exceptionsErr
	}
	return r.exceptions, nil
}

// 2025-09-01 is a Monday; MO/WE at 17:00 local gives four meetings in the
// first ten days of September.
func soccerActivity() *models.ActivityDetail {
	return &models.ActivityDetail{
		Activity: models.Activity{
			ID:                  "act-1",
			Name:                "Youth Soccer",
			Description:         strPtr("Drop-in practice"),
			RecurrencePatternID: strPtr("pat-1"),
			SeasonStart:         strPtr("2025-09-01"),
			SeasonEnd:           strPtr("2025-12-01"),
			Color:               strPtr("#1d4ed8"),
			Status:              models.EventStatusApproved,
		},
		LocationName: strPtr("Community Gym"),
	}
}

func soccerPattern() *models.RecurrencePattern {
	return &models.RecurrencePattern{
		PatternID: "pat-1",
		Weekdays:  pq.StringArray{"MO", "WE"},
		StartTime: "17:00:00",
		EndTime:   "18:00:00",
		Interval:  1,
	}
}

func newTestCalendarService(t *testing.T, repo *stubActivityRepo) *CalendarService {
	t.Helper()
	svc := NewCalendarService(repo, nil, testConverter(t), "dertown.org", nil)
	svc.now = fixedNow
	return svc
}

func TestCalendarServiceOccurrences(t *testing.T) {
	repo := &stubActivityRepo{activity: soccerActivity(), pattern: soccerPattern()}
	svc := newTestCalendarService(t, repo)

	out, err := svc.Occurrences(context.Background(), dto.OccurrenceRequest{
		ActivityID: "act-1",
		StartDate:  "2025-09-01",
		EndDate:    "2025-09-10",
	})
	require.NoError(t, err)
	require.Len(t, out, 4)

	first := out[0]
	assert.Equal(t, "act-1", first.ActivityID)
	assert.Equal(t, "Youth Soccer", first.Title)
	assert.Equal(t, "Community Gym", first.Location)
	assert.Equal(t, "2025-09-01", first.Date)
	assert.Equal(t, "17:00:00", first.StartTime)
	assert.Equal(t, "18:00:00", first.EndTime)
	assert.Equal(t, "2025-09-01T17:00:00-07:00", first.Start)
	assert.Equal(t, "2025-09-02T00:00:00Z", first.StartUTC)
	assert.False(t, first.IsException)

	assert.Equal(t, "2025-09-03", out[1].Date)
	assert.Equal(t, "2025-09-08", out[2].Date)
	assert.Equal(t, "2025-09-10", out[3].Date)
}

func TestCalendarServiceOccurrencesAllDayExceptionCancels(t *testing.T) {
	repo := &stubActivityRepo{
		activity: soccerActivity(),
		pattern:  soccerPattern(),
		exceptions: []models.CalendarException{
			{ExceptionID: "exc-1", Name: "Facility Closed", StartDate: "2025-09-08", EndDate: "2025-09-08"},
		},
	}
	svc := newTestCalendarService(t, repo)

	out, err := svc.Occurrences(context.Background(), dto.OccurrenceRequest{
		ActivityID: "act-1",
		StartDate:  "2025-09-01",
		EndDate:    "2025-09-10",
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, occ := range out {
		assert.NotEqual(t, "2025-09-08", occ.Date)
	}
}

func TestCalendarServiceOccurrencesTimeScopedException(t *testing.T) {
	repo := &stubActivityRepo{
		activity: soccerActivity(),
		pattern:  soccerPattern(),
		exceptions: []models.CalendarException{
			{
				ExceptionID: "exc-2",
				Name:        "Early Close",
				Notes:       strPtr("Gym closes at 17:30"),
				StartDate:   "2025-09-10",
				EndDate:     "2025-09-10",
				StartTime:   strPtr("17:30:00"),
				EndTime:     strPtr("20:00:00"),
			},
		},
	}
	svc := newTestCalendarService(t, repo)

	out, err := svc.Occurrences(context.Background(), dto.OccurrenceRequest{
		ActivityID: "act-1",
		StartDate:  "2025-09-01",
		EndDate:    "2025-09-10",
	})
	require.NoError(t, err)
	require.Len(t, out, 4)

	last := out[3]
	assert.True(t, last.IsException)
	assert.Equal(t, "Youth Soccer (Early Close)", last.Title)
	require.NotNil(t, last.ExceptionID)
	assert.Equal(t, "exc-2", *last.ExceptionID)
	require.NotNil(t, last.ExceptionName)
	assert.Equal(t, "Early Close", *last.ExceptionName)
}

func TestCalendarServiceOccurrencesIgnoresExceptions(t *testing.T) {
	activity := soccerActivity()
	activity.IgnoreExceptions = true
	repo := &stubActivityRepo{
		activity: activity,
		pattern:  soccerPattern(),
		exceptions: []models.CalendarException{
			{ExceptionID: "exc-1", Name: "Facility Closed", StartDate: "2025-09-08", EndDate: "2025-09-08"},
		},
	}
	svc := newTestCalendarService(t, repo)

	out, err := svc.Occurrences(context.Background(), dto.OccurrenceRequest{
		ActivityID: "act-1",
		StartDate:  "2025-09-01",
		EndDate:    "2025-09-10",
	})
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestCalendarServiceOccurrencesMissingRange(t *testing.T) {
	svc := newTestCalendarService(t, &stubActivityRepo{activity: soccerActivity()})

	_, err := svc.Occurrences(context.Background(), dto.OccurrenceRequest{ActivityID: "act-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCalendarServiceOccurrencesUnknownActivity(t *testing.T) {
	svc := newTestCalendarService(t, &stubActivityRepo{})

	_, err := svc.Occurrences(context.Background(), dto.OccurrenceRequest{
		ActivityID: "missing",
		StartDate:  "2025-09-01",
		EndDate:    "2025-09-10",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCalendarServiceOccurrencesWithoutPattern(t *testing.T) {
	activity := soccerActivity()
	activity.RecurrencePatternID = nil
	svc := newTestCalendarService(t, &stubActivityRepo{activity: activity})

	out, err := svc.Occurrences(context.Background(), dto.OccurrenceRequest{
		ActivityID: "act-1",
		StartDate:  "2025-09-01",
		EndDate:    "2025-09-10",
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCalendarServiceActivityICal(t *testing.T) {
	repo := &stubActivityRepo{
		activity: soccerActivity(),
		pattern:  soccerPattern(),
		exceptions: []models.CalendarException{
			{ExceptionID: "exc-1", Name: "Facility Closed", Notes: strPtr("Holiday"), StartDate: "2025-09-08", EndDate: "2025-09-08"},
		},
	}
	svc := newTestCalendarService(t, repo)

	body, filename, err := svc.ActivityICal(context.Background(), "act-1")
	require.NoError(t, err)
	assert.Equal(t, "Youth_Soccer.ics", filename)

	text := string(body)
	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "SUMMARY:Youth Soccer")
	assert.Contains(t, text, "DTSTART;TZID=America/Los_Angeles:20250901T170000")
	assert.Contains(t, text, "DTEND;TZID=America/Los_Angeles:20250901T180000")
	assert.Contains(t, text, "RRULE:FREQ=WEEKLY;BYDAY=MO,WE;UNTIL=20251201T235959Z")
	assert.Contains(t, text, "SUMMARY:Facility Closed")
	assert.Contains(t, text, "DTSTART;TZID=America/Los_Angeles:20250908T000000")
	assert.Contains(t, text, "END:VCALENDAR")
}

func TestCalendarServiceActivityICalInterval(t *testing.T) {
	pattern := soccerPattern()
	pattern.Interval = 2
	repo := &stubActivityRepo{activity: soccerActivity(), pattern: pattern}
	svc := newTestCalendarService(t, repo)

	body, _, err := svc.ActivityICal(context.Background(), "act-1")
	require.NoError(t, err)
	assert.Contains(t, string(body), "RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE;UNTIL=20251201T235959Z")
}

func TestCalendarServiceActivityICalIgnoreExceptions(t *testing.T) {
	activity := soccerActivity()
	activity.IgnoreExceptions = true
	repo := &stubActivityRepo{
		activity: activity,
		pattern:  soccerPattern(),
		exceptions: []models.CalendarException{
			{ExceptionID: "exc-1", Name: "Facility Closed", StartDate: "2025-09-08", EndDate: "2025-09-08"},
		},
	}
	svc := newTestCalendarService(t, repo)

	body, _, err := svc.ActivityICal(context.Background(), "act-1")
	require.NoError(t, err)
	assert.NotContains(t, string(body), "Facility Closed")
}
