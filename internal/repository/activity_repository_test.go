package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dertown/dertown-api/internal/models"
)

func newActivityMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var activityRowColumns = []string{
	"id", "name", "description", "location_id", "location_details",
	"website", "recurrence_pattern_id", "season_start", "season_end",
	"ignore_exceptions", "color", "status", "created_at", "updated_at",
	"location_name",
}

func TestActivityRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	rows := sqlmock.NewRows(activityRowColumns).
		AddRow("act-1", "Youth Soccer", nil, "loc-1", nil,
			nil, "pat-1", "2025-09-01", "2025-12-15",
			false, "#0369a1", string(models.EventStatusApproved), time.Now(), time.Now(),
			"Community Gym")
	mock.ExpectQuery("SELECT a.id, a.name, .* FROM activities a").
		WithArgs("act-1").
		WillReturnRows(rows)

	detail, err := repo.FindByID(context.Background(), "act-1")
	require.NoError(t, err)
	assert.Equal(t, "Youth Soccer", detail.Name)
	require.NotNil(t, detail.RecurrencePatternID)
	assert.Equal(t, "pat-1", *detail.RecurrencePatternID)
	require.NotNil(t, detail.SeasonStart)
	assert.Equal(t, "2025-09-01", *detail.SeasonStart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryGetPattern(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	rows := sqlmock.NewRows([]string{"pattern_id", "weekdays", "start_time", "end_time", "interval", "until", "created_at", "updated_at"}).
		AddRow("pat-1", "{MO,WE}", "16:00:00", "17:30:00", 2, "2025-12-15", time.Now(), time.Now())
	mock.ExpectQuery("SELECT pattern_id, weekdays,").
		WithArgs("pat-1").
		WillReturnRows(rows)

	pattern, err := repo.GetPattern(context.Background(), "pat-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"MO", "WE"}, []string(pattern.Weekdays))
	assert.Equal(t, "16:00:00", pattern.StartTime)
	assert.Equal(t, 2, pattern.Interval)
	require.NotNil(t, pattern.Until)
	assert.Equal(t, "2025-12-15", *pattern.Until)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListExceptions(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	rows := sqlmock.NewRows([]string{"exception_id", "activity_id", "name", "notes", "start_date", "end_date", "start_time", "end_time", "created_at", "updated_at"}).
		AddRow("exc-1", "act-1", "Tournament", "Gym reserved", "2025-09-08", "2025-09-08", nil, nil, time.Now(), time.Now()).
		AddRow("exc-2", nil, "Facility Closure", nil, "2025-11-27", "2025-11-28", nil, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT exception_id, activity_id, .* FROM calendar_exceptions").
		WithArgs("act-1", "2025-09-01", "2025-12-15").
		WillReturnRows(rows)

	exceptions, err := repo.ListExceptions(context.Background(), "act-1", "2025-09-01", "2025-12-15")
	require.NoError(t, err)
	require.Len(t, exceptions, 2)
	require.NotNil(t, exceptions[0].ActivityID)
	assert.Nil(t, exceptions[1].ActivityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
