package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dertown/dertown-api/internal/models"
)

func newEventMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var eventRowColumns = []string{
	"id", "title", "description", "start_date", "end_date", "start_time", "end_time",
	"location_id", "organization_id", "primary_tag_id", "secondary_tag_id",
	"website", "cost", "email", "registration", "registration_link",
	"featured", "exclude_from_calendar", "status", "comments",
	"created_at", "updated_at",
	"location_name", "organization_name", "primary_tag_name", "secondary_tag_name",
}

func eventRow() []driverValue {
	return []driverValue{
		"ev-1", "Farmers Market", "Weekly market", "2025-09-06", nil, "19:00:00", nil,
		"loc-1", nil, nil, nil,
		nil, nil, nil, false, nil,
		false, false, string(models.EventStatusApproved), nil,
		time.Now(), time.Now(),
		"Front Street Park", nil, nil, nil,
	}
}

type driverValue = driver.Value

func TestEventRepositoryList(t *testing.T) {
	db, mock, cleanup := newEventMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("SELECT e.id, e.title, .* FROM events e").
		WithArgs(models.EventStatusApproved).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(eventRow()...))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e`).
		WithArgs(models.EventStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status := models.EventStatusApproved
	events, total, err := repo.List(context.Background(), models.EventFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Farmers Market", events[0].Title)
	require.NotNil(t, events[0].LocationName)
	assert.Equal(t, "Front Street Park", *events[0].LocationName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListCalendar(t *testing.T) {
	db, mock, cleanup := newEventMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("SELECT e.id, e.title, .* FROM events e").
		WithArgs(models.EventStatusApproved, "2025-09-01").
		WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(eventRow()...))

	events, err := repo.ListCalendar(context.Background(), "2025-09-01")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2025-09-06", events[0].StartDate)
	require.NotNil(t, events[0].StartTime)
	assert.Equal(t, "19:00:00", *events[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newEventMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("SELECT e.id, e.title, .* FROM events e").
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(eventRow()...))

	detail, err := repo.FindByID(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", detail.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEventMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{Title: "Farmers Market", StartDate: "2025-09-06"}
	err := repo.Create(context.Background(), event)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.EventStatusPending, event.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newEventMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("UPDATE events SET status").
		WithArgs(models.EventStatusApproved, "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "ev-1", models.EventStatusApproved)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newEventMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("UPDATE events SET status").
		WithArgs(models.EventStatusApproved, "ev-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "ev-404", models.EventStatusApproved)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
