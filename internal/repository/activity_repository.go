package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dertown/dertown-api/internal/models"
)

const activityColumns = `a.id, a.name, a.description, a.location_id, a.location_details,
        a.website, a.recurrence_pattern_id,
        a.season_start::text AS season_start, a.season_end::text AS season_end,
        a.ignore_exceptions, a.color, a.status, a.created_at, a.updated_at,
        l.name AS location_name`

const activityJoins = `FROM activities a
        LEFT JOIN locations l ON l.id = a.location_id`

// ActivityRepository manages recurring programs together with their
// recurrence patterns and calendar exceptions.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns approved activities ordered by name.
func (r *ActivityRepository) List(ctx context.Context) ([]models.ActivityDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE a.status = $1 ORDER BY a.name ASC`, activityColumns, activityJoins)
	var activities []models.ActivityDetail
	if err := r.db.SelectContext(ctx, &activities, query, models.EventStatusApproved); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// FindByID fetches an activity with its display metadata.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*models.ActivityDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.id = $1", activityColumns, activityJoins)
	var detail models.ActivityDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetPattern returns the recurrence pattern for a pattern ID. Weekdays
// come back as a two-letter-code array; times keep their HH:MM:SS text.
func (r *ActivityRepository) GetPattern(ctx context.Context, patternID string) (*models.RecurrencePattern, error) {
	const query = `SELECT pattern_id, weekdays,
        start_time::text AS start_time, end_time::text AS end_time,
        COALESCE("interval", 1) AS interval, until::text AS until,
        created_at, updated_at
FROM recurrence_patterns WHERE pattern_id = $1`
	var pattern models.RecurrencePattern
	if err := r.db.GetContext(ctx, &pattern, query, patternID); err != nil {
		return nil, err
	}
	return &pattern, nil
}

// ListExceptions returns calendar exceptions touching the given date
// range that apply to the activity: rows scoped to that activity plus
// facility-wide rows (NULL activity_id).
func (r *ActivityRepository) ListExceptions(ctx context.Context, activityID, startDate, endDate string) ([]models.CalendarException, error) {
	const query = `SELECT exception_id, activity_id, name, notes,
        start_date::text AS start_date, end_date::text AS end_date,
        start_time::text AS start_time, end_time::text AS end_time,
        created_at, updated_at
FROM calendar_exceptions
WHERE (activity_id = $1 OR activity_id IS NULL)
  AND start_date <= $3::date
  AND end_date >= $2::date
ORDER BY start_date ASC, exception_id ASC`
	var exceptions []models.CalendarException
	if err := r.db.SelectContext(ctx, &exceptions, query, activityID, startDate, endDate); err != nil {
		return nil, fmt.Errorf("list calendar exceptions: %w", err)
	}
	return exceptions, nil
}
