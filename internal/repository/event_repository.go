package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dertown/dertown-api/internal/models"
)

// eventColumns selects an event row with its joined display names.
// Date and time columns are cast to text so the reference timezone is
// applied once, at export time, never by the database driver.
const eventColumns = `e.id, e.title, e.description,
        e.start_date::text AS start_date, e.end_date::text AS end_date,
        e.start_time::text AS start_time, e.end_time::text AS end_time,
        e.location_id, e.organization_id, e.primary_tag_id, e.secondary_tag_id,
        e.website, e.cost, e.email, e.registration, e.registration_link,
        e.featured, e.exclude_from_calendar, e.status, e.comments,
        e.created_at, e.updated_at,
        l.name AS location_name, o.name AS organization_name,
        pt.name AS primary_tag_name, st.name AS secondary_tag_name`

const eventJoins = `FROM events e
        LEFT JOIN locations l ON l.id = e.location_id
        LEFT JOIN organizations o ON o.id = e.organization_id
        LEFT JOIN tags pt ON pt.id = e.primary_tag_id
        LEFT JOIN tags st ON st.id = e.secondary_tag_id`

// EventRepository manages persistence for community events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events matching the provided filters.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.EventDetail, int, error) {
	base := eventJoins
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.TagID != "" {
		conditions = append(conditions, fmt.Sprintf("(e.primary_tag_id = $%d OR e.secondary_tag_id = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.TagID)
	}
	if filter.OrganizationID != "" {
		conditions = append(conditions, fmt.Sprintf("e.organization_id = $%d", len(args)+1))
		args = append(args, filter.OrganizationID)
	}
	if filter.LocationID != "" {
		conditions = append(conditions, fmt.Sprintf("e.location_id = $%d", len(args)+1))
		args = append(args, filter.LocationID)
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("e.featured = $%d", len(args)+1))
		args = append(args, *filter.Featured)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(e.title) LIKE $%d OR LOWER(e.description) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"start_date": "e.start_date",
		"title":      "e.title",
		"created_at": "e.created_at",
	}
	if sortBy == "" {
		sortBy = "start_date"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "e.start_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, e.start_time %s NULLS FIRST LIMIT %d OFFSET %d",
		eventColumns, base, column, order, order, size, offset)

	var events []models.EventDetail
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

// ListCalendar returns approved events eligible for feed export: events
// ending on or after the given reference-zone date and not excluded from
// the calendar.
func (r *EventRepository) ListCalendar(ctx context.Context, fromDate string) ([]models.EventDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s
        WHERE e.status = $1
          AND e.exclude_from_calendar = FALSE
          AND COALESCE(e.end_date, e.start_date) >= $2::date
        ORDER BY e.start_date ASC, e.start_time ASC NULLS FIRST, e.id ASC`, eventColumns, eventJoins)

	var events []models.EventDetail
	if err := r.db.SelectContext(ctx, &events, query, models.EventStatusApproved, fromDate); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// FindByID fetches a single event with its display metadata.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.EventDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.id = $1", eventColumns, eventJoins)
	var detail models.EventDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Status == "" {
		event.Status = models.EventStatusPending
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	query := `INSERT INTO events (id, title, description, start_date, end_date, start_time, end_time,
location_id, organization_id, primary_tag_id, secondary_tag_id, website, cost, email,
registration, registration_link, featured, exclude_from_calendar, status, comments, created_at, updated_at)
VALUES (:id, :title, :description, :start_date, :end_date, :start_time, :end_time,
:location_id, :organization_id, :primary_tag_id, :secondary_tag_id, :website, :cost, :email,
:registration, :registration_link, :featured, :exclude_from_calendar, :status, :comments, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update modifies an existing event row.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	query := `UPDATE events SET title = :title, description = :description,
start_date = :start_date, end_date = :end_date, start_time = :start_time, end_time = :end_time,
location_id = :location_id, organization_id = :organization_id,
primary_tag_id = :primary_tag_id, secondary_tag_id = :secondary_tag_id,
website = :website, cost = :cost, email = :email,
registration = :registration, registration_link = :registration_link,
featured = :featured, exclude_from_calendar = :exclude_from_calendar,
status = :status, comments = :comments, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus moves an event through the review workflow.
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, status models.EventStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event row.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
