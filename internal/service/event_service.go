package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/feed"
	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/internal/timezone"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.EventDetail, int, error)
	ListCalendar(ctx context.Context, fromDate string) ([]models.EventDetail, error)
	FindByID(ctx context.Context, id string) (*models.EventDetail, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id string, status models.EventStatus) error
	Delete(ctx context.Context, id string) error
}

// EventService handles the community event listing and review workflows.
type EventService struct {
	repo      eventRepository
	conv      *timezone.Converter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService constructs the service.
func NewEventService(repo eventRepository, conv *timezone.Converter, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, conv: conv, validator: validate, logger: logger, now: time.Now}
}

// EventListRequest describes filters for the public event listing.
type EventListRequest struct {
	TagID          string `json:"tag_id"`
	OrganizationID string `json:"organization_id"`
	LocationID     string `json:"location_id"`
	Search         string `json:"search"`
	IncludePast    bool   `json:"include_past"`
	Page           int    `json:"page"`
	PageSize       int    `json:"page_size"`
}

// AdminEventListRequest describes filters for the admin listing, which
// may address any review status.
type AdminEventListRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending approved archived"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// SaveEventRequest describes the create and update payload. Dates are
// YYYY-MM-DD and times HH:MM:SS wall clock in the reference zone.
type SaveEventRequest struct {
	Title               string  `json:"title" validate:"required"`
	Description         *string `json:"description"`
	StartDate           string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate             *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime           *string `json:"start_time" validate:"omitempty,datetime=15:04:05"`
	EndTime             *string `json:"end_time" validate:"omitempty,datetime=15:04:05"`
	LocationID          *string `json:"location_id"`
	OrganizationID      *string `json:"organization_id"`
	PrimaryTagID        *string `json:"primary_tag_id"`
	SecondaryTagID      *string `json:"secondary_tag_id"`
	Website             *string `json:"website" validate:"omitempty,url"`
	Cost                *string `json:"cost"`
	Email               *string `json:"email" validate:"omitempty,email"`
	Registration        bool    `json:"registration"`
	RegistrationLink    *string `json:"registration_link" validate:"omitempty,url"`
	Featured            bool    `json:"featured"`
	ExcludeFromCalendar bool    `json:"exclude_from_calendar"`
	Comments            *string `json:"comments"`
}

// ListPublic returns approved events that are current or upcoming in the
// reference zone, filtered and paginated.
func (s *EventService) ListPublic(ctx context.Context, req EventListRequest) ([]models.EventDetail, *models.Pagination, error) {
	status := models.EventStatusApproved
	filter := models.EventFilter{
		Status:         &status,
		TagID:          req.TagID,
		OrganizationID: req.OrganizationID,
		LocationID:     req.LocationID,
		Search:         req.Search,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 100
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	if !req.IncludePast {
		today := s.conv.Today(s.now())
		current := rows[:0]
		for _, row := range rows {
			if feed.IsCurrentOrFuture(row.StartDate, row.EndDate, today) {
				current = append(current, row)
			}
		}
		rows = current
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// ListAdmin returns events for the review dashboard.
func (s *EventService) ListAdmin(ctx context.Context, req AdminEventListRequest) ([]models.EventDetail, *models.Pagination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	filter := models.EventFilter{
		Search:    req.Search,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    "created_at",
		SortOrder: "DESC",
	}
	if req.Status != "" {
		status := models.EventStatus(req.Status)
		filter.Status = &status
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns one event with display metadata.
func (s *EventService) Get(ctx context.Context, id string) (*models.EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	return event, nil
}

// Create stages a new event for review.
func (s *EventService) Create(ctx context.Context, req SaveEventRequest) (*models.Event, error) {
	event, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}
	event.Status = models.EventStatusPending
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.logger.Info("event staged for review", zap.String("event_id", event.ID), zap.String("title", event.Title))
	return event, nil
}

// Update modifies an existing event, preserving its review status.
func (s *EventService) Update(ctx context.Context, id string, req SaveEventRequest) (*models.Event, error) {
	updated, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	updated.ID = existing.ID
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	return updated, nil
}

// Approve publishes a staged event.
func (s *EventService) Approve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.EventStatusApproved)
}

// Reject archives a staged event without publishing it.
func (s *EventService) Reject(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.EventStatusArchived)
}

// Archive retires a published event.
func (s *EventService) Archive(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.EventStatusArchived)
}

// Delete removes an event permanently.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}

func (s *EventService) setStatus(ctx context.Context, id string, status models.EventStatus) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event status")
	}
	s.logger.Info("event status changed", zap.String("event_id", id), zap.String("status", string(status)))
	return nil
}

// buildEvent validates the payload and checks that the calendar fields
// resolve in the reference zone before anything is persisted.
func (s *EventService) buildEvent(req SaveEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.conv.ToInstant(req.StartDate, req.StartTime); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "invalid start date or time")
	}
	if req.EndDate != nil {
		if _, err := s.conv.ToInstant(*req.EndDate, req.EndTime); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "invalid end date or time")
		}
		if *req.EndDate < req.StartDate {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
		}
	}
	return &models.Event{
		Title:               req.Title,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		LocationID:          req.LocationID,
		OrganizationID:      req.OrganizationID,
		PrimaryTagID:        req.PrimaryTagID,
		SecondaryTagID:      req.SecondaryTagID,
		Website:             req.Website,
		Cost:                req.Cost,
		Email:               req.Email,
		Registration:        req.Registration,
		RegistrationLink:    req.RegistrationLink,
		Featured:            req.Featured,
		ExcludeFromCalendar: req.ExcludeFromCalendar,
		Comments:            req.Comments,
	}, nil
}
