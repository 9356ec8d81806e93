package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/models"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	UpdateStatus(ctx context.Context, id string, status models.EventStatus) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, validator: validate, logger: logger}
}

// AnnouncementListRequest describes filters for listing announcements.
type AnnouncementListRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending approved archived"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// SaveAnnouncementRequest describes the create and update payload.
type SaveAnnouncementRequest struct {
	Title          string     `json:"title" validate:"required"`
	Message        string     `json:"message" validate:"required"`
	Author         *string    `json:"author"`
	Email          *string    `json:"email" validate:"omitempty,email"`
	Link           *string    `json:"link" validate:"omitempty,url"`
	OrganizationID *string    `json:"organization_id"`
	ShowAt         *time.Time `json:"show_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Comments       *string    `json:"comments"`
}

// ListActive returns approved announcements currently visible: published
// and not expired.
func (s *AnnouncementService) ListActive(ctx context.Context, page, pageSize int) ([]models.Announcement, *models.Pagination, error) {
	status := models.EventStatusApproved
	filter := models.AnnouncementFilter{
		Status:     &status,
		ActiveOnly: true,
		Page:       page,
		PageSize:   pageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// ListAdmin returns announcements for the review dashboard.
func (s *AnnouncementService) ListAdmin(ctx context.Context, req AnnouncementListRequest) ([]models.Announcement, *models.Pagination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	filter := models.AnnouncementFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status := models.EventStatus(req.Status)
		filter.Status = &status
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	ann, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get announcement")
	}
	return ann, nil
}

// Create stages a new announcement for review.
func (s *AnnouncementService) Create(ctx context.Context, req SaveAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validateWindow(req); err != nil {
		return nil, err
	}
	announcement := &models.Announcement{
		Title:          req.Title,
		Message:        req.Message,
		Author:         req.Author,
		Email:          req.Email,
		Link:           req.Link,
		OrganizationID: req.OrganizationID,
		ShowAt:         req.ShowAt,
		ExpiresAt:      req.ExpiresAt,
		Status:         models.EventStatusPending,
		Comments:       req.Comments,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.logger.Info("announcement staged for review", zap.String("announcement_id", announcement.ID))
	return announcement, nil
}

// Update modifies an existing announcement, preserving its status.
func (s *AnnouncementService) Update(ctx context.Context, id string, req SaveAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validateWindow(req); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	existing.Title = req.Title
	existing.Message = req.Message
	existing.Author = req.Author
	existing.Email = req.Email
	existing.Link = req.Link
	existing.OrganizationID = req.OrganizationID
	existing.ShowAt = req.ShowAt
	existing.ExpiresAt = req.ExpiresAt
	existing.Comments = req.Comments
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	return existing, nil
}

// Approve publishes a staged announcement.
func (s *AnnouncementService) Approve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.EventStatusApproved)
}

// Reject archives a staged announcement without publishing it.
func (s *AnnouncementService) Reject(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.EventStatusArchived)
}

// Delete removes an announcement by id.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}

func (s *AnnouncementService) setStatus(ctx context.Context, id string, status models.EventStatus) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement status")
	}
	s.logger.Info("announcement status changed", zap.String("announcement_id", id), zap.String("status", string(status)))
	return nil
}

func (s *AnnouncementService) validateWindow(req SaveAnnouncementRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.ExpiresAt != nil && req.ShowAt != nil && req.ExpiresAt.Before(*req.ShowAt) {
		return appErrors.Clone(appErrors.ErrValidation, "expires_at must be after show_at")
	}
	return nil
}
