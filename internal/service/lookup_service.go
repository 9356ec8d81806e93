package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/models"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

type organizationRepository interface {
	List(ctx context.Context) ([]models.Organization, error)
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

type locationRepository interface {
	List(ctx context.Context) ([]models.Location, error)
	GetByID(ctx context.Context, id string) (*models.Location, error)
}

type tagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// LookupService serves the reference data the event forms and filters
// draw from.
type LookupService struct {
	organizations organizationRepository
	locations     locationRepository
	tags          tagRepository
	logger        *zap.Logger
}

// NewLookupService constructs the service.
func NewLookupService(organizations organizationRepository, locations locationRepository, tags tagRepository, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{organizations: organizations, locations: locations, tags: tags, logger: logger}
}

// Organizations returns the approved organizations.
func (s *LookupService) Organizations(ctx context.Context) ([]models.Organization, error) {
	rows, err := s.organizations.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list organizations")
	}
	return rows, nil
}

// Organization returns one organization by id.
func (s *LookupService) Organization(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "organization not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get organization")
	}
	return org, nil
}

// Locations returns the approved locations.
func (s *LookupService) Locations(ctx context.Context) ([]models.Location, error) {
	rows, err := s.locations.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list locations")
	}
	return rows, nil
}

// Location returns one location by id.
func (s *LookupService) Location(ctx context.Context, id string) (*models.Location, error) {
	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get location")
	}
	return loc, nil
}

// Tags returns every tag.
func (s *LookupService) Tags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.tags.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tags")
	}
	return rows, nil
}
