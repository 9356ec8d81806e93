package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dertown/dertown-api/internal/models"
)

// OrganizationRepository provides read access to organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository constructs an OrganizationRepository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// List returns approved organizations ordered by name.
func (r *OrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	const query = `SELECT id, name, description, website, email, phone, location_id,
parent_organization_id, status, created_at, updated_at
FROM organizations WHERE status = $1 ORDER BY name ASC`
	var organizations []models.Organization
	if err := r.db.SelectContext(ctx, &organizations, query, models.EventStatusApproved); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return organizations, nil
}

// GetByID returns one organization.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	const query = `SELECT id, name, description, website, email, phone, location_id,
parent_organization_id, status, created_at, updated_at
FROM organizations WHERE id = $1`
	var organization models.Organization
	if err := r.db.GetContext(ctx, &organization, query, id); err != nil {
		return nil, err
	}
	return &organization, nil
}

// LocationRepository provides read access to venues.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository constructs a LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// List returns approved locations ordered by name.
func (r *LocationRepository) List(ctx context.Context) ([]models.Location, error) {
	const query = `SELECT id, name, address, latitude, longitude, phone, website,
parent_location_id, status, created_at, updated_at
FROM locations WHERE status = $1 ORDER BY name ASC`
	var locations []models.Location
	if err := r.db.SelectContext(ctx, &locations, query, models.EventStatusApproved); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// GetByID returns one location.
func (r *LocationRepository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	const query = `SELECT id, name, address, latitude, longitude, phone, website,
parent_location_id, status, created_at, updated_at
FROM locations WHERE id = $1`
	var location models.Location
	if err := r.db.GetContext(ctx, &location, query, id); err != nil {
		return nil, err
	}
	return &location, nil
}

// TagRepository provides read access to event tags.
type TagRepository struct {
	db *sqlx.DB
}

// NewTagRepository constructs a TagRepository.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	const query = `SELECT id, name, calendar_id, share_id, created_at, updated_at
FROM tags ORDER BY name ASC`
	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
