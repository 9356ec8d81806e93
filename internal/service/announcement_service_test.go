package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dertown/dertown-api/internal/models"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

type stubAnnouncementRepo struct {
	listRows   []models.Announcement
	listTotal  int
	lastFilter models.AnnouncementFilter
	byID       map[string]*models.Announcement
	created    *models.Announcement
	updated    *models.Announcement
	statuses   map[string]models.EventStatus
	statusErr  error
}

func (r *stubAnnouncementRepo) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	r.lastFilter = filter
	return r.listRows, r.listTotal, nil
}

func (r *stubAnnouncementRepo) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	if row, ok := r.byID[id]; ok {
		return row, nil
	}
	return nil, sql.ErrNoRows
}

func (r *stubAnnouncementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	r.created = announcement
	return nil
}

func (r *stubAnnouncementRepo) Update(ctx context.Context, announcement *models.Announcement) error {
	r.updated = announcement
	return nil
}

func (r *stubAnnouncementRepo) UpdateStatus(ctx context.Context, id string, status models.EventStatus) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	if r.statuses == nil {
		r.statuses = make(map[string]models.EventStatus)
	}
	r.statuses[id] = status
	return nil
}

func (r *stubAnnouncementRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func TestAnnouncementServiceListActive(t *testing.T) {
	repo := &stubAnnouncementRepo{
		listRows:  []models.Announcement{{ID: "ann-1", Title: "Road Closure"}},
		listTotal: 1,
	}
	svc := NewAnnouncementService(repo, nil, nil)

	rows, pagination, err := svc.ListActive(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)

	assert.True(t, repo.lastFilter.ActiveOnly)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.EventStatusApproved, *repo.lastFilter.Status)
}

func TestAnnouncementServiceCreate(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	svc := NewAnnouncementService(repo, nil, nil)

	ann, err := svc.Create(context.Background(), SaveAnnouncementRequest{
		Title:   "Road Closure",
		Message: "Front Street closed Saturday morning.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusPending, ann.Status)
	require.NotNil(t, repo.created)
}

func TestAnnouncementServiceCreateBadWindow(t *testing.T) {
	svc := NewAnnouncementService(&stubAnnouncementRepo{}, nil, nil)

	show := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	expires := show.Add(-time.Hour)
	_, err := svc.Create(context.Background(), SaveAnnouncementRequest{
		Title:     "Backwards",
		Message:   "Expires before it shows.",
		ShowAt:    &show,
		ExpiresAt: &expires,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAnnouncementServiceUpdatePreservesStatus(t *testing.T) {
	repo := &stubAnnouncementRepo{byID: map[string]*models.Announcement{
		"ann-1": {ID: "ann-1", Title: "Old", Message: "Old body", Status: models.EventStatusApproved},
	}}
	svc := NewAnnouncementService(repo, nil, nil)

	ann, err := svc.Update(context.Background(), "ann-1", SaveAnnouncementRequest{
		Title:   "New",
		Message: "New body",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusApproved, ann.Status)
	assert.Equal(t, "New", repo.updated.Title)
}

func TestAnnouncementServiceApproveMissing(t *testing.T) {
	repo := &stubAnnouncementRepo{statusErr: sql.ErrNoRows}
	svc := NewAnnouncementService(repo, nil, nil)

	err := svc.Approve(context.Background(), "nope")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
