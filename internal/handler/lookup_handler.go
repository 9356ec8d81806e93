package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/pkg/response"
)

type lookupService interface {
	Organizations(ctx context.Context) ([]models.Organization, error)
	Organization(ctx context.Context, id string) (*models.Organization, error)
	Locations(ctx context.Context) ([]models.Location, error)
	Location(ctx context.Context, id string) (*models.Location, error)
	Tags(ctx context.Context) ([]models.Tag, error)
}

// LookupHandler serves reference data for event forms and filters.
type LookupHandler struct {
	service lookupService
}

// NewLookupHandler constructs the handler.
func NewLookupHandler(svc lookupService) *LookupHandler {
	return &LookupHandler{service: svc}
}

// Organizations godoc
// @Summary List organizations
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /organizations [get]
func (h *LookupHandler) Organizations(c *gin.Context) {
	rows, err := h.service.Organizations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Organization godoc
// @Summary Get one organization
// @Tags Lookups
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /organizations/{id} [get]
func (h *LookupHandler) Organization(c *gin.Context) {
	org, err := h.service.Organization(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, org, nil)
}

// Locations godoc
// @Summary List locations
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /locations [get]
func (h *LookupHandler) Locations(c *gin.Context) {
	rows, err := h.service.Locations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Location godoc
// @Summary Get one location
// @Tags Lookups
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /locations/{id} [get]
func (h *LookupHandler) Location(c *gin.Context) {
	loc, err := h.service.Location(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loc, nil)
}

// Tags godoc
// @Summary List tags
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tags [get]
func (h *LookupHandler) Tags(c *gin.Context) {
	rows, err := h.service.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
