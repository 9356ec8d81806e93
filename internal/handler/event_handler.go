package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/internal/service"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
	"github.com/dertown/dertown-api/pkg/response"
)

type eventService interface {
	ListPublic(ctx context.Context, req service.EventListRequest) ([]models.EventDetail, *models.Pagination, error)
	ListAdmin(ctx context.Context, req service.AdminEventListRequest) ([]models.EventDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.EventDetail, error)
	Create(ctx context.Context, req service.SaveEventRequest) (*models.Event, error)
	Update(ctx context.Context, id string, req service.SaveEventRequest) (*models.Event, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type feedInvalidator interface {
	Invalidate(ctx context.Context)
}

type eventExporter interface {
	UpcomingEvents(ctx context.Context, format string) ([]byte, string, string, error)
}

// EventHandler wires the event listing, submission, and review endpoints.
type EventHandler struct {
	events  eventService
	feeds   feedInvalidator
	exports eventExporter
}

// NewEventHandler constructs the handler. The feed invalidator and
// exporter may be nil.
func NewEventHandler(events eventService, feeds feedInvalidator, exports eventExporter) *EventHandler {
	return &EventHandler{events: events, feeds: feeds, exports: exports}
}

// List godoc
// @Summary List published events
// @Description Approved events that are current or upcoming
// @Tags Events
// @Produce json
// @Param tag_id query string false "Tag ID (primary or secondary)"
// @Param organization_id query string false "Organization ID"
// @Param location_id query string false "Location ID"
// @Param search query string false "Title or description search"
// @Param include_past query bool false "Include past events"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	req := service.EventListRequest{
		TagID:          strings.TrimSpace(c.Query("tag_id")),
		OrganizationID: strings.TrimSpace(c.Query("organization_id")),
		LocationID:     strings.TrimSpace(c.Query("location_id")),
		Search:         strings.TrimSpace(c.Query("search")),
		IncludePast:    c.Query("include_past") == "true",
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "page_size", 0),
	}

	events, pagination, err := h.events.ListPublic(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Get godoc
// @Summary Get one event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Submit godoc
// @Summary Submit an event for review
// @Description Community submissions are staged pending review
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.SaveEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Submit(c *gin.Context) {
	var req service.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// ListAdmin godoc
// @Summary List events for review
// @Tags Admin
// @Produce json
// @Param status query string false "Review status" Enums(pending, approved, archived)
// @Param search query string false "Title or description search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/events [get]
func (h *EventHandler) ListAdmin(c *gin.Context) {
	req := service.AdminEventListRequest{
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	}

	events, pagination, err := h.events.ListAdmin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Update godoc
// @Summary Update an event
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.SaveEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req service.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.events.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateFeeds(c)
	response.JSON(c, http.StatusOK, event, nil)
}

// Approve godoc
// @Summary Approve a pending event
// @Tags Admin
// @Produce json
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/events/{id}/approve [post]
func (h *EventHandler) Approve(c *gin.Context) {
	if err := h.events.Approve(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateFeeds(c)
	response.NoContent(c)
}

// Reject godoc
// @Summary Reject a pending event
// @Tags Admin
// @Produce json
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/events/{id}/reject [post]
func (h *EventHandler) Reject(c *gin.Context) {
	if err := h.events.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateFeeds(c)
	response.NoContent(c)
}

// Archive godoc
// @Summary Archive a published event
// @Tags Admin
// @Produce json
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/events/{id}/archive [post]
func (h *EventHandler) Archive(c *gin.Context) {
	if err := h.events.Archive(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateFeeds(c)
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete an event
// @Tags Admin
// @Produce json
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Router /admin/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateFeeds(c)
	response.NoContent(c)
}

// Export godoc
// @Summary Export upcoming events
// @Description Download the upcoming approved events as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format" Enums(csv, pdf) default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/events/export [get]
func (h *EventHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format := strings.TrimSpace(c.DefaultQuery("format", service.ExportFormatCSV))

	payload, filename, contentType, err := h.exports.UpcomingEvents(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

func (h *EventHandler) invalidateFeeds(c *gin.Context) {
	if h.feeds != nil {
		h.feeds.Invalidate(c.Request.Context())
	}
}

// queryInt parses an integer query parameter, falling back to def on
// absent or malformed values.
func queryInt(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
