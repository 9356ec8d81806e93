package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dertown/dertown-api/internal/dto"
	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/pkg/response"
)

const icalContentType = "text/calendar; charset=utf-8"

type feedRenderer interface {
	ICalFeed(ctx context.Context) ([]byte, string, error)
	RSSFeed(ctx context.Context) ([]byte, error)
	EventICal(ctx context.Context, id string) ([]byte, string, error)
	EventGoogleLink(ctx context.Context, id string) (string, error)
	EventOutlookLink(ctx context.Context, id string) (string, error)
}

type calendarService interface {
	ListActivities(ctx context.Context) ([]models.ActivityDetail, error)
	Occurrences(ctx context.Context, req dto.OccurrenceRequest) ([]dto.Occurrence, error)
	ActivityICal(ctx context.Context, activityID string) ([]byte, string, error)
}

// CalendarHandler serves the calendar feeds, per-event export links, and
// recurring activity schedules.
type CalendarHandler struct {
	feeds    feedRenderer
	calendar calendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(feeds feedRenderer, calendar calendarService) *CalendarHandler {
	return &CalendarHandler{feeds: feeds, calendar: calendar}
}

// ICalFeed godoc
// @Summary Site-wide iCalendar feed
// @Description All approved current and upcoming events as a VCALENDAR document
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {file} binary
// @Router /calendar/ical [get]
func (h *CalendarHandler) ICalFeed(c *gin.Context) {
	body, filename, err := h.feeds.ICalFeed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, icalContentType, body)
}

// RSSFeed godoc
// @Summary Site-wide RSS feed
// @Description All approved current and upcoming events as an RSS 2.0 channel
// @Tags Calendar
// @Produce application/rss+xml
// @Success 200 {file} binary
// @Router /calendar/rss [get]
func (h *CalendarHandler) RSSFeed(c *gin.Context) {
	body, err := h.feeds.RSSFeed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}

// EventICal godoc
// @Summary Single-event iCalendar download
// @Tags Calendar
// @Produce text/calendar
// @Param id path string true "Event ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/ical [get]
func (h *CalendarHandler) EventICal(c *gin.Context) {
	body, filename, err := h.feeds.EventICal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, icalContentType, body)
}

// EventGoogle godoc
// @Summary Redirect to Google Calendar event creation
// @Tags Calendar
// @Param id path string true "Event ID"
// @Success 302
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/google [get]
func (h *CalendarHandler) EventGoogle(c *gin.Context) {
	link, err := h.feeds.EventGoogleLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, link)
}

// EventOutlook godoc
// @Summary Redirect to Outlook event creation
// @Tags Calendar
// @Param id path string true "Event ID"
// @Success 302
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/outlook [get]
func (h *CalendarHandler) EventOutlook(c *gin.Context) {
	link, err := h.feeds.EventOutlookLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, link)
}

// ListActivities godoc
// @Summary List recurring activities
// @Tags Activities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *CalendarHandler) ListActivities(c *gin.Context) {
	activities, err := h.calendar.ListActivities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, nil)
}

// Occurrences godoc
// @Summary Expand a recurring activity schedule
// @Description Concrete occurrences within the date range, with calendar exceptions applied
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Param start_date query string true "Range start (YYYY-MM-DD, inclusive)"
// @Param end_date query string true "Range end (YYYY-MM-DD, inclusive)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id}/occurrences [get]
func (h *CalendarHandler) Occurrences(c *gin.Context) {
	req := dto.OccurrenceRequest{
		ActivityID: c.Param("id"),
		StartDate:  strings.TrimSpace(c.Query("start_date")),
		EndDate:    strings.TrimSpace(c.Query("end_date")),
	}

	occurrences, err := h.calendar.Occurrences(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, nil)
}

// ActivityExport godoc
// @Summary Export an activity schedule as iCalendar
// @Description VCALENDAR with the recurrence rule plus closure events
// @Tags Admin
// @Produce text/calendar
// @Param id path string true "Activity ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /admin/activities/{id}/calendar-export [get]
func (h *CalendarHandler) ActivityExport(c *gin.Context) {
	body, filename, err := h.calendar.ActivityICal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, icalContentType, body)
}
