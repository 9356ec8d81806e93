package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/feed"
	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/internal/timezone"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

const (
	feedCacheKeyICal = "feed:ical"
	feedCacheKeyRSS  = "feed:rss"
)

type feedCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// FeedService renders the site-wide calendar feeds and per-event export
// artifacts. Rendered feed bodies are cached whole; a single malformed
// event never takes a feed down.
type FeedService struct {
	events   eventRepository
	cache    feedCache
	metrics  *MetricsService
	ical     *feed.ICalRenderer
	rss      *feed.RSSRenderer
	conv     *timezone.Converter
	duration time.Duration
	cacheTTL time.Duration
	calName  string
	logger   *zap.Logger
	now      func() time.Time
}

// FeedServiceOptions wires the feed renderers and cache policy.
type FeedServiceOptions struct {
	ICal            feed.ICalOptions
	RSS             feed.RSSOptions
	DefaultDuration time.Duration
	CacheTTL        time.Duration
}

// NewFeedService constructs the service. The cache and metrics
// dependencies may be nil.
func NewFeedService(events eventRepository, cache feedCache, metrics *MetricsService, conv *timezone.Converter, opts FeedServiceOptions, logger *zap.Logger) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = time.Hour
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &FeedService{
		events:   events,
		cache:    cache,
		metrics:  metrics,
		ical:     feed.NewICalRenderer(conv, opts.ICal, opts.DefaultDuration, logger),
		rss:      feed.NewRSSRenderer(conv, opts.RSS, opts.DefaultDuration, logger),
		conv:     conv,
		duration: opts.DefaultDuration,
		cacheTTL: opts.CacheTTL,
		calName:  opts.ICal.CalendarName,
		logger:   logger,
		now:      time.Now,
	}
}

// ICalFeed returns the full approved-events VCALENDAR document and its
// download filename.
func (s *FeedService) ICalFeed(ctx context.Context) ([]byte, string, error) {
	filename := feed.Filename(s.calName)
	if body, ok := s.cached(ctx, feedCacheKeyICal); ok {
		return body, filename, nil
	}
	events, err := s.calendarEvents(ctx)
	if err != nil {
		return nil, "", err
	}
	body, skipped := s.ical.Render(events, s.now())
	s.metrics.RecordFeedRender("ical", len(events)-skipped, skipped)
	s.store(ctx, feedCacheKeyICal, body)
	return body, filename, nil
}

// RSSFeed returns the RSS 2.0 document for approved events.
func (s *FeedService) RSSFeed(ctx context.Context) ([]byte, error) {
	if body, ok := s.cached(ctx, feedCacheKeyRSS); ok {
		return body, nil
	}
	events, err := s.calendarEvents(ctx)
	if err != nil {
		return nil, err
	}
	body, skipped := s.rss.Render(events, s.now())
	s.metrics.RecordFeedRender("rss", len(events)-skipped, skipped)
	s.store(ctx, feedCacheKeyRSS, body)
	return body, nil
}

// EventICal returns a single-event .ics document and its filename.
func (s *FeedService) EventICal(ctx context.Context, id string) ([]byte, string, error) {
	ev, err := s.exportableEvent(ctx, id)
	if err != nil {
		return nil, "", err
	}
	body, err := s.ical.RenderEvent(*ev, s.now())
	if err != nil {
		if errors.Is(err, timezone.ErrInvalidDate) {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "event has an invalid date")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render event")
	}
	return body, feed.Filename(ev.Title), nil
}

// EventGoogleLink returns the Google Calendar deep link for an event.
func (s *FeedService) EventGoogleLink(ctx context.Context, id string) (string, error) {
	ev, err := s.exportableEvent(ctx, id)
	if err != nil {
		return "", err
	}
	link, err := feed.GoogleLink(s.conv, *ev, s.duration)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "event has an invalid date")
	}
	return link, nil
}

// EventOutlookLink returns the Outlook compose deep link for an event.
func (s *FeedService) EventOutlookLink(ctx context.Context, id string) (string, error) {
	ev, err := s.exportableEvent(ctx, id)
	if err != nil {
		return "", err
	}
	link, err := feed.OutlookLink(s.conv, *ev, s.duration)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "event has an invalid date")
	}
	return link, nil
}

// Invalidate drops cached feed documents after an event changes.
func (s *FeedService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "feed:*"); err != nil {
		s.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
}

func (s *FeedService) calendarEvents(ctx context.Context) ([]feed.Event, error) {
	start := time.Now()
	rows, err := s.events.ListCalendar(ctx, s.conv.Today(s.now()))
	s.metrics.ObserveDBQuery("events_list_calendar", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar events")
	}
	events := make([]feed.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, toFeedEvent(row))
	}
	return events, nil
}

func (s *FeedService) exportableEvent(ctx context.Context, id string) (*feed.Event, error) {
	row, err := s.events.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	if row.Status != models.EventStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	ev := toFeedEvent(*row)
	return &ev, nil
}

func (s *FeedService) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	start := time.Now()
	body, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		s.metrics.RecordCacheOperation(false, time.Since(start))
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("feed cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	s.metrics.RecordCacheOperation(true, time.Since(start))
	return body, true
}

func (s *FeedService) store(ctx context.Context, key string, body []byte) {
	if s.cache == nil {
		return
	}
	start := time.Now()
	err := s.cache.SetBytes(ctx, key, body, s.cacheTTL)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("feed cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// toFeedEvent flattens a persisted event row into the exporter input.
func toFeedEvent(row models.EventDetail) feed.Event {
	ev := feed.Event{
		ID:        row.ID,
		Title:     row.Title,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
	}
	if row.Description != nil {
		ev.Description = *row.Description
	}
	if row.LocationName != nil {
		ev.Location = *row.LocationName
	}
	if row.Website != nil {
		ev.URL = *row.Website
	}
	return ev
}
