package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dertown/dertown-api/pkg/jobs"
)

// FeedWarmer drops cached feed documents when the event catalog changes
// and re-renders them on a background queue, so the next subscriber
// request is served from cache instead of paying the render cost.
type FeedWarmer struct {
	feeds  *FeedService
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewFeedWarmer constructs a warmer around the given feed service.
func NewFeedWarmer(feeds *FeedService, logger *zap.Logger) *FeedWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &FeedWarmer{feeds: feeds, logger: logger}
	w.queue = jobs.NewQueue("feed-warm", w.warm, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 8,
		Logger:     logger,
	})
	return w
}

// Start launches the background workers. Must be called before Invalidate.
func (w *FeedWarmer) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop waits for in-flight warm jobs to finish.
func (w *FeedWarmer) Stop() {
	w.queue.Stop()
}

// Invalidate clears the cached calendar feeds and schedules a re-render.
func (w *FeedWarmer) Invalidate(ctx context.Context) {
	w.feeds.Invalidate(ctx)
	if err := w.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "feed-warm"}); err != nil {
		w.logger.Warn("failed to enqueue feed warm job", zap.Error(err))
	}
}

func (w *FeedWarmer) warm(ctx context.Context, _ jobs.Job) error {
	if _, _, err := w.feeds.ICalFeed(ctx); err != nil {
		return err
	}
	_, err := w.feeds.RSSFeed(ctx)
	return err
}
