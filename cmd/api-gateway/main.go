package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/go-playground/validator/v10"

	_ "github.com/dertown/dertown-api/api/swagger"
	"github.com/dertown/dertown-api/internal/feed"
	"github.com/dertown/dertown-api/internal/handler"
	"github.com/dertown/dertown-api/internal/middleware"
	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/internal/repository"
	"github.com/dertown/dertown-api/internal/service"
	"github.com/dertown/dertown-api/internal/timezone"
	"github.com/dertown/dertown-api/pkg/cache"
	"github.com/dertown/dertown-api/pkg/config"
	"github.com/dertown/dertown-api/pkg/database"
	"github.com/dertown/dertown-api/pkg/logger"
	corsmiddleware "github.com/dertown/dertown-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dertown/dertown-api/pkg/middleware/requestid"
)

// @title Der Town API
// @version 1.0.0
// @description Community events, announcements, and calendar feeds
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	conv, err := timezone.NewConverter(cfg.Calendar.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid calendar timezone", "timezone", cfg.Calendar.Timezone, "error", err)
	}

	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, feeds served uncached", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	organizationRepo := repository.NewOrganizationRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	tagRepo := repository.NewTagRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	eventService := service.NewEventService(eventRepo, conv, validate, logr)
	announcementService := service.NewAnnouncementService(announcementRepo, validate, logr)
	lookupService := service.NewLookupService(organizationRepo, locationRepo, tagRepo, logr)

	var cacheService *service.CacheService
	if cacheRepo != nil {
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Calendar.FeedCacheTTL, logr, true)
	}
	calendarService := service.NewCalendarService(activityRepo, cacheService, conv, hostOf(cfg.Site.URL), logr)

	feedOpts := service.FeedServiceOptions{
		ICal: feed.ICalOptions{
			CalendarName: cfg.Calendar.CalendarName,
			CalendarDesc: cfg.Site.Description,
			ProdID:       fmt.Sprintf("-//%s//Community Calendar//EN", cfg.Site.Name),
			UIDHost:      hostOf(cfg.Site.URL),
		},
		RSS: feed.RSSOptions{
			Title:       cfg.Calendar.CalendarName,
			SiteURL:     cfg.Site.URL,
			Description: cfg.Site.Description,
			FeedPath:    cfg.APIPrefix + "/calendar/rss",
		},
		DefaultDuration: cfg.Calendar.DefaultEventDuration,
		CacheTTL:        cfg.Calendar.FeedCacheTTL,
	}
	var feedService *service.FeedService
	if cacheRepo != nil {
		feedService = service.NewFeedService(eventRepo, cacheRepo, metricsService, conv, feedOpts, logr)
	} else {
		feedService = service.NewFeedService(eventRepo, nil, metricsService, conv, feedOpts, logr)
	}
	exportService := service.NewExportService(eventRepo, conv, logr, nil, nil)

	feedWarmer := service.NewFeedWarmer(feedService, logr)
	feedWarmer.Start(context.Background())
	defer feedWarmer.Stop()

	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(eventService, feedWarmer, exportService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	calendarHandler := handler.NewCalendarHandler(feedService, calendarService)
	lookupHandler := handler.NewLookupHandler(lookupService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		api.GET("/events", eventHandler.List)
		api.POST("/events", eventHandler.Submit)
		api.GET("/events/:id", eventHandler.Get)
		api.GET("/events/:id/ical", calendarHandler.EventICal)
		api.GET("/events/:id/google", calendarHandler.EventGoogle)
		api.GET("/events/:id/outlook", calendarHandler.EventOutlook)

		api.GET("/calendar/ical", calendarHandler.ICalFeed)
		api.GET("/calendar/rss", calendarHandler.RSSFeed)

		api.GET("/announcements", announcementHandler.List)
		api.POST("/announcements", announcementHandler.Submit)

		api.GET("/activities", calendarHandler.ListActivities)
		api.GET("/activities/:id/occurrences", calendarHandler.Occurrences)

		api.GET("/organizations", lookupHandler.Organizations)
		api.GET("/organizations/:id", lookupHandler.Organization)
		api.GET("/locations", lookupHandler.Locations)
		api.GET("/locations/:id", lookupHandler.Location)
		api.GET("/tags", lookupHandler.Tags)
	}

	authed := api.Group("", middleware.JWT(authService))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)
	}

	admin := api.Group("/admin", middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin, models.RoleEditor))
	{
		admin.GET("/events", eventHandler.ListAdmin)
		admin.PUT("/events/:id", eventHandler.Update)
		admin.POST("/events/:id/approve", eventHandler.Approve)
		admin.POST("/events/:id/reject", eventHandler.Reject)
		admin.POST("/events/:id/archive", eventHandler.Archive)
		admin.DELETE("/events/:id", eventHandler.Delete)
		admin.GET("/events/export", eventHandler.Export)

		admin.GET("/announcements", announcementHandler.ListAdmin)
		admin.GET("/announcements/:id", announcementHandler.Get)
		admin.PUT("/announcements/:id", announcementHandler.Update)
		admin.POST("/announcements/:id/approve", announcementHandler.Approve)
		admin.POST("/announcements/:id/reject", announcementHandler.Reject)
		admin.DELETE("/announcements/:id", announcementHandler.Delete)

		admin.GET("/activities/:id/calendar-export", calendarHandler.ActivityExport)

		admin.GET("/status", metricsHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "timezone", cfg.Calendar.Timezone)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// hostOf strips the scheme from a site URL for use as a UID suffix.
func hostOf(siteURL string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if len(siteURL) > len(prefix) && siteURL[:len(prefix)] == prefix {
			return siteURL[len(prefix):]
		}
	}
	return siteURL
}
