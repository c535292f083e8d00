package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/kien-ship-it/event-matcher-sub000/config"
	"github.com/kien-ship-it/event-matcher-sub000/database"
	slotRepo "github.com/kien-ship-it/event-matcher-sub000/database/repository/slot"
	"github.com/kien-ship-it/event-matcher-sub000/handlers"
	"github.com/kien-ship-it/event-matcher-sub000/jobs"
	"github.com/kien-ship-it/event-matcher-sub000/middleware"
	"github.com/kien-ship-it/event-matcher-sub000/routes"
	"github.com/kien-ship-it/event-matcher-sub000/services/ingest"
	"github.com/kien-ship-it/event-matcher-sub000/services/schedule"
	slotService "github.com/kien-ship-it/event-matcher-sub000/services/slot"
	"github.com/kien-ship-it/event-matcher-sub000/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	repo := slotRepo.NewMongoSlotRepo()

	// services.
	engine := schedule.NewEngine()
	slotSvc := &slotService.DefaultSlotService{
		Repo:   repo,
		Engine: engine,
	}

	slotHandler := handlers.NewSlotHandler(slotSvc, logger)
	scheduleHandler := handlers.NewScheduleHandler(repo, engine, utils.GetCacheClient(), logger)

	routes.RegisterRoutes(router, slotHandler, scheduleHandler)

	// Background refresh of external busy calendars, if any are configured.
	var feedCron *cron.Cron
	if sources := config.ParseBusyFeeds(); len(sources) > 0 {
		refresher := &jobs.FeedRefresher{
			Repo:    repo,
			Fetcher: ingest.NewFeedFetcher(),
			Sources: sources,
			Logger:  logger,
		}
		c, err := refresher.Start(config.AppConfig.FeedRefreshSpec)
		if err != nil {
			logger.Sugar().Fatalf("main: invalid feed refresh schedule %q: %v",
				config.AppConfig.FeedRefreshSpec, err)
		}
		feedCron = c
		logger.Sugar().Infof("main: refreshing %d busy feed(s) on %q", len(sources), config.AppConfig.FeedRefreshSpec)
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	if feedCron != nil {
		<-feedCron.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	database.CloseDB(ctx)
	logger.Sugar().Info("main: server stopped gracefully")
}
