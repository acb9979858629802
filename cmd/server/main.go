package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/courseware-service/internal/cache"
	"github.com/SAP-F-2025/courseware-service/internal/config"
	"github.com/SAP-F-2025/courseware-service/internal/events"
	"github.com/SAP-F-2025/courseware-service/internal/handlers"
	"github.com/SAP-F-2025/courseware-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/courseware-service/internal/services"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/SAP-F-2025/courseware-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	var logger utils.Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		logger = utils.NewDefaultLogger()
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepositoryManager(db)

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	cacheService := cache.NewRedisCache(redisClient, slogger)

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Viewer session wiring: area map -> selection cascade -> viewport bridge
	viewportBus := events.NewViewportBus(slogger)
	defer viewportBus.Close()
	bridge := services.NewViewportBridge(viewportBus, slogger)
	areaMap := services.NewAreaMapService(slogger)
	session := services.NewSessionManager(repo.Courseware(), areaMap, bridge, cfg.NoTextureLabel, slogger)

	go func() {
		if err := session.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("viewport bridge stopped", "error", err)
		}
	}()

	gradingService := services.NewGradingService(repo.Quiz(), cacheService, publisher, slogger)
	exportService := services.NewExportService(slogger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(session, gradingService, exportService, logger)
	handlerManager.SetupRoutes(router)

	logger.Info("starting courseware service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
