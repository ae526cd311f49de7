package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-view/api/swagger"
	"github.com/noah-isme/timetable-view/internal/handler"
	"github.com/noah-isme/timetable-view/internal/middleware"
	"github.com/noah-isme/timetable-view/internal/repository"
	"github.com/noah-isme/timetable-view/internal/service"
	"github.com/noah-isme/timetable-view/internal/timetable"
	"github.com/noah-isme/timetable-view/pkg/cache"
	"github.com/noah-isme/timetable-view/pkg/config"
	"github.com/noah-isme/timetable-view/pkg/database"
	"github.com/noah-isme/timetable-view/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-view/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-view/pkg/middleware/requestid"
)

// @title Timetable View API
// @version 1.0.0
// @description Busy/free grids, common free pairs and snapshot comparisons
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.ScheduleTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	scheduleRepo := repository.NewScheduleRepository(db)
	compareClient := repository.NewComparisonClient(cfg.Compare.BaseURL, cfg.Compare.Timeout, metrics)

	defaultPairs, err := timetable.NewPairRange(cfg.Timetable.DefaultMinPair, cfg.Timetable.DefaultMaxPair)
	if err != nil {
		logr.Fatal("invalid default pair range", zap.Error(err))
	}

	timetableSvc := service.NewTimetableService(scheduleRepo, cacheSvc, metrics, validate, logr, service.TimetableConfig{
		DefaultPairs: defaultPairs,
		ScheduleTTL:  cfg.Cache.ScheduleTTL,
		ExportTitle:  cfg.Timetable.ExportTitle,
		FontPath:     cfg.Timetable.ExportFontPath,
	})
	comparisonSvc := service.NewComparisonService(compareClient, cacheSvc, metrics, validate, logr, cfg.Cache.ComparisonTTL)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	comparisonHandler := handler.NewComparisonHandler(comparisonSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
		"postgres": scheduleRepo.Ping,
		"redis":    cacheRepo.Ping,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		tt := api.Group("/timetable")
		tt.POST("/grid", timetableHandler.Grid)
		tt.POST("/free-slots", timetableHandler.FreeSlots)
		tt.POST("/free-slots/export", timetableHandler.ExportFreeSlots)
		tt.GET("/semester", timetableHandler.Semester)
		tt.GET("/pairs", timetableHandler.Pairs)
		tt.GET("/semesters", timetableHandler.Semesters)
		tt.DELETE("/cache/:semcode", timetableHandler.ForgetSemester)

		api.GET("/comparisons", comparisonHandler.Compare)
		api.POST("/comparisons/render", comparisonHandler.Render)

		api.GET("/metrics/summary", metricsHandler.Snapshot)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
