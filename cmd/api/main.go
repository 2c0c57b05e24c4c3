package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/attendance-planner-api/api/swagger"
	"github.com/noah-isme/attendance-planner-api/internal/engine"
	"github.com/noah-isme/attendance-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/attendance-planner-api/internal/middleware"
	"github.com/noah-isme/attendance-planner-api/internal/repository"
	"github.com/noah-isme/attendance-planner-api/internal/service"
	"github.com/noah-isme/attendance-planner-api/pkg/cache"
	"github.com/noah-isme/attendance-planner-api/pkg/config"
	"github.com/noah-isme/attendance-planner-api/pkg/database"
	"github.com/noah-isme/attendance-planner-api/pkg/export"
	"github.com/noah-isme/attendance-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/attendance-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/attendance-planner-api/pkg/middleware/requestid"
)

// @title Attendance Planner API
// @version 1.0.0
// @description Semester planning, attendance marking and attendance risk for students.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type handlers struct {
	semester   *handler.SemesterHandler
	timetable  *handler.TimetableHandler
	today      *handler.TodayHandler
	attendance *handler.AttendanceHandler
	report     *handler.ReportHandler
	metrics    *handler.MetricsHandler
}

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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db, logr); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, semester cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metrics := service.NewMetricsService()
	h, auth := buildHandlers(cfg, db, redisClient, metrics, logr)
	router := setupRouter(cfg, h, auth, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logr.Info("server stopped")
}

func buildHandlers(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService, logr *zap.Logger) (handlers, *service.AuthService) {
	loc := cfg.Attendance.Location()
	policy := engine.RiskPolicy{WarningSafeSkips: cfg.Attendance.WarningSafeSkips}
	validate := validator.New()

	semesterRepo := repository.NewSemesterRepository(db)
	blackoutRepo := repository.NewBlackoutRepository(db)
	instanceRepo := repository.NewClassInstanceRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)

	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient),
		metrics,
		cfg.Cache.SemesterTTL,
		logr,
		cfg.Cache.Enabled && redisClient != nil,
	)

	semesterSvc := service.NewSemesterService(service.SemesterServiceParams{
		Semesters: semesterRepo,
		Blackouts: blackoutRepo,
		Templates: timetableRepo,
		Instances: instanceRepo,
		Tx:        db,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config: service.SemesterServiceConfig{
			Location:          loc,
			DefaultMinPercent: cfg.Attendance.DefaultMinPercent,
			CacheTTL:          cfg.Cache.SemesterTTL,
		},
	})
	timetableSvc := service.NewTimetableService(subjectRepo, timetableRepo, db, validate, logr)
	todaySvc := service.NewTodayService(service.TodayServiceParams{
		Semesters: semesterSvc,
		Instances: instanceRepo,
		Metrics:   metrics,
		Logger:    logr,
		Config:    service.TodayServiceConfig{Location: loc, Policy: policy},
	})
	attendanceSvc := service.NewAttendanceService(instanceRepo, semesterSvc, metrics, validate, logr)
	reportSvc := service.NewReportService(semesterSvc, instanceRepo, export.NewPDFExporter(), logr, service.ReportServiceConfig{
		Enabled:  cfg.Reports.Enabled,
		Location: loc,
		Policy:   policy,
	})

	return handlers{
		semester:   handler.NewSemesterHandler(semesterSvc),
		timetable:  handler.NewTimetableHandler(timetableSvc),
		today:      handler.NewTodayHandler(todaySvc),
		attendance: handler.NewAttendanceHandler(attendanceSvc),
		report:     handler.NewReportHandler(reportSvc),
		metrics:    handler.NewMetricsHandler(metrics, db),
	}, service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
}

func setupRouter(cfg *config.Config, h handlers, auth *service.AuthService, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(auth), internalmiddleware.WithResponseMeta())

	semesters := api.Group("/semesters")
	semesters.POST("", h.semester.Create)
	semesters.GET("/exists", h.semester.Exists)
	semesters.GET("/current", h.semester.Current)
	semesters.GET("/current/schedule", h.semester.Schedule)
	semesters.POST("/current/blackouts", h.semester.AddBlackout)
	semesters.DELETE("/current/blackouts/:id", h.semester.DeleteBlackout)

	api.PUT("/timetable", h.timetable.Save)
	api.GET("/timetable", h.timetable.List)
	api.GET("/timetable/exists", h.timetable.Exists)
	api.GET("/subjects/known", h.timetable.KnownSubjects)

	api.GET("/today", h.today.Today)
	api.PATCH("/instances/:id/attendance", h.attendance.Mark)
	api.GET("/attendance/stats", h.attendance.Stats)

	api.GET("/reports/risk.pdf", h.report.RiskReport)

	return r
}
