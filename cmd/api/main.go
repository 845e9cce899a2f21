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

	_ "github.com/noah-isme/sma-syllabus-api/api/swagger"
	"github.com/noah-isme/sma-syllabus-api/internal/handler"
	"github.com/noah-isme/sma-syllabus-api/internal/repository"
	"github.com/noah-isme/sma-syllabus-api/internal/routes"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	"github.com/noah-isme/sma-syllabus-api/pkg/cache"
	"github.com/noah-isme/sma-syllabus-api/pkg/config"
	"github.com/noah-isme/sma-syllabus-api/pkg/database"
	"github.com/noah-isme/sma-syllabus-api/pkg/logger"
	"github.com/noah-isme/sma-syllabus-api/pkg/mail"
)

// @title Syllabus Progress API
// @version 1.0.0
// @description Syllabus progress tracking for admins, teachers and principals
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			logr.Sugar().Fatalw("migrations failed", "error", err)
		}
	}

	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(nil)
	cacheEnabled := cfg.Cache.Enabled
	if cacheEnabled {
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
			cacheEnabled = false
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.DashboardTTL, logr, cacheEnabled)

	validate := validator.New()
	tx := database.NewTransactor(db)

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	syllabusRepo := repository.NewSyllabusRepository(db)
	completionRepo := repository.NewTopicCompletionRepository(db)
	assignmentRepo := repository.NewTeacherAssignmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	emailRepo := repository.NewEmailReportRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, tx, validate, logr, cfg.Bootstrap.DefaultPassword)
	classSvc := service.NewClassService(classRepo, tx, cacheSvc, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, classRepo, tx, cacheSvc, validate, logr)
	syllabusSvc := service.NewSyllabusService(syllabusRepo, subjectRepo, tx, cacheSvc, validate, logr)
	assignmentSvc := service.NewTeacherAssignmentService(assignmentRepo, userRepo, subjectRepo, classRepo, tx, validate, logr)
	progressSvc := service.NewProgressService(progressRepo)
	topicSvc := service.NewTopicService(service.TopicServiceParams{
		Scopes:      syllabusRepo,
		Completions: completionRepo,
		Assignments: assignmentRepo,
		Tx:          tx,
		Cache:       cacheSvc,
		Metrics:     metrics,
		Logger:      logr,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Progress:    progressRepo,
		Assignments: assignmentSvc,
		Syllabus:    syllabusSvc,
		Cache:       cacheSvc,
		Logger:      logr,
		Config:      service.DashboardServiceConfig{CacheTTL: cfg.Cache.DashboardTTL},
	})
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Reports:   progressRepo,
		Archive:   emailRepo,
		Classes:   classSvc,
		Mailer:    mail.NewSendGridSender(cfg.Mail),
		Tx:        tx,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config:    service.ReportServiceConfig{Title: cfg.Reports.Title, SchoolName: cfg.Reports.SchoolName},
	})

	router := routes.SetupRouter(routes.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Users:       handler.NewUserHandler(userSvc),
		Classes:     handler.NewClassHandler(classSvc),
		Subjects:    handler.NewSubjectHandler(subjectSvc, classSvc),
		Syllabus:    handler.NewSyllabusHandler(syllabusSvc, subjectSvc),
		Assignments: handler.NewAssignmentHandler(assignmentSvc, classSvc),
		Progress:    handler.NewProgressHandler(progressSvc),
		Lookups:     handler.NewLookupHandler(classSvc, subjectSvc),
		Dashboards:  handler.NewDashboardHandler(dashboardSvc),
		Topics:      handler.NewTopicHandler(topicSvc),
		Reports:     handler.NewReportHandler(reportSvc),
		Metrics:     handler.NewMetricsHandler(metrics, db),
	}, routes.Options{
		Logger:         logr,
		Tokens:         authSvc,
		Observer:       metrics,
		Session:        cfg.Session,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

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

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Sugar().Info("server stopped")
}
