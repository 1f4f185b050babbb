package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/advisor"
	"github.com/dansfisica85/dalmaso/pkg/cache"
	"github.com/dansfisica85/dalmaso/pkg/config"
	"github.com/dansfisica85/dalmaso/pkg/database"
	"github.com/dansfisica85/dalmaso/pkg/handlers"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
	"github.com/dansfisica85/dalmaso/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("db_host", cfg.Database.Host),
		zap.Bool("advisor_enabled", cfg.Advisor.IsAvailable()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run over a stdlib handle borrowed from the pgx pool.
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration handle", zap.Error(err))
	}

	// Repositories
	cohortRepo := repositories.NewCohortRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	statRepo := repositories.NewExternalStatRepository(db)

	// Services
	store := cache.New(time.Now)
	rosterService := services.NewRosterService(cohortRepo, studentRepo, logger)
	importService := services.NewImportService(cohortRepo, studentRepo, logger)
	dedupeService := services.NewDedupeService(studentRepo, cohortRepo, logger)
	attendanceService := services.NewAttendanceService(attendanceRepo, cohortRepo, studentRepo, logger)
	aggregationService := services.NewAggregationService(attendanceRepo, cohortRepo, studentRepo, logger)
	alertService := services.NewAlertService(statRepo, studentRepo, cohortRepo, store, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewRosterHandler(rosterService, logger).RegisterRoutes(mux)
	handlers.NewImportHandler(importService, dedupeService, logger).RegisterRoutes(mux)
	handlers.NewAttendanceHandler(attendanceService, logger).RegisterRoutes(mux)
	handlers.NewAggregateHandler(aggregationService, logger).RegisterRoutes(mux)
	handlers.NewAlertHandler(alertService, logger).RegisterRoutes(mux)

	if cfg.Advisor.IsAvailable() {
		client, err := advisor.NewClient(&advisor.Config{
			Endpoint: cfg.Advisor.BaseURL,
			Model:    cfg.Advisor.Model,
			APIKey:   cfg.Advisor.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create advisor client", zap.Error(err))
		}
		advisorService := services.NewAdvisorService(client, attendanceService, logger)
		handlers.NewAdvisorHandler(advisorService, logger).RegisterRoutes(mux)
	} else {
		logger.Info("Advisor endpoint not configured, assistant routes disabled")
	}

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting dalmaso",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
