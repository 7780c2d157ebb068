package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foxerka/enterprise-assets/docs"
	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/database"
	"github.com/foxerka/enterprise-assets/internal/http/handler"
	"github.com/foxerka/enterprise-assets/internal/http/middleware"
	"github.com/foxerka/enterprise-assets/internal/http/router"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/jobs"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/logger"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/storage"
	"go.uber.org/zap"
)

// @title Enterprise Assets API
// @version 1.0
// @description Asset register for production assets, equipment, suppliers, purchases and maintenance

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token issued by POST /auth/login
// @Security BearerAuth

const reachabilityTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// In staging/production secrets may come from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT secret is not configured")
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Postgres schemas are managed by cmd/migrate
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		log.Info("SQLite schema migrated", zap.String("path", cfg.Database.Path))
	}

	go func() {
		if err := <-database.CheckReachability(ctx, db, reachabilityTimeout); err != nil {
			log.Warn("Database reachability check failed", zap.Error(err))
			return
		}
		log.Info("Database reachable")
	}()

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Services
	tokens := auth.NewTokenService(&cfg.Auth)
	deps := service.Deps{
		DB:      db,
		Rules:   lifecycle.NewRules(db),
		Checker: integrity.NewChecker(db, log),
		Logger:  log,
	}
	numberSequenceService := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), log)
	equipmentService := service.NewEquipmentService(deps)
	reportService := service.NewReportService(equipmentService, fileStorage, log)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(db, tokens, log), log),
		Asset:       handler.NewAssetHandler(service.NewAssetService(deps), log),
		Equipment:   handler.NewEquipmentHandler(equipmentService, log),
		Workshop:    handler.NewWorkshopHandler(service.NewWorkshopService(deps), log),
		Supplier:    handler.NewSupplierHandler(service.NewSupplierService(deps), log),
		Purchase:    handler.NewPurchaseHandler(service.NewPurchaseService(deps, numberSequenceService), log),
		Maintenance: handler.NewMaintenanceHandler(service.NewMaintenanceService(deps), log),
		Master:      handler.NewMasterHandler(service.NewMasterService(deps), log),
		User:        handler.NewUserHandler(service.NewUserService(deps), log),
		Role:        handler.NewRoleHandler(service.NewRoleService(deps), log),
		WorkAct:     handler.NewWorkActHandler(service.NewWorkActService(deps), log),
		Lookup:      handler.NewLookupHandler(service.NewLookupService(deps), log),
		Integrity:   handler.NewIntegrityHandler(service.NewIntegrityService(deps), log),
		Report:      handler.NewReportHandler(reportService, log),
	}

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		var archive storage.Storage
		if cfg.Jobs.ArchiveReports {
			archive = fileStorage
		}
		scanJob := jobs.NewMaintenanceScanJob(equipmentService, archive, log)
		if err := jobs.RegisterMaintenanceScanJob(scheduler, scanJob, cfg.Jobs.MaintenanceScanCron); err != nil {
			return fmt.Errorf("failed to register maintenance scan job: %w", err)
		}

		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
	}

	rt := router.NewRouter(
		cfg,
		log,
		db,
		auth.NewMiddleware(tokens, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		handlers,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           rt.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeoutDuration(),
		ReadHeaderTimeout: cfg.Server.ReadTimeoutDuration(),
		WriteTimeout:      cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
