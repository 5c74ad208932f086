package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	httpapi "approvals-backend/internal/api/http"
	"approvals-backend/internal/config"
	"approvals-backend/internal/events"
	"approvals-backend/internal/jobs"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/repository/postgres"
	"approvals-backend/internal/scheduler"
	"approvals-backend/internal/security"
	"approvals-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Approvals Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Events configuration", "endpoint", cfg.Events.Endpoint, "source", cfg.Events.Source)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Event Publishing. The webhook publisher does the actual
	// delivery; the reliable wrapper parks failed deliveries in the outbox.
	webhook := events.NewWebhookNotifier(
		cfg.Events.Endpoint,
		cfg.Events.Source,
		time.Duration(cfg.Events.TimeoutSeconds)*time.Second,
	)
	notifier := events.NewReliableNotifier(webhook, store.EventOutboxRepository)

	// Initialize the Workflow Engine
	approvalSvc := service.NewApprovalService(store.ApprovalRepository, notifier)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	// Initialize Scheduler for event redelivery. Redelivery uses the bare
	// webhook publisher so a failed retry is only counted, never re-parked.
	jobRunner := jobs.NewJobRunner(store.EventOutboxRepository, webhook, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP API
	router := mux.NewRouter()
	approvalHandler := httpapi.NewApprovalHandler(approvalSvc)
	approvalHandler.Register(router, authMiddleware)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
