package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"approvals-backend/internal/config"
	"approvals-backend/internal/events"
	"approvals-backend/internal/jobs"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/repository/postgres"
	"approvals-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-once", false, "Run the event redelivery job once and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Approvals Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Repositories and the direct event publisher
	store := postgres.NewStore(db)
	webhook := events.NewWebhookNotifier(
		cfg.Events.Endpoint,
		cfg.Events.Source,
		time.Duration(cfg.Events.TimeoutSeconds)*time.Second,
	)
	jobRunner := jobs.NewJobRunner(store.EventOutboxRepository, webhook, cfg)

	if *runOnce {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		delivered, err := jobRunner.RedeliverOutboxEventsOnce(ctx)
		if err != nil {
			logger.Error("Event redelivery failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Event redelivery finished", "delivered", delivered)
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	logger.Info("Cronjob runner started, waiting for signals...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	logger.Info("Cronjob runner stopped")
}
