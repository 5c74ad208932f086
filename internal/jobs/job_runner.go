package jobs

import (
	"context"
	"encoding/json"
	"time"

	"approvals-backend/internal/config"
	"approvals-backend/internal/domain"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/repository"
	"approvals-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	outbox   repository.EventOutboxRepository
	notifier service.EventNotifier
	config   *config.Config
}

// NewJobRunner creates a new job runner. The notifier must be the direct
// publisher, not the outbox-backed one, or failed redeliveries would park
// duplicate entries.
func NewJobRunner(outbox repository.EventOutboxRepository, notifier service.EventNotifier, cfg *config.Config) *JobRunner {
	return &JobRunner{
		outbox:   outbox,
		notifier: notifier,
		config:   cfg,
	}
}

// Config returns the configuration used by the jobs.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RedeliverOutboxEvents is the cron entrypoint for event redelivery.
func (jr *JobRunner) RedeliverOutboxEvents() {
	jr.runWithRecovery("RedeliverOutboxEvents", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		delivered, err := jr.RedeliverOutboxEventsOnce(ctx)
		if err != nil {
			logger.Error("Event redelivery run failed", "error", err)
			return
		}
		if delivered > 0 {
			logger.Info("Redelivered parked events", "count", delivered)
		}
	})
}

// RedeliverOutboxEventsOnce retries every undelivered outbox entry once and
// returns how many were delivered.
func (jr *JobRunner) RedeliverOutboxEventsOnce(ctx context.Context) (int, error) {
	entries, err := jr.outbox.ListUndelivered(ctx, jr.config.Events.RedeliveryBatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, entry := range entries {
		var payload domain.EventPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			logger.Error("Outbox entry has unreadable payload", "outbox_id", entry.ID, "error", err)
			continue
		}

		if err := jr.notifier.Notify(ctx, entry.EventName, payload); err != nil {
			logger.Warn("Redelivery attempt failed", "outbox_id", entry.ID, "event", entry.EventName, "attempts", entry.Attempts, "error", err)
			if err := jr.outbox.RecordAttempt(ctx, entry.ID); err != nil {
				logger.Error("Failed to record redelivery attempt", "outbox_id", entry.ID, "error", err)
			}
			continue
		}

		if err := jr.outbox.MarkDelivered(ctx, entry.ID); err != nil {
			logger.Error("Failed to mark outbox entry delivered", "outbox_id", entry.ID, "error", err)
			continue
		}
		delivered++
	}
	return delivered, nil
}
