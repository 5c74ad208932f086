package events

import (
	"context"
	"encoding/json"
	"time"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/repository"
	"approvals-backend/internal/service"

	"github.com/google/uuid"
)

// ReliableNotifier wraps a notifier with a dead-letter channel: events whose
// delivery fails are parked in the outbox table for the redelivery job
// instead of being lost with a log line. The original delivery error is
// still returned so callers keep their best-effort semantics.
type ReliableNotifier struct {
	inner  service.EventNotifier
	outbox repository.EventOutboxRepository
}

func NewReliableNotifier(inner service.EventNotifier, outbox repository.EventOutboxRepository) *ReliableNotifier {
	return &ReliableNotifier{
		inner:  inner,
		outbox: outbox,
	}
}

var _ service.EventNotifier = (*ReliableNotifier)(nil)

func (n *ReliableNotifier) Notify(ctx context.Context, eventName string, payload domain.EventPayload) error {
	err := n.inner.Notify(ctx, eventName, payload)
	if err == nil {
		return nil
	}

	detail, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		logger.Error("Failed to marshal payload for outbox", "event", eventName, "error", marshalErr)
		return err
	}

	entry := &domain.EventOutboxEntry{
		ID:        uuid.NewString(),
		EventName: eventName,
		Payload:   detail,
		Attempts:  1,
		CreatedAt: time.Now().UTC(),
	}
	if enqueueErr := n.outbox.Enqueue(ctx, entry); enqueueErr != nil {
		logger.Error("Failed to park undelivered event in outbox", "event", eventName, "error", enqueueErr)
	} else {
		logger.Warn("Parked undelivered event for redelivery", "event", eventName, "outbox_id", entry.ID)
	}

	return err
}
