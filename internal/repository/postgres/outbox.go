package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/repository"
)

type eventOutboxRepository struct {
	db *sql.DB
}

func NewEventOutboxRepository(db *sql.DB) repository.EventOutboxRepository {
	return &eventOutboxRepository{db: db}
}

func (r *eventOutboxRepository) Enqueue(ctx context.Context, entry *domain.EventOutboxEntry) error {
	query := `INSERT INTO event_outbox (id, event_name, payload, attempts, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.EventName, []byte(entry.Payload), entry.Attempts, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}
	return nil
}

func (r *eventOutboxRepository) ListUndelivered(ctx context.Context, limit int32) ([]domain.EventOutboxEntry, error) {
	query := `SELECT id, event_name, payload, attempts, created_at, delivered_at
	          FROM event_outbox WHERE delivered_at IS NULL ORDER BY created_at LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list undelivered events: %w", err)
	}
	defer rows.Close()

	var entries []domain.EventOutboxEntry
	for rows.Next() {
		var entry domain.EventOutboxEntry
		var payload []byte
		if err := rows.Scan(&entry.ID, &entry.EventName, &payload, &entry.Attempts, &entry.CreatedAt, &entry.DeliveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox entry: %w", err)
		}
		entry.Payload = payload
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading outbox rows: %w", err)
	}
	return entries, nil
}

func (r *eventOutboxRepository) MarkDelivered(ctx context.Context, id string) error {
	query := `UPDATE event_outbox SET delivered_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event delivered: %w", err)
	}
	return nil
}

func (r *eventOutboxRepository) RecordAttempt(ctx context.Context, id string) error {
	query := `UPDATE event_outbox SET attempts = attempts + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to record outbox delivery attempt: %w", err)
	}
	return nil
}
