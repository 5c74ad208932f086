package repository

import (
	"context"
	"time"

	"approvals-backend/internal/domain"
)

// PendingFilter narrows a read of the pending index. Zero-value fields apply
// no constraint, so the empty filter returns every pending request.
type PendingFilter struct {
	// Origin match: with both parts set the encoded key must match exactly;
	// with only OriginID set the key must contain it; with only OriginType
	// set the key must start with it.
	OriginType string
	OriginID   string

	// ExcludeCreatedBy drops requests created by this subject. Used to keep
	// reviewers from seeing their own requests.
	ExcludeCreatedBy string

	Action domain.ActionToApprove
}

// StatusUpdate is the sparse decision write applied to one pending request,
// identified by its (Action, Origin) key. Nil pointer fields are left
// untouched in the store; the pending marker is always cleared.
type StatusUpdate struct {
	Action domain.ActionToApprove
	Origin domain.CombinedKey
	Status domain.ApprovalRequestStatus

	UpdatedAt *time.Time
	UpdatedBy *string
	Message   *string
	DeletedAt *time.Time
	DeletedBy *string
}

type ApprovalRepository interface {
	// CreateItem inserts a new request. Returns domain.ErrDuplicateRequest
	// when a request with the same (action, origin) key already exists.
	CreateItem(ctx context.Context, req *domain.ApprovalRequest) error

	// GetPendingItems reads the pending index with the given filter. A miss
	// is an empty slice, not an error.
	GetPendingItems(ctx context.Context, filter PendingFilter) ([]domain.ApprovalRequest, error)

	// UpdateStatus applies a decision to the request identified by the
	// update's key, provided it is still pending, and returns the
	// post-update rows. An empty slice means no row matched.
	UpdateStatus(ctx context.Context, update StatusUpdate) ([]domain.ApprovalRequest, error)
}

// EventOutboxRepository parks lifecycle events whose delivery failed so the
// redelivery job can retry them.
type EventOutboxRepository interface {
	Enqueue(ctx context.Context, entry *domain.EventOutboxEntry) error
	ListUndelivered(ctx context.Context, limit int32) ([]domain.EventOutboxEntry, error)
	MarkDelivered(ctx context.Context, id string) error
	RecordAttempt(ctx context.Context, id string) error
}
