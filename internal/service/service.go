package service

import (
	"context"

	"approvals-backend/internal/domain"
)

// ApprovalService is the approval workflow engine: it owns the request
// lifecycle (Pending -> Approved/Rejected) and is the only component that
// mutates approval request state.
type ApprovalService interface {
	// CreateApprovalRequest opens a pending request for an action against an
	// origin on behalf of subject sub. Both origin fields are required.
	CreateApprovalRequest(ctx context.Context, action domain.ActionToApprove, origin domain.Origin, sub string) (*domain.ApprovalRequest, error)

	// GetPendingRequests lists pending requests matching the origin filter,
	// with the origin decoded onto every record.
	GetPendingRequests(ctx context.Context, origin domain.Origin) ([]domain.ApprovalRequest, error)

	// GetReviewablePendingRequests lists the pending requests sub is entitled
	// to decide: matching the origin filter, optionally the action, and not
	// created by sub.
	GetReviewablePendingRequests(ctx context.Context, sub string, origin domain.Origin, action domain.ActionToApprove) ([]domain.ApprovalRequest, error)

	// ChangeApprovalRequestStatus applies sub's decision to a pending
	// request. Returns domain.ErrRequestNotFound when no reviewable pending
	// request matches the decision target.
	ChangeApprovalRequestStatus(ctx context.Context, result domain.ApprovalResult, sub string) (*domain.ApprovalRequest, error)
}

// EventNotifier publishes lifecycle events to subscribers. Delivery is
// best-effort from the engine's point of view: the store stays authoritative
// when a publish fails.
type EventNotifier interface {
	Notify(ctx context.Context, eventName string, payload domain.EventPayload) error
}
