package service

import (
	"context"
	"fmt"
	"time"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/repository"
)

type approvalService struct {
	repo     repository.ApprovalRepository
	notifier EventNotifier
}

func NewApprovalService(repo repository.ApprovalRepository, notifier EventNotifier) ApprovalService {
	return &approvalService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *approvalService) CreateApprovalRequest(ctx context.Context, action domain.ActionToApprove, origin domain.Origin, sub string) (*domain.ApprovalRequest, error) {
	logger.Debug("Creating approval request", "action", action, "origin_type", origin.OriginType, "origin_id", origin.OriginID, "sub", sub)

	key, err := domain.CombinedKeyOf(origin)
	if err != nil {
		return nil, err
	}

	pending := domain.PendingMarker
	req := &domain.ApprovalRequest{
		Action:    action,
		Origin:    key,
		Status:    domain.ApprovalRequestStatusPending,
		Pending:   &pending,
		CreatedAt: time.Now().UTC(),
		CreatedBy: sub,
	}

	if err := s.repo.CreateItem(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}

	s.notify(ctx, origin, domain.EventTypeRequestCreated, req.CreatedAt)

	decoded := *req
	s.mergeOrigin(&decoded)
	return &decoded, nil
}

func (s *approvalService) GetPendingRequests(ctx context.Context, origin domain.Origin) ([]domain.ApprovalRequest, error) {
	logger.Debug("Listing pending requests", "origin_type", origin.OriginType, "origin_id", origin.OriginID)

	reqs, err := s.repo.GetPendingItems(ctx, repository.PendingFilter{
		OriginType: origin.OriginType,
		OriginID:   origin.OriginID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return s.mergeOrigins(reqs), nil
}

func (s *approvalService) GetReviewablePendingRequests(ctx context.Context, sub string, origin domain.Origin, action domain.ActionToApprove) ([]domain.ApprovalRequest, error) {
	logger.Debug("Listing reviewable requests", "sub", sub, "origin_type", origin.OriginType, "origin_id", origin.OriginID, "action", action)

	reqs, err := s.repo.GetPendingItems(ctx, repository.PendingFilter{
		OriginType:       origin.OriginType,
		OriginID:         origin.OriginID,
		ExcludeCreatedBy: sub,
		Action:           action,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewable requests: %w", err)
	}
	return s.mergeOrigins(reqs), nil
}

func (s *approvalService) ChangeApprovalRequestStatus(ctx context.Context, result domain.ApprovalResult, sub string) (*domain.ApprovalRequest, error) {
	logger.Debug("Changing approval request status", "action", result.Action, "origin_type", result.OriginType, "origin_id", result.OriginID, "approved", result.Approved, "sub", sub)

	origin := result.Origin()
	key, err := domain.CombinedKeyOf(origin)
	if err != nil {
		return nil, err
	}

	// One lookup enforces three rules: the request exists, is still in the
	// pending index, and was not created by the deciding subject.
	reviewable, err := s.GetReviewablePendingRequests(ctx, sub, origin, result.Action)
	if err != nil {
		return nil, err
	}
	if len(reviewable) == 0 {
		return nil, fmt.Errorf("%w: action %s, origin %s", domain.ErrRequestNotFound, result.Action, key)
	}

	status := domain.ApprovalRequestStatusRejected
	eventType := domain.EventTypeRequestRejected
	if result.Approved {
		status = domain.ApprovalRequestStatusApproved
		eventType = domain.EventTypeRequestApproved
	}

	now := time.Now().UTC()
	updated, err := s.repo.UpdateStatus(ctx, repository.StatusUpdate{
		Action:    result.Action,
		Origin:    key,
		Status:    status,
		UpdatedAt: &now,
		UpdatedBy: &sub,
		Message:   result.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update approval request status: %w", err)
	}
	if len(updated) == 0 {
		// Another decision won the race between our reviewability read and
		// the conditional update.
		logger.Warn("Approval request no longer pending at update time", "action", result.Action, "origin", key)
		return nil, nil
	}

	s.notify(ctx, origin, eventType, now)

	decoded := updated[0]
	s.mergeOrigin(&decoded)
	return &decoded, nil
}

// notify publishes a lifecycle event after a successful store write. The
// store is authoritative: a failed publish is logged and swallowed, never
// rolled back or retried here.
func (s *approvalService) notify(ctx context.Context, origin domain.Origin, eventType domain.EventType, dateTime time.Time) {
	eventName := domain.EventDetailType(origin.OriginType, eventType)
	payload := domain.EventPayload{
		OriginID:   origin.OriginID,
		OriginType: origin.OriginType,
		DateTime:   dateTime,
	}
	if err := s.notifier.Notify(ctx, eventName, payload); err != nil {
		logger.Error("Failed to publish lifecycle event", "event", eventName, "origin_id", origin.OriginID, "error", err)
	}
}

// mergeOrigin decodes the combined key back onto the record so callers see
// the flattened origin fields next to the stored ones.
func (s *approvalService) mergeOrigin(req *domain.ApprovalRequest) {
	origin, err := domain.SplitCombinedKey(req.Origin)
	if err != nil {
		logger.Warn("Stored approval request has malformed origin key", "origin", req.Origin, "error", err)
		return
	}
	req.OriginType = origin.OriginType
	req.OriginID = origin.OriginID
}

func (s *approvalService) mergeOrigins(reqs []domain.ApprovalRequest) []domain.ApprovalRequest {
	for i := range reqs {
		s.mergeOrigin(&reqs[i])
	}
	return reqs
}
