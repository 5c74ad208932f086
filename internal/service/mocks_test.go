package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/repository"
)

// MockApprovalRepo
type MockApprovalRepo struct {
	mock.Mock
}

func (m *MockApprovalRepo) CreateItem(ctx context.Context, req *domain.ApprovalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockApprovalRepo) GetPendingItems(ctx context.Context, filter repository.PendingFilter) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}
func (m *MockApprovalRepo) UpdateStatus(ctx context.Context, update repository.StatusUpdate) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}

// MockEventNotifier
type MockEventNotifier struct {
	mock.Mock
}

func (m *MockEventNotifier) Notify(ctx context.Context, eventName string, payload domain.EventPayload) error {
	args := m.Called(ctx, eventName, payload)
	return args.Error(0)
}
