package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/security"
)

// MockApprovalService
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) CreateApprovalRequest(ctx context.Context, action domain.ActionToApprove, origin domain.Origin, sub string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, action, origin, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}
func (m *MockApprovalService) GetPendingRequests(ctx context.Context, origin domain.Origin) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}
func (m *MockApprovalService) GetReviewablePendingRequests(ctx context.Context, sub string, origin domain.Origin, action domain.ActionToApprove) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, sub, origin, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}
func (m *MockApprovalService) ChangeApprovalRequestStatus(ctx context.Context, result domain.ApprovalResult, sub string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, result, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

const testSecret = "unit-test-secret-0123456789abcdefghij"

func newTestRouter(svc *MockApprovalService) (*mux.Router, security.TokenManager) {
	tm := security.NewTokenManager(testSecret)
	router := mux.NewRouter()
	NewApprovalHandler(svc).Register(router, NewAuthMiddleware(tm))
	return router, tm
}

func bearerToken(t *testing.T, tm security.TokenManager, sub string) string {
	t.Helper()
	token, err := tm.GenerateToken(sub, time.Hour)
	assert.NoError(t, err)
	return "Bearer " + token
}

func TestApprovalHandler_CreateApprovalRequest(t *testing.T) {
	svc := new(MockApprovalService)
	router, tm := newTestRouter(svc)

	origin := domain.Origin{OriginType: "doc", OriginID: "42"}
	created := &domain.ApprovalRequest{
		Action:     "delete-doc",
		Origin:     "doc#42",
		OriginType: "doc",
		OriginID:   "42",
		Status:     domain.ApprovalRequestStatusPending,
		CreatedBy:  "alice",
	}
	svc.On("CreateApprovalRequest", mock.Anything, domain.ActionToApprove("delete-doc"), origin, "alice").
		Return(created, nil).Once()

	body, _ := json.Marshal(map[string]string{
		"action":     "delete-doc",
		"originType": "doc",
		"originId":   "42",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, tm, "alice"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp domain.ApprovalRequest
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CombinedKey("doc#42"), resp.Origin)
	assert.Equal(t, "alice", resp.CreatedBy)
	svc.AssertExpectations(t)
}

func TestApprovalHandler_CreateApprovalRequest_InvalidOrigin(t *testing.T) {
	svc := new(MockApprovalService)
	router, tm := newTestRouter(svc)

	svc.On("CreateApprovalRequest", mock.Anything, mock.Anything, mock.Anything, "alice").
		Return(nil, fmt.Errorf("wrapped: %w", domain.ErrInvalidOrigin)).Once()

	body, _ := json.Marshal(map[string]string{"action": "delete-doc", "originType": "doc"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, tm, "alice"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApprovalHandler_GetPendingRequests(t *testing.T) {
	svc := new(MockApprovalService)
	router, tm := newTestRouter(svc)

	svc.On("GetPendingRequests", mock.Anything, domain.Origin{OriginType: "doc"}).
		Return([]domain.ApprovalRequest{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/approvals/pending?originType=doc", nil)
	req.Header.Set("Authorization", bearerToken(t, tm, "alice"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// A miss is an empty list, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestApprovalHandler_GetReviewablePendingRequests(t *testing.T) {
	svc := new(MockApprovalService)
	router, tm := newTestRouter(svc)

	svc.On("GetReviewablePendingRequests", mock.Anything, "bob", domain.Origin{OriginType: "doc", OriginID: "42"}, domain.ActionToApprove("delete-doc")).
		Return([]domain.ApprovalRequest{{Action: "delete-doc", Origin: "doc#42", OriginType: "doc", OriginID: "42"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/approvals/reviewable?originType=doc&originId=42&action=delete-doc", nil)
	req.Header.Set("Authorization", bearerToken(t, tm, "bob"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestApprovalHandler_ChangeApprovalRequestStatus(t *testing.T) {
	svc := new(MockApprovalService)
	router, tm := newTestRouter(svc)

	t.Run("NotFound", func(t *testing.T) {
		svc.On("ChangeApprovalRequestStatus", mock.Anything, mock.Anything, "alice").
			Return(nil, fmt.Errorf("wrapped: %w", domain.ErrRequestNotFound)).Once()

		body, _ := json.Marshal(domain.ApprovalResult{
			Action: "delete-doc", OriginType: "doc", OriginID: "42", Approved: true,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/decision", bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, tm, "alice"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Approved", func(t *testing.T) {
		updatedBy := "bob"
		svc.On("ChangeApprovalRequestStatus", mock.Anything, domain.ApprovalResult{
			Action: "delete-doc", OriginType: "doc", OriginID: "42", Approved: true,
		}, "bob").Return(&domain.ApprovalRequest{
			Action:    "delete-doc",
			Origin:    "doc#42",
			Status:    domain.ApprovalRequestStatusApproved,
			UpdatedBy: &updatedBy,
		}, nil).Once()

		body, _ := json.Marshal(domain.ApprovalResult{
			Action: "delete-doc", OriginType: "doc", OriginID: "42", Approved: true,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/decision", bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, tm, "bob"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp domain.ApprovalRequest
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.ApprovalRequestStatusApproved, resp.Status)
	})

	svc.AssertExpectations(t)
}

func TestApprovalHandler_Unauthenticated(t *testing.T) {
	svc := new(MockApprovalService)
	router, _ := newTestRouter(svc)

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/approvals/pending", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/approvals/pending", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	svc.AssertNotCalled(t, "GetPendingRequests", mock.Anything, mock.Anything)
}
