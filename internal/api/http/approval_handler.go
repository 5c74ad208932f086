package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/service"

	"github.com/gorilla/mux"
)

// ApprovalHandler exposes the four workflow operations over HTTP/JSON.
type ApprovalHandler struct {
	svc service.ApprovalService
}

func NewApprovalHandler(svc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{svc: svc}
}

// Register mounts the approval routes behind the auth middleware.
func (h *ApprovalHandler) Register(router *mux.Router, auth *AuthMiddleware) {
	api := router.PathPrefix("/api/v1/approvals").Subrouter()
	api.Use(auth.Handler)
	api.HandleFunc("", h.CreateApprovalRequest).Methods(http.MethodPost)
	api.HandleFunc("/pending", h.GetPendingRequests).Methods(http.MethodGet)
	api.HandleFunc("/reviewable", h.GetReviewablePendingRequests).Methods(http.MethodGet)
	api.HandleFunc("/decision", h.ChangeApprovalRequestStatus).Methods(http.MethodPost)
}

type createApprovalRequestInput struct {
	Action     domain.ActionToApprove `json:"action"`
	OriginType string                 `json:"originType"`
	OriginID   string                 `json:"originId"`
}

func (h *ApprovalHandler) CreateApprovalRequest(w http.ResponseWriter, r *http.Request) {
	sub, err := SubjectFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var input createApprovalRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	origin := domain.Origin{OriginType: input.OriginType, OriginID: input.OriginID}
	req, err := h.svc.CreateApprovalRequest(r.Context(), input.Action, origin, sub)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *ApprovalHandler) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	origin := originFromQuery(r)
	reqs, err := h.svc.GetPendingRequests(r.Context(), origin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *ApprovalHandler) GetReviewablePendingRequests(w http.ResponseWriter, r *http.Request) {
	sub, err := SubjectFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	origin := originFromQuery(r)
	action := domain.ActionToApprove(r.URL.Query().Get("action"))
	reqs, err := h.svc.GetReviewablePendingRequests(r.Context(), sub, origin, action)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *ApprovalHandler) ChangeApprovalRequestStatus(w http.ResponseWriter, r *http.Request) {
	sub, err := SubjectFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var result domain.ApprovalResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.svc.ChangeApprovalRequestStatus(r.Context(), result, sub)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func originFromQuery(r *http.Request) domain.Origin {
	query := r.URL.Query()
	return domain.Origin{
		OriginType: query.Get("originType"),
		OriginID:   query.Get("originId"),
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOrigin):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrRequestNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateRequest):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Error("Approval operation failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response body", "error", err)
	}
}
