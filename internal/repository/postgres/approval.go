package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/repository"

	"github.com/lib/pq"
)

const approvalColumns = "action, origin, status, pending, message, created_at, created_by, updated_at, updated_by, deleted_at, deleted_by"

type approvalRepository struct {
	db *sql.DB
}

func NewApprovalRepository(db *sql.DB) repository.ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) CreateItem(ctx context.Context, req *domain.ApprovalRequest) error {
	query := `INSERT INTO approval_requests (action, origin, status, pending, message, created_at, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	logger.DatabaseCall("CreateItem", query, "action", req.Action, "origin", req.Origin)

	_, err := r.db.ExecContext(ctx, query,
		string(req.Action), string(req.Origin), string(req.Status), req.Pending, req.Message, req.CreatedAt, req.CreatedBy)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: action %s, origin %s", domain.ErrDuplicateRequest, req.Action, req.Origin)
		}
		return fmt.Errorf("failed to insert approval request: %w", err)
	}
	return nil
}

func (r *approvalRepository) GetPendingItems(ctx context.Context, filter repository.PendingFilter) ([]domain.ApprovalRequest, error) {
	where, args := pendingPredicate(filter)
	query := fmt.Sprintf(`SELECT %s FROM approval_requests WHERE %s`, approvalColumns, where)
	logger.DatabaseCall("GetPendingItems", query, "args", args)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending requests: %w", err)
	}
	defer rows.Close()

	return scanApprovalRequests(rows)
}

func (r *approvalRepository) UpdateStatus(ctx context.Context, update repository.StatusUpdate) ([]domain.ApprovalRequest, error) {
	sets, args := updateAssignments(update)
	args = append(args, string(update.Action), string(update.Origin))

	// The pending guard is the concurrency control: of two racing decisions
	// only the first still finds the row in the pending index, the second
	// matches nothing and returns an empty result.
	query := fmt.Sprintf(
		`UPDATE approval_requests SET %s WHERE action = $%d AND origin = $%d AND pending IS NOT NULL RETURNING %s`,
		sets, len(args)-1, len(args), approvalColumns)
	logger.DatabaseCall("UpdateStatus", query, "action", update.Action, "origin", update.Origin)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update approval request status: %w", err)
	}
	defer rows.Close()

	return scanApprovalRequests(rows)
}

func scanApprovalRequests(rows *sql.Rows) ([]domain.ApprovalRequest, error) {
	reqs := []domain.ApprovalRequest{}
	for rows.Next() {
		var req domain.ApprovalRequest
		if err := rows.Scan(
			&req.Action, &req.Origin, &req.Status, &req.Pending, &req.Message,
			&req.CreatedAt, &req.CreatedBy, &req.UpdatedAt, &req.UpdatedBy,
			&req.DeletedAt, &req.DeletedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading approval request rows: %w", err)
	}
	return reqs, nil
}
