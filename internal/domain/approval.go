package domain

import "time"

// ActionToApprove is the kind of action being approved, e.g. "delete-doc".
// Values are defined by the calling systems; together with the encoded origin
// it forms the primary key of a request.
type ActionToApprove string

type ApprovalRequestStatus string

const (
	ApprovalRequestStatusPending  ApprovalRequestStatus = "PENDING"
	ApprovalRequestStatusApproved ApprovalRequestStatus = "APPROVED"
	ApprovalRequestStatusRejected ApprovalRequestStatus = "REJECTED"
)

// PendingMarker is the value carried by a request's pending field while it
// awaits a decision. The field is NULL once decided, which keeps decided
// rows out of the pending index.
const PendingMarker int32 = 1

// ApprovalRequest is the persisted record of one approval. A request is
// created PENDING and mutated exactly once, by a decision; APPROVED and
// REJECTED are terminal. Pending is set iff Status is PENDING.
type ApprovalRequest struct {
	Action ActionToApprove `json:"action"`
	Origin CombinedKey     `json:"origin"`

	// Decoded origin parts, merged onto the record before it is returned
	// to callers. Not stored.
	OriginType string `json:"originType,omitempty"`
	OriginID   string `json:"originId,omitempty"`

	Status  ApprovalRequestStatus `json:"status"`
	Pending *int32                `json:"pending,omitempty"`
	Message *string               `json:"message,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy string     `json:"createdBy"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy *string    `json:"updatedBy,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // reserved for soft delete
	DeletedBy *string    `json:"deletedBy,omitempty"`
}

// ApprovalResult is a reviewer's decision on a pending request.
type ApprovalResult struct {
	Action     ActionToApprove `json:"action"`
	OriginType string          `json:"originType"`
	OriginID   string          `json:"originId"`
	Message    *string         `json:"message,omitempty"`
	Approved   bool            `json:"approved"`
}

func (r ApprovalResult) Origin() Origin {
	return Origin{OriginType: r.OriginType, OriginID: r.OriginID}
}
