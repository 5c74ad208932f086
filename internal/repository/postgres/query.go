package postgres

import (
	"fmt"
	"strings"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/repository"
)

// pendingPredicate translates a PendingFilter into a parameterized WHERE
// clause over the pending index. Values never end up inside the SQL text;
// each one becomes a numbered placeholder argument.
//
// Origin matching is asymmetric on purpose: a full origin matches the
// combined key exactly, a bare origin id is a containment match (ids may
// embed the key separator), a bare origin type is a prefix match.
func pendingPredicate(filter repository.PendingFilter) (string, []any) {
	conds := []string{"pending IS NOT NULL"}
	args := make([]any, 0, 4)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case filter.OriginID != "" && filter.OriginType != "":
		key := filter.OriginType + domain.KeySeparator + filter.OriginID
		conds = append(conds, "origin = "+arg(key))
	case filter.OriginID != "":
		conds = append(conds, "position("+arg(filter.OriginID)+" in origin) > 0")
	case filter.OriginType != "":
		conds = append(conds, "starts_with(origin, "+arg(filter.OriginType)+")")
	}

	if filter.ExcludeCreatedBy != "" {
		conds = append(conds, "created_by <> "+arg(filter.ExcludeCreatedBy))
	}
	if filter.Action != "" {
		conds = append(conds, "action = "+arg(string(filter.Action)))
	}

	return strings.Join(conds, " AND "), args
}

// updateAssignments translates a StatusUpdate into SET clauses. Only fields
// actually carried by the update are written, so an update that omits a
// field never clobbers an older audit value. The pending marker is always
// cleared; that is what moves the row out of the pending index.
func updateAssignments(update repository.StatusUpdate) (string, []any) {
	sets := []string{"pending = NULL"}
	args := make([]any, 0, 6)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sets = append(sets, "status = "+arg(string(update.Status)))
	if update.UpdatedAt != nil {
		sets = append(sets, "updated_at = "+arg(*update.UpdatedAt))
	}
	if update.UpdatedBy != nil {
		sets = append(sets, "updated_by = "+arg(*update.UpdatedBy))
	}
	if update.Message != nil {
		sets = append(sets, "message = "+arg(*update.Message))
	}
	if update.DeletedAt != nil {
		sets = append(sets, "deleted_at = "+arg(*update.DeletedAt))
	}
	if update.DeletedBy != nil {
		sets = append(sets, "deleted_by = "+arg(*update.DeletedBy))
	}

	return strings.Join(sets, ", "), args
}
