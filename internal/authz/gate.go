package authz

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/workspace-management/internal"
)

// Op is the underlying persistence call guarded by the gate. It must constrain every
// point read, update, and delete by (resource id, workspace id) inside the same
// statement; a match on resource id alone is a defect.
type Op func(ctx context.Context) error

// Gate wraps every state-mutating or data-returning operation on a tenant-scoped
// resource. Denials are decided entirely here and never reach the persistence
// boundary.
type Gate struct {
	evaluator *Evaluator
	logger    *slog.Logger
}

func NewGate(evaluator *Evaluator, logger *slog.Logger) *Gate {
	return &Gate{evaluator: evaluator, logger: logger}
}

// Perform authorizes and then runs op.
//
// An anonymous principal fails with Unauthorized before the evaluator is touched.
// A denied evaluation fails with Permission denied and runs nothing, so a denied
// caller learns nothing about whether the target exists. Membership-missing and
// role-not-permitted deliberately collapse into the same denial. On op failure the
// typed error passes through unchanged; anything untyped is logged with its cause
// and returned as a storage failure with the detail stripped.
func (g *Gate) Perform(ctx context.Context, principalID, workspaceID int64, kind ResourceKind, action Action, op Op) error {
	if principalID == 0 {
		return internal.ErrUnauthorized
	}

	decision, err := g.evaluator.Evaluate(ctx, principalID, workspaceID, kind, action)
	if err != nil {
		g.logger.ErrorContext(ctx, "permission evaluation failed",
			"error", err,
			"user_id", principalID,
			"workspace_id", workspaceID,
			"resource", kind,
			"action", action)
		return internal.NewStorageError("could not evaluate permissions", err)
	}

	if !decision.Allowed {
		return internal.ErrPermissionDenied
	}

	if err := op(ctx); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		g.logger.ErrorContext(ctx, "scoped operation failed",
			"error", err,
			"user_id", principalID,
			"workspace_id", workspaceID,
			"resource", kind,
			"action", action)
		return internal.NewStorageError("operation failed", err)
	}

	return nil
}
