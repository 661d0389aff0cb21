package authz

import (
	"context"
	"errors"
)

// ErrNoMembership is returned by a MembershipStore when no row exists for the
// (workspace, user) pair.
var ErrNoMembership = errors.New("no membership for workspace and user")

// Membership is the single record establishing a user's role within one workspace.
// At most one exists per (workspace, user) pair.
type Membership struct {
	WorkspaceID int64
	UserID      int64
	Role        Role
}

// MembershipStore is the persisted (workspace, user) -> role lookup. The evaluator
// queries it on every call; there is no cache, so a committed role change or removal
// is visible on the very next evaluation.
type MembershipStore interface {
	Membership(ctx context.Context, workspaceID, userID int64) (*Membership, error)
}

// Decision is the outcome of a permission evaluation. A caller that only checks
// Allowed cannot distinguish a missing membership from a missing workspace.
type Decision struct {
	Allowed bool
	Role    Role
}

// Evaluator composes the membership store with the role matrix. Stateless and safe
// for concurrent use.
type Evaluator struct {
	store MembershipStore
}

func NewEvaluator(store MembershipStore) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate decides whether principalID may perform action on kind inside
// workspaceID. Exactly one membership read per call. A non-member always gets
// {Allowed: false, Role: ""}; store failures other than ErrNoMembership surface as
// errors so the gate can report a storage failure instead of a denial.
func (e *Evaluator) Evaluate(ctx context.Context, principalID, workspaceID int64, kind ResourceKind, action Action) (Decision, error) {
	membership, err := e.store.Membership(ctx, workspaceID, principalID)
	if err != nil {
		if errors.Is(err, ErrNoMembership) {
			return Decision{Allowed: false}, nil
		}
		return Decision{}, err
	}

	return Decision{
		Allowed: Allowed(membership.Role, kind, action),
		Role:    membership.Role,
	}, nil
}
