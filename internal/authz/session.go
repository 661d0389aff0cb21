package authz

import (
	"context"
	"errors"

	"github.com/frahmantamala/workspace-management/internal"
)

// ErrNotAMember is returned by BuildSession when the principal has no membership in
// the requested workspace. Handlers translate it to the same "Permission denied"
// outcome as a failed evaluation.
var ErrNotAMember = errors.New("not a member of workspace")

// Session is the per-request workspace context: the resolved principal, the
// workspace the request is scoped to, and the principal's role there. Built once by
// middleware; downstream handlers read it instead of re-querying the membership
// store, but still go through the evaluator per action; holding a role is not the
// same as holding a permission.
type Session struct {
	UserID      int64
	WorkspaceID int64
	Role        Role
}

type sessionCtxKey struct{}

// BuildSession resolves the principal's membership in workspaceID. It is the single
// choke point that denies non-members before any workspace-scoped data is fetched.
func BuildSession(ctx context.Context, store MembershipStore, principalID, workspaceID int64) (*Session, error) {
	if principalID == 0 {
		return nil, internal.ErrUnauthorized
	}

	membership, err := store.Membership(ctx, workspaceID, principalID)
	if err != nil {
		if errors.Is(err, ErrNoMembership) {
			return nil, ErrNotAMember
		}
		return nil, internal.NewStorageError("could not resolve workspace membership", err)
	}

	return &Session{
		UserID:      principalID,
		WorkspaceID: workspaceID,
		Role:        membership.Role,
	}, nil
}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*Session)
	return s, ok
}
