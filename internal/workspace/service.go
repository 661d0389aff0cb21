package workspace

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

// Repository is the persistence boundary for workspaces and memberships. Every
// member operation is keyed by (workspace id, user id); the implementation also
// serves as the authz membership store.
type Repository interface {
	authz.MembershipStore

	CreateWithOwner(ctx context.Context, ws *Workspace) error
	GetByID(ctx context.Context, id int64) (*Workspace, error)
	ListForUser(ctx context.Context, userID int64) ([]*Workspace, error)
	Update(ctx context.Context, id int64, name, currency string) error
	Delete(ctx context.Context, id int64) error

	FindUserIDByEmail(ctx context.Context, email string) (int64, error)
	AddMember(ctx context.Context, m *Membership) error
	ListMembers(ctx context.Context, workspaceID int64) ([]*Member, error)
	UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role authz.Role) error
	RemoveMember(ctx context.Context, workspaceID, userID int64) error
	CountAdmins(ctx context.Context, workspaceID int64) (int64, error)
}

// Service owns workspace lifecycle and member management. Mutations on an existing
// workspace go through the scoped operation gate; creation only needs an
// authenticated principal, since the creator becomes the first admin.
type Service struct {
	repo   Repository
	gate   *authz.Gate
	logger *slog.Logger
}

func NewService(repo Repository, gate *authz.Gate, logger *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, logger: logger}
}

// CreateWorkspace creates the workspace and the creator's ADMIN membership in one
// transaction. A workspace never exists without at least one member.
func (s *Service) CreateWorkspace(ctx context.Context, principalID int64, dto CreateWorkspaceDTO) (*Workspace, error) {
	if principalID == 0 {
		return nil, internal.ErrUnauthorized
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ws := &Workspace{
		Name:     dto.Name,
		Slug:     dto.Slug,
		Currency: dto.Currency,
		OwnerID:  principalID,
	}

	if err := s.repo.CreateWithOwner(ctx, ws); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.ErrorContext(ctx, "failed to create workspace", "error", err, "user_id", principalID)
		return nil, internal.NewStorageError("could not create workspace", err)
	}

	s.logger.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"slug", ws.Slug,
		"owner_id", principalID)

	return ws, nil
}

// ListWorkspaces returns the workspaces the principal is a member of.
func (s *Service) ListWorkspaces(ctx context.Context, principalID int64) ([]*Workspace, error) {
	if principalID == 0 {
		return nil, internal.ErrUnauthorized
	}

	workspaces, err := s.repo.ListForUser(ctx, principalID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list workspaces", "error", err, "user_id", principalID)
		return nil, internal.NewStorageError("could not list workspaces", err)
	}
	return workspaces, nil
}

// GetWorkspace returns workspace details for a member. Non-members get NotFound via
// the session middleware before this is reached; the scope filter here is the second
// line of defense.
func (s *Service) GetWorkspace(ctx context.Context, session *authz.Session) (*Workspace, error) {
	ws, err := s.repo.GetByID(ctx, session.WorkspaceID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewStorageError("could not load workspace", err)
	}
	return ws, nil
}

func (s *Service) UpdateWorkspace(ctx context.Context, principalID, workspaceID int64, dto UpdateWorkspaceDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	return s.gate.Perform(ctx, principalID, workspaceID, authz.ResourceWorkspace, authz.ActionUpdate, func(ctx context.Context) error {
		return s.repo.Update(ctx, workspaceID, dto.Name, dto.Currency)
	})
}

// DeleteWorkspace removes the workspace together with its memberships and all
// tenant-scoped rows; nothing is left orphaned-but-present.
func (s *Service) DeleteWorkspace(ctx context.Context, principalID, workspaceID int64) error {
	return s.gate.Perform(ctx, principalID, workspaceID, authz.ResourceWorkspace, authz.ActionDelete, func(ctx context.Context) error {
		return s.repo.Delete(ctx, workspaceID)
	})
}

// AddMember grants a role to an existing user, keyed by email.
func (s *Service) AddMember(ctx context.Context, principalID, workspaceID int64, dto AddMemberDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	return s.gate.Perform(ctx, principalID, workspaceID, authz.ResourceWorkspace, authz.ActionManageMembers, func(ctx context.Context) error {
		userID, err := s.repo.FindUserIDByEmail(ctx, dto.Email)
		if err != nil {
			return err
		}

		return s.repo.AddMember(ctx, &Membership{
			WorkspaceID: workspaceID,
			UserID:      userID,
			Role:        authz.Role(dto.Role),
		})
	})
}

func (s *Service) ListMembers(ctx context.Context, session *authz.Session) ([]*Member, error) {
	members, err := s.repo.ListMembers(ctx, session.WorkspaceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list members", "error", err, "workspace_id", session.WorkspaceID)
		return nil, internal.NewStorageError("could not list members", err)
	}
	return members, nil
}

// ChangeMemberRole updates a member's role. The change is visible to the very next
// permission evaluation; no cache sits between the store and the evaluator.
func (s *Service) ChangeMemberRole(ctx context.Context, principalID, workspaceID, memberUserID int64, dto ChangeRoleDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	return s.gate.Perform(ctx, principalID, workspaceID, authz.ResourceWorkspace, authz.ActionManageMembers, func(ctx context.Context) error {
		if authz.Role(dto.Role) != authz.RoleAdmin {
			if err := s.ensureNotLastAdmin(ctx, workspaceID, memberUserID); err != nil {
				return err
			}
		}
		return s.repo.UpdateMemberRole(ctx, workspaceID, memberUserID, authz.Role(dto.Role))
	})
}

func (s *Service) RemoveMember(ctx context.Context, principalID, workspaceID, memberUserID int64) error {
	return s.gate.Perform(ctx, principalID, workspaceID, authz.ResourceWorkspace, authz.ActionManageMembers, func(ctx context.Context) error {
		if err := s.ensureNotLastAdmin(ctx, workspaceID, memberUserID); err != nil {
			return err
		}
		return s.repo.RemoveMember(ctx, workspaceID, memberUserID)
	})
}

// ensureNotLastAdmin blocks demoting or removing the only admin, which would strand
// the workspace without anyone able to manage it.
func (s *Service) ensureNotLastAdmin(ctx context.Context, workspaceID, memberUserID int64) error {
	membership, err := s.repo.Membership(ctx, workspaceID, memberUserID)
	if err != nil {
		if err == authz.ErrNoMembership {
			return internal.ErrMemberNotFound
		}
		return err
	}
	if membership.Role != authz.RoleAdmin {
		return nil
	}

	admins, err := s.repo.CountAdmins(ctx, workspaceID)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return internal.NewConflictError("cannot remove the last admin of a workspace", internal.ErrCodeLastAdminRemoval)
	}
	return nil
}
