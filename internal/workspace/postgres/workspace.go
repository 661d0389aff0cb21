package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
	"github.com/frahmantamala/workspace-management/internal/workspace"
)

// Repository persists workspaces and memberships. It also implements
// authz.MembershipStore, so the evaluator reads roles straight from the same
// table every mutation writes to.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// CreateWithOwner inserts the workspace and the owner's ADMIN membership in one
// transaction, so a workspace is never visible without a member.
func (r *Repository) CreateWithOwner(ctx context.Context, ws *workspace.Workspace) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			if isUniqueViolation(err) {
				return internal.NewConflictError("workspace slug already in use", internal.ErrCodeValidationFailed)
			}
			return err
		}

		membership := &workspace.Membership{
			WorkspaceID: ws.ID,
			UserID:      ws.OwnerID,
			Role:        authz.RoleAdmin,
		}
		return tx.Create(membership).Error
	})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*workspace.Workspace, error) {
	var ws workspace.Workspace
	err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]*workspace.Workspace, error) {
	var workspaces []*workspace.Workspace
	err := r.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.workspace_id = workspaces.id").
		Where("memberships.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *Repository) Update(ctx context.Context, id int64, name, currency string) error {
	updates := map[string]interface{}{"name": name}
	if currency != "" {
		updates["currency"] = currency
	}

	result := r.db.WithContext(ctx).
		Model(&workspace.Workspace{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrWorkspaceNotFound
	}
	return nil
}

// Delete removes the workspace and everything scoped to it. Tenant rows go first so
// a failed transaction never leaves resources pointing at a missing workspace.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"inventory_allocations", "inventory_items", "invoices", "projects", "memberships"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE workspace_id = ?", id).Error; err != nil {
				return err
			}
		}

		result := tx.Exec("DELETE FROM workspaces WHERE id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrWorkspaceNotFound
		}
		return nil
	})
}

// Membership implements authz.MembershipStore. A missing row is reported as
// ErrNoMembership; the evaluator turns that into a denial, not an error.
func (r *Repository) Membership(ctx context.Context, workspaceID, userID int64) (*authz.Membership, error) {
	var m workspace.Membership
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.ErrNoMembership
		}
		return nil, err
	}

	return &authz.Membership{
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		Role:        m.Role,
	}, nil
}

func (r *Repository) FindUserIDByEmail(ctx context.Context, email string) (int64, error) {
	var userID int64
	err := r.db.WithContext(ctx).
		Raw("SELECT id FROM users WHERE email = ? AND is_active = ?", email, true).
		Scan(&userID).Error
	if err != nil {
		return 0, err
	}
	if userID == 0 {
		return 0, internal.ErrUserNotFound
	}
	return userID, nil
}

func (r *Repository) AddMember(ctx context.Context, m *workspace.Membership) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return internal.NewConflictError("user is already a member of this workspace", internal.ErrCodeDuplicateMember)
		}
		return err
	}
	return nil
}

func (r *Repository) ListMembers(ctx context.Context, workspaceID int64) ([]*workspace.Member, error) {
	var members []*workspace.Member
	err := r.db.WithContext(ctx).
		Raw(`SELECT m.user_id, u.email, u.name, m.role, m.created_at AS joined_at, m.workspace_id
		     FROM memberships m
		     JOIN users u ON u.id = m.user_id
		     WHERE m.workspace_id = ?
		     ORDER BY m.created_at ASC`, workspaceID).
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *Repository) UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role authz.Role) error {
	result := r.db.WithContext(ctx).
		Model(&workspace.Membership{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrMemberNotFound
	}
	return nil
}

func (r *Repository) RemoveMember(ctx context.Context, workspaceID, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&workspace.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrMemberNotFound
	}
	return nil
}

func (r *Repository) CountAdmins(ctx context.Context, workspaceID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&workspace.Membership{}).
		Where("workspace_id = ? AND role = ?", workspaceID, authz.RoleAdmin).
		Count(&count).Error
	return count, err
}

// isUniqueViolation matches both postgres (SQLSTATE 23505) and the sqlite driver
// used by repository tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
