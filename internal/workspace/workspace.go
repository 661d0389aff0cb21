package workspace

import (
	"time"

	"github.com/frahmantamala/workspace-management/internal/authz"
)

// Workspace is the tenant boundary. Every tenant-scoped resource carries its id as
// an immutable foreign attribute.
type Workspace struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Currency  string    `json:"currency" gorm:"not null;default:USD"`
	OwnerID   int64     `json:"owner_id" gorm:"column:owner_id;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

// Membership joins a user to a workspace with exactly one role. The
// (workspace_id, user_id) pair is unique; a user with no row here has zero access to
// the workspace's resources.
type Membership struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	WorkspaceID int64      `json:"workspace_id" gorm:"column:workspace_id;uniqueIndex:idx_memberships_workspace_user;not null"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_memberships_workspace_user;not null"`
	Role        authz.Role `json:"role" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Membership) TableName() string {
	return "memberships"
}

// Member is the membership joined with user identity for listing.
type Member struct {
	UserID      int64      `json:"user_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        authz.Role `json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`
	WorkspaceID int64      `json:"-"`
}
