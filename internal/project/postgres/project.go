package postgres

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/project"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Create(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID filters by id and workspace in the same statement, so a project from
// another workspace is indistinguishable from a missing one.
func (r *Repository) GetByID(ctx context.Context, workspaceID, id int64) (*project.Project, error) {
	var p project.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context, workspaceID int64) ([]*project.Project, error) {
	var projects []*project.Project
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *Repository) Update(ctx context.Context, p *project.Project) error {
	result := r.db.WithContext(ctx).
		Model(&project.Project{}).
		Where("id = ? AND workspace_id = ?", p.ID, p.WorkspaceID).
		Updates(map[string]interface{}{
			"name":         p.Name,
			"description":  p.Description,
			"status":       p.Status,
			"budget_cents": p.BudgetCents,
			"starts_at":    p.StartsAt,
			"ends_at":      p.EndsAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrProjectNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, workspaceID, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		Delete(&project.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrProjectNotFound
	}
	return nil
}
