package project

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

// Repository is the persistence boundary for projects. GetByID, Update and Delete
// must constrain by (id, workspace_id) in a single statement.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, workspaceID, id int64) (*Project, error)
	List(ctx context.Context, workspaceID int64) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, workspaceID, id int64) error
}

type Service struct {
	repo   Repository
	gate   *authz.Gate
	logger *slog.Logger
}

func NewService(repo Repository, gate *authz.Gate, logger *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, logger: logger}
}

func (s *Service) CreateProject(ctx context.Context, session *authz.Session, dto CreateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &Project{
		WorkspaceID: session.WorkspaceID,
		Name:        dto.Name,
		Description: dto.Description,
		Status:      StatusActive,
		BudgetCents: dto.BudgetCents,
		StartsAt:    dto.StartsAt,
		EndsAt:      dto.EndsAt,
		CreatedBy:   session.UserID,
	}

	err := s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceProject, authz.ActionCreate, func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created",
		"project_id", p.ID,
		"workspace_id", p.WorkspaceID,
		"user_id", session.UserID)
	return p, nil
}

// GetProject is readable by any member of the session workspace. A project id from
// another workspace resolves to NotFound, same as a nonexistent id.
func (s *Service) GetProject(ctx context.Context, session *authz.Session, id int64) (*Project, error) {
	p, err := s.repo.GetByID(ctx, session.WorkspaceID, id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewStorageError("could not load project", err)
	}
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context, session *authz.Session) ([]*Project, error) {
	projects, err := s.repo.List(ctx, session.WorkspaceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list projects", "error", err, "workspace_id", session.WorkspaceID)
		return nil, internal.NewStorageError("could not list projects", err)
	}
	return projects, nil
}

func (s *Service) UpdateProject(ctx context.Context, session *authz.Session, id int64, dto UpdateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *Project
	err := s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceProject, authz.ActionUpdate, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, session.WorkspaceID, id)
		if err != nil {
			return err
		}

		p.Name = dto.Name
		p.Description = dto.Description
		if dto.Status != "" {
			p.Status = dto.Status
		}
		p.BudgetCents = dto.BudgetCents
		p.StartsAt = dto.StartsAt
		p.EndsAt = dto.EndsAt

		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteProject(ctx context.Context, session *authz.Session, id int64) error {
	return s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceProject, authz.ActionDelete, func(ctx context.Context) error {
		return s.repo.Delete(ctx, session.WorkspaceID, id)
	})
}
