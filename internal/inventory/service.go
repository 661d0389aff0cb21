package inventory

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

// Repository is the persistence boundary for stock. Allocate must decrement
// availability and insert the allocation row in one transaction, with the stock
// check inside the decrement statement itself.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, workspaceID, id int64) (*Item, error)
	List(ctx context.Context, workspaceID int64) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, workspaceID, id int64) error

	Allocate(ctx context.Context, a *Allocation) error
	ListAllocations(ctx context.Context, workspaceID, itemID int64) ([]*Allocation, error)
}

// ErrInsufficientStock is returned when an allocation asks for more than is
// available. It is a caller mistake, not a storage failure.
var ErrInsufficientStock = internal.NewValidationError("insufficient stock available", internal.ErrCodeInsufficientStock)

type Service struct {
	repo   Repository
	gate   *authz.Gate
	logger *slog.Logger
}

func NewService(repo Repository, gate *authz.Gate, logger *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, logger: logger}
}

func (s *Service) CreateItem(ctx context.Context, session *authz.Session, dto CreateItemDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item := &Item{
		WorkspaceID:       session.WorkspaceID,
		Name:              dto.Name,
		SKU:               dto.SKU,
		QuantityAvailable: dto.QuantityAvailable,
		UnitCostCents:     dto.UnitCostCents,
		CreatedBy:         session.UserID,
	}

	err := s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInventory, authz.ActionCreate, func(ctx context.Context) error {
		return s.repo.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, session *authz.Session, id int64) (*Item, error) {
	item, err := s.repo.GetByID(ctx, session.WorkspaceID, id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewStorageError("could not load inventory item", err)
	}
	return item, nil
}

func (s *Service) ListItems(ctx context.Context, session *authz.Session) ([]*Item, error) {
	items, err := s.repo.List(ctx, session.WorkspaceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list inventory", "error", err, "workspace_id", session.WorkspaceID)
		return nil, internal.NewStorageError("could not list inventory", err)
	}
	return items, nil
}

func (s *Service) UpdateItem(ctx context.Context, session *authz.Session, id int64, dto UpdateItemDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *Item
	err := s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInventory, authz.ActionUpdate, func(ctx context.Context) error {
		item, err := s.repo.GetByID(ctx, session.WorkspaceID, id)
		if err != nil {
			return err
		}

		item.Name = dto.Name
		item.SKU = dto.SKU
		item.QuantityAvailable = dto.QuantityAvailable
		item.UnitCostCents = dto.UnitCostCents

		if err := s.repo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, session *authz.Session, id int64) error {
	return s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInventory, authz.ActionDelete, func(ctx context.Context) error {
		return s.repo.Delete(ctx, session.WorkspaceID, id)
	})
}

// AllocateStock reserves quantity from an item for a project. The availability
// check, decrement and allocation row commit atomically; two racing allocations
// can never oversell.
func (s *Service) AllocateStock(ctx context.Context, session *authz.Session, itemID int64, dto AllocateDTO) (*Allocation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	allocation := &Allocation{
		WorkspaceID: session.WorkspaceID,
		ItemID:      itemID,
		ProjectID:   dto.ProjectID,
		Quantity:    dto.Quantity,
		AllocatedBy: session.UserID,
	}

	err := s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInventory, authz.ActionAllocate, func(ctx context.Context) error {
		return s.repo.Allocate(ctx, allocation)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock allocated",
		"workspace_id", session.WorkspaceID,
		"item_id", itemID,
		"project_id", dto.ProjectID,
		"quantity", dto.Quantity)
	return allocation, nil
}

func (s *Service) ListAllocations(ctx context.Context, session *authz.Session, itemID int64) ([]*Allocation, error) {
	allocations, err := s.repo.ListAllocations(ctx, session.WorkspaceID, itemID)
	if err != nil {
		return nil, internal.NewStorageError("could not list allocations", err)
	}
	return allocations, nil
}
