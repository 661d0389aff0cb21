package postgres

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/inventory"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Create(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) GetByID(ctx context.Context, workspaceID, id int64) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *Repository) List(ctx context.Context, workspaceID int64) ([]*inventory.Item, error) {
	var items []*inventory.Item
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, item *inventory.Item) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.Item{}).
		Where("id = ? AND workspace_id = ?", item.ID, item.WorkspaceID).
		Updates(map[string]interface{}{
			"name":               item.Name,
			"sku":                item.SKU,
			"quantity_available": item.QuantityAvailable,
			"unit_cost_cents":    item.UnitCostCents,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrItemNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, workspaceID, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		Delete(&inventory.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrItemNotFound
	}
	return nil
}

// Allocate decrements stock and records the allocation in one transaction. The
// availability check sits inside the UPDATE's WHERE clause, so concurrent
// allocations serialize on the row and can never drive the quantity negative.
// The target project is resolved under the same workspace filter; a project id
// from another tenant reads as absent.
func (r *Repository) Allocate(ctx context.Context, a *inventory.Allocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var projectCount int64
		if err := tx.Table("projects").
			Where("id = ? AND workspace_id = ?", a.ProjectID, a.WorkspaceID).
			Count(&projectCount).Error; err != nil {
			return err
		}
		if projectCount == 0 {
			return internal.ErrProjectNotFound
		}

		result := tx.Exec(`UPDATE inventory_items
			SET quantity_available = quantity_available - ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND workspace_id = ? AND quantity_available >= ?`,
			a.Quantity, a.ItemID, a.WorkspaceID, a.Quantity)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Either the item is missing in this workspace or the stock is short.
			var count int64
			if err := tx.Model(&inventory.Item{}).
				Where("id = ? AND workspace_id = ?", a.ItemID, a.WorkspaceID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return internal.ErrItemNotFound
			}
			return inventory.ErrInsufficientStock
		}

		return tx.Create(a).Error
	})
}

func (r *Repository) ListAllocations(ctx context.Context, workspaceID, itemID int64) ([]*inventory.Allocation, error) {
	var allocations []*inventory.Allocation
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND item_id = ?", workspaceID, itemID).
		Order("created_at DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}
