package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/invoice"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *Repository) GetByID(ctx context.Context, workspaceID, id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) List(ctx context.Context, workspaceID int64) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// Update edits invoice fields. Only drafts are editable; once sent the invoice
// is immutable apart from the status transitions below.
func (r *Repository) Update(ctx context.Context, inv *invoice.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&invoice.Invoice{}).
		Where("id = ? AND workspace_id = ? AND status = ?", inv.ID, inv.WorkspaceID, invoice.StatusDraft).
		Updates(map[string]interface{}{
			"amount_cents":   inv.AmountCents,
			"customer_name":  inv.CustomerName,
			"customer_email": inv.CustomerEmail,
			"due_at":         inv.DueAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.explainMiss(ctx, inv.WorkspaceID, inv.ID, invoice.ErrNotDraft)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, workspaceID, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ? AND status = ?", id, workspaceID, invoice.StatusDraft).
		Delete(&invoice.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.explainMiss(ctx, workspaceID, id, invoice.ErrNotDraft)
	}
	return nil
}

// MarkSent moves a draft to sent. The draft check is part of the UPDATE, so a
// concurrent double send affects exactly one row; the loser gets a status error.
func (r *Repository) MarkSent(ctx context.Context, workspaceID, id int64, sentAt time.Time) error {
	result := r.db.WithContext(ctx).Exec(`UPDATE invoices
		SET status = ?, sent_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND workspace_id = ? AND status = ?`,
		invoice.StatusSent, sentAt, id, workspaceID, invoice.StatusDraft)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.explainMiss(ctx, workspaceID, id, invoice.ErrNotDraft)
	}
	return nil
}

func (r *Repository) MarkPaid(ctx context.Context, workspaceID, id int64, paidAt time.Time) error {
	result := r.db.WithContext(ctx).Exec(`UPDATE invoices
		SET status = ?, paid_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND workspace_id = ? AND status = ?`,
		invoice.StatusPaid, paidAt, id, workspaceID, invoice.StatusSent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.explainMiss(ctx, workspaceID, id, invoice.ErrNotSent)
	}
	return nil
}

// explainMiss distinguishes a missing invoice from a wrong-status one after a
// guarded update matched nothing. Cross-workspace ids stay NotFound.
func (r *Repository) explainMiss(ctx context.Context, workspaceID, id int64, statusErr error) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&invoice.Invoice{}).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return internal.ErrInvoiceNotFound
	}
	return statusErr
}

// WorkspaceIDsWithOpenInvoices lists tenants that have sent, unpaid invoices. The
// reminder scanner iterates these so invoice reads stay workspace-parameterized.
func (r *Repository) WorkspaceIDsWithOpenInvoices(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&invoice.Invoice{}).
		Distinct("workspace_id").
		Where("status = ?", invoice.StatusSent).
		Pluck("workspace_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) DueWithin(ctx context.Context, workspaceID int64, before time.Time) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND status = ? AND due_at IS NOT NULL AND due_at <= ?",
			workspaceID, invoice.StatusSent, before).
		Order("due_at ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
