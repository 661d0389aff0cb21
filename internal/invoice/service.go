package invoice

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
	"github.com/frahmantamala/workspace-management/internal/core/events"
)

// Repository is the persistence boundary for invoices. MarkSent constrains the
// update by (id, workspace_id, status) so only a draft in the caller's workspace
// can transition; anything else reports what went wrong without touching the row.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, workspaceID, id int64) (*Invoice, error)
	List(ctx context.Context, workspaceID int64) ([]*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, workspaceID, id int64) error

	MarkSent(ctx context.Context, workspaceID, id int64, sentAt time.Time) error
	MarkPaid(ctx context.Context, workspaceID, id int64, paidAt time.Time) error
}

// ErrNotDraft is returned when sending an invoice that already left draft state.
var ErrNotDraft = internal.NewConflictError("only draft invoices can be sent", internal.ErrCodeInvalidStatus)

// ErrNotSent is returned when marking an invoice paid that was never sent.
var ErrNotSent = internal.NewConflictError("only sent invoices can be marked paid", internal.ErrCodeInvalidStatus)

type Service struct {
	repo   Repository
	gate   *authz.Gate
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, gate *authz.Gate, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, bus: bus, logger: logger}
}

func (s *Service) CreateInvoice(ctx context.Context, session *authz.Session, dto CreateInvoiceDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		WorkspaceID:   session.WorkspaceID,
		ProjectID:     dto.ProjectID,
		Number:        dto.Number,
		Status:        StatusDraft,
		AmountCents:   dto.AmountCents,
		Currency:      dto.Currency,
		CustomerName:  dto.CustomerName,
		CustomerEmail: dto.CustomerEmail,
		DueAt:         dto.DueAt,
		CreatedBy:     session.UserID,
	}

	err := s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInvoice, authz.ActionCreate, func(ctx context.Context) error {
		return s.repo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, session *authz.Session, id int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, session.WorkspaceID, id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewStorageError("could not load invoice", err)
	}
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, session *authz.Session) ([]*Invoice, error) {
	invoices, err := s.repo.List(ctx, session.WorkspaceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list invoices", "error", err, "workspace_id", session.WorkspaceID)
		return nil, internal.NewStorageError("could not list invoices", err)
	}
	return invoices, nil
}

func (s *Service) UpdateInvoice(ctx context.Context, session *authz.Session, id int64, dto UpdateInvoiceDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *Invoice
	err := s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInvoice, authz.ActionUpdate, func(ctx context.Context) error {
		inv, err := s.repo.GetByID(ctx, session.WorkspaceID, id)
		if err != nil {
			return err
		}

		inv.AmountCents = dto.AmountCents
		inv.CustomerName = dto.CustomerName
		inv.CustomerEmail = dto.CustomerEmail
		inv.DueAt = dto.DueAt

		if err := s.repo.Update(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteInvoice(ctx context.Context, session *authz.Session, id int64) error {
	return s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInvoice, authz.ActionDelete, func(ctx context.Context) error {
		return s.repo.Delete(ctx, session.WorkspaceID, id)
	})
}

// SendInvoice transitions a draft to sent and publishes invoice.sent. The status
// check rides in the same statement as the update, so a double send loses cleanly.
func (s *Service) SendInvoice(ctx context.Context, session *authz.Session, id int64) error {
	return s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInvoice, authz.ActionSend, func(ctx context.Context) error {
		if err := s.repo.MarkSent(ctx, session.WorkspaceID, id, time.Now().UTC()); err != nil {
			return err
		}

		inv, err := s.repo.GetByID(ctx, session.WorkspaceID, id)
		if err != nil {
			return err
		}

		event := events.NewInvoiceSentEvent(session.WorkspaceID, inv.ID, inv.Number)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish invoice.sent", "error", err, "invoice_id", inv.ID)
		}
		return nil
	})
}

// MarkPaid records payment of a sent invoice.
func (s *Service) MarkPaid(ctx context.Context, session *authz.Session, id int64) error {
	return s.gate.Perform(ctx, session.UserID, session.WorkspaceID, authz.ResourceInvoice, authz.ActionUpdate, func(ctx context.Context) error {
		return s.repo.MarkPaid(ctx, session.WorkspaceID, id, time.Now().UTC())
	})
}
