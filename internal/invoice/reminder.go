package invoice

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/core/events"
)

// ReminderRepository feeds the due-invoice scanner. Workspace ids come first so
// every invoice query stays parameterized by its tenant; there is no unscoped read
// path even for background work.
type ReminderRepository interface {
	WorkspaceIDsWithOpenInvoices(ctx context.Context) ([]int64, error)
	DueWithin(ctx context.Context, workspaceID int64, before time.Time) ([]*Invoice, error)
}

// ReminderScanner periodically publishes invoice.reminder for sent, unpaid invoices
// approaching their due date.
type ReminderScanner struct {
	repo      ReminderRepository
	bus       *events.EventBus
	logger    *slog.Logger
	interval  time.Duration
	dueWithin time.Duration
}

func NewReminderScanner(repo ReminderRepository, bus *events.EventBus, logger *slog.Logger, interval, dueWithin time.Duration) *ReminderScanner {
	return &ReminderScanner{
		repo:      repo,
		bus:       bus,
		logger:    logger,
		interval:  interval,
		dueWithin: dueWithin,
	}
}

// Run blocks until ctx is cancelled, scanning once per interval.
func (s *ReminderScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("invoice reminder scanner started",
		"interval", s.interval.String(),
		"due_within", s.dueWithin.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("invoice reminder scanner stopped")
			return
		case <-ticker.C:
			// A scan never outlives the interval; a wedged query must not
			// stack scans behind it.
			scanCtx, cancel := internal.WithTimeout(ctx, s.interval)
			if err := s.ScanOnce(scanCtx); err != nil {
				s.logger.Error("reminder scan failed", "error", err)
			}
			cancel()
		}
	}
}

// ScanOnce walks each workspace with open invoices and publishes a reminder for
// every one due inside the window. A failure in one workspace does not stop the
// others.
func (s *ReminderScanner) ScanOnce(ctx context.Context) error {
	workspaceIDs, err := s.repo.WorkspaceIDsWithOpenInvoices(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(s.dueWithin)
	for _, workspaceID := range workspaceIDs {
		invoices, err := s.repo.DueWithin(ctx, workspaceID, cutoff)
		if err != nil {
			s.logger.Error("failed to scan workspace for due invoices",
				"error", err,
				"workspace_id", workspaceID)
			continue
		}

		for _, inv := range invoices {
			dueAt := ""
			if inv.DueAt != nil {
				dueAt = inv.DueAt.Format(time.RFC3339)
			}
			event := events.NewInvoiceReminderEvent(workspaceID, inv.ID, inv.Number, dueAt)
			if err := s.bus.Publish(ctx, event); err != nil {
				s.logger.Error("failed to publish reminder",
					"error", err,
					"invoice_id", inv.ID,
					"workspace_id", workspaceID)
			}
		}
	}

	return nil
}
