package invoice

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
	"github.com/frahmantamala/workspace-management/internal/core/events"
)

func TestInvoice(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Invoice Module Suite")
}

type fakeMembershipStore struct {
	memberships map[[2]int64]authz.Role
}

func (f *fakeMembershipStore) Membership(_ context.Context, workspaceID, userID int64) (*authz.Membership, error) {
	role, ok := f.memberships[[2]int64{workspaceID, userID}]
	if !ok {
		return nil, authz.ErrNoMembership
	}
	return &authz.Membership{WorkspaceID: workspaceID, UserID: userID, Role: role}, nil
}

type mockRepository struct {
	mu       sync.Mutex
	invoices map[int64]*Invoice
	nextID   int64

	deleteCalls int
	sendCalls   int
}

func newMockRepository() *mockRepository {
	return &mockRepository{invoices: make(map[int64]*Invoice), nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, inv *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = m.nextID
	m.nextID++
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, workspaceID, id int64) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok || inv.WorkspaceID != workspaceID {
		return nil, internal.ErrInvoiceNotFound
	}
	clone := *inv
	return &clone, nil
}

func (m *mockRepository) List(_ context.Context, workspaceID int64) ([]*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Invoice
	for _, inv := range m.invoices {
		if inv.WorkspaceID == workspaceID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, inv *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.invoices[inv.ID]
	if !ok || existing.WorkspaceID != inv.WorkspaceID {
		return internal.ErrInvoiceNotFound
	}
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockRepository) Delete(_ context.Context, workspaceID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	inv, ok := m.invoices[id]
	if !ok || inv.WorkspaceID != workspaceID {
		return internal.ErrInvoiceNotFound
	}
	delete(m.invoices, id)
	return nil
}

func (m *mockRepository) MarkSent(_ context.Context, workspaceID, id int64, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendCalls++
	inv, ok := m.invoices[id]
	if !ok || inv.WorkspaceID != workspaceID {
		return internal.ErrInvoiceNotFound
	}
	if inv.Status != StatusDraft {
		return ErrNotDraft
	}
	inv.Status = StatusSent
	inv.SentAt = &sentAt
	return nil
}

func (m *mockRepository) MarkPaid(_ context.Context, workspaceID, id int64, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok || inv.WorkspaceID != workspaceID {
		return internal.ErrInvoiceNotFound
	}
	if inv.Status != StatusSent {
		return ErrNotSent
	}
	inv.Status = StatusPaid
	inv.PaidAt = &paidAt
	return nil
}

var _ = ginkgo.Describe("Invoice Service", func() {
	var (
		repo    *mockRepository
		bus     *events.EventBus
		service *Service
		ctx     context.Context

		publishedMu sync.Mutex
		published   []events.Event
	)

	const (
		wsAlpha int64 = 10
		wsBeta  int64 = 20

		adminID      int64 = 1
		managerID    int64 = 2
		accountantID int64 = 3
	)

	sessionFor := func(userID, workspaceID int64, role authz.Role) *authz.Session {
		return &authz.Session{UserID: userID, WorkspaceID: workspaceID, Role: role}
	}

	publishedEvents := func() []events.Event {
		publishedMu.Lock()
		defer publishedMu.Unlock()
		return append([]events.Event(nil), published...)
	}

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		bus = events.NewEventBus(slog.Default())
		published = nil
		bus.Subscribe(events.EventInvoiceSent, func(_ context.Context, e events.Event) error {
			publishedMu.Lock()
			defer publishedMu.Unlock()
			published = append(published, e)
			return nil
		})

		store := &fakeMembershipStore{memberships: map[[2]int64]authz.Role{
			{wsAlpha, adminID}:      authz.RoleAdmin,
			{wsAlpha, managerID}:    authz.RoleProjectManager,
			{wsAlpha, accountantID}: authz.RoleAccountant,
			{wsBeta, adminID}:       authz.RoleAdmin,
		}}
		gate := authz.NewGate(authz.NewEvaluator(store), slog.Default())
		service = NewService(repo, gate, bus, slog.Default())
		ctx = context.Background()
	})

	draftInvoice := func(byUserID int64, role authz.Role) *Invoice {
		inv, err := service.CreateInvoice(ctx, sessionFor(byUserID, wsAlpha, role), CreateInvoiceDTO{
			Number:       "INV-2026-001",
			AmountCents:  125000,
			Currency:     "usd",
			CustomerName: "Globex",
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return inv
	}

	ginkgo.Describe("CreateInvoice", func() {
		ginkgo.It("lets an accountant create a draft", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)
			gomega.Expect(inv.Status).To(gomega.Equal(StatusDraft))
			gomega.Expect(inv.Currency).To(gomega.Equal("USD"))
		})

		ginkgo.It("lets a project manager create a draft", func() {
			inv := draftInvoice(managerID, authz.RoleProjectManager)
			gomega.Expect(inv.Status).To(gomega.Equal(StatusDraft))
		})

		ginkgo.It("rejects a non-positive amount", func() {
			_, err := service.CreateInvoice(ctx, sessionFor(accountantID, wsAlpha, authz.RoleAccountant), CreateInvoiceDTO{
				Number:       "INV-2026-002",
				AmountCents:  0,
				Currency:     "USD",
				CustomerName: "Globex",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("SendInvoice", func() {
		ginkgo.It("lets an accountant send a draft and publishes invoice.sent", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)

			err := service.SendInvoice(ctx, sessionFor(accountantID, wsAlpha, authz.RoleAccountant), inv.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			sent, err := repo.GetByID(ctx, wsAlpha, inv.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sent.Status).To(gomega.Equal(StatusSent))

			gomega.Eventually(publishedEvents).Should(gomega.HaveLen(1))
			gomega.Expect(publishedEvents()[0].EventType()).To(gomega.Equal(events.EventInvoiceSent))
		})

		ginkgo.It("denies sending to a project manager without touching storage", func() {
			inv := draftInvoice(managerID, authz.RoleProjectManager)

			err := service.SendInvoice(ctx, sessionFor(managerID, wsAlpha, authz.RoleProjectManager), inv.ID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrPermissionDenied))
			gomega.Expect(repo.sendCalls).To(gomega.BeZero())
			gomega.Consistently(publishedEvents).Should(gomega.BeEmpty())
		})

		ginkgo.It("refuses to send an already sent invoice", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)
			session := sessionFor(accountantID, wsAlpha, authz.RoleAccountant)

			gomega.Expect(service.SendInvoice(ctx, session, inv.ID)).To(gomega.Succeed())

			err := service.SendInvoice(ctx, session, inv.ID)
			gomega.Expect(err).To(gomega.Equal(ErrNotDraft))
			gomega.Eventually(publishedEvents).Should(gomega.HaveLen(1))
		})

		ginkgo.It("resolves an invoice from another workspace to NotFound", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)

			err := service.SendInvoice(ctx, sessionFor(adminID, wsBeta, authz.RoleAdmin), inv.ID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvoiceNotFound))
		})
	})

	ginkgo.Describe("DeleteInvoice", func() {
		ginkgo.It("denies deletion to an accountant", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)

			err := service.DeleteInvoice(ctx, sessionFor(accountantID, wsAlpha, authz.RoleAccountant), inv.ID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrPermissionDenied))
			gomega.Expect(repo.deleteCalls).To(gomega.BeZero())
		})

		ginkgo.It("allows deletion to an admin", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)

			err := service.DeleteInvoice(ctx, sessionFor(adminID, wsAlpha, authz.RoleAdmin), inv.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("MarkPaid", func() {
		ginkgo.It("records payment of a sent invoice", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)
			session := sessionFor(accountantID, wsAlpha, authz.RoleAccountant)

			gomega.Expect(service.SendInvoice(ctx, session, inv.ID)).To(gomega.Succeed())
			gomega.Expect(service.MarkPaid(ctx, session, inv.ID)).To(gomega.Succeed())

			paid, err := repo.GetByID(ctx, wsAlpha, inv.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(paid.Status).To(gomega.Equal(StatusPaid))
		})

		ginkgo.It("refuses to mark a draft paid", func() {
			inv := draftInvoice(accountantID, authz.RoleAccountant)

			err := service.MarkPaid(ctx, sessionFor(accountantID, wsAlpha, authz.RoleAccountant), inv.ID)
			gomega.Expect(err).To(gomega.Equal(ErrNotSent))
		})
	})
})
