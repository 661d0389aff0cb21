package invoice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/workspace-management/internal/core/events"
)

type fakeReminderRepo struct {
	workspaceIDs []int64
	due          map[int64][]*Invoice

	queriedWorkspaces []int64
}

func (f *fakeReminderRepo) WorkspaceIDsWithOpenInvoices(_ context.Context) ([]int64, error) {
	return f.workspaceIDs, nil
}

func (f *fakeReminderRepo) DueWithin(_ context.Context, workspaceID int64, _ time.Time) ([]*Invoice, error) {
	f.queriedWorkspaces = append(f.queriedWorkspaces, workspaceID)
	return f.due[workspaceID], nil
}

var _ = ginkgo.Describe("Reminder Scanner", func() {
	var (
		repo *fakeReminderRepo
		bus  *events.EventBus

		remindersMu sync.Mutex
		reminders   []events.Event
	)

	recorded := func() []events.Event {
		remindersMu.Lock()
		defer remindersMu.Unlock()
		return append([]events.Event(nil), reminders...)
	}

	ginkgo.BeforeEach(func() {
		bus = events.NewEventBus(slog.Default())
		reminders = nil
		bus.Subscribe(events.EventInvoiceReminder, func(_ context.Context, e events.Event) error {
			remindersMu.Lock()
			defer remindersMu.Unlock()
			reminders = append(reminders, e)
			return nil
		})

		due := time.Now().Add(12 * time.Hour)
		repo = &fakeReminderRepo{
			workspaceIDs: []int64{10, 20},
			due: map[int64][]*Invoice{
				10: {{ID: 1, WorkspaceID: 10, Number: "INV-A", Status: StatusSent, DueAt: &due}},
				20: {
					{ID: 2, WorkspaceID: 20, Number: "INV-B", Status: StatusSent, DueAt: &due},
					{ID: 3, WorkspaceID: 20, Number: "INV-C", Status: StatusSent, DueAt: &due},
				},
			},
		}
	})

	ginkgo.It("publishes one reminder per due invoice", func() {
		scanner := NewReminderScanner(repo, bus, slog.Default(), time.Minute, 24*time.Hour)

		err := scanner.ScanOnce(context.Background())
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Eventually(recorded).Should(gomega.HaveLen(3))
	})

	ginkgo.It("queries each workspace separately rather than scanning globally", func() {
		scanner := NewReminderScanner(repo, bus, slog.Default(), time.Minute, 24*time.Hour)

		err := scanner.ScanOnce(context.Background())
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(repo.queriedWorkspaces).To(gomega.Equal([]int64{10, 20}))
	})

	ginkgo.It("stops when the context is cancelled", func() {
		scanner := NewReminderScanner(repo, bus, slog.Default(), 10*time.Millisecond, 24*time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			scanner.Run(ctx)
			close(done)
		}()

		cancel()
		gomega.Eventually(done).Should(gomega.BeClosed())
	})
})
