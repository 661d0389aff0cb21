package postgres_test

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/workspace-management/internal/inventory/postgres"
	"github.com/frahmantamala/workspace-management/internal/project"
)

func TestInventoryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Postgres Suite")
}

var _ = Describe("Inventory PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *inventoryPostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&inventory.Item{}, &inventory.Allocation{}, &project.Project{})).To(Succeed())

		repo = inventoryPostgres.NewRepository(db, slog.Default())
		ctx = context.Background()
	})

	stock := func(workspaceID, qty int64) *inventory.Item {
		item := &inventory.Item{WorkspaceID: workspaceID, Name: "Steel beams", SKU: "SB-100", QuantityAvailable: qty, CreatedBy: 1}
		Expect(repo.Create(ctx, item)).To(Succeed())
		return item
	}

	site := func(workspaceID int64) *project.Project {
		p := &project.Project{WorkspaceID: workspaceID, Name: "Harbor build", Status: project.StatusActive, CreatedBy: 1}
		Expect(db.Create(p).Error).NotTo(HaveOccurred())
		return p
	}

	Describe("Allocate", func() {
		It("decrements stock and writes the allocation atomically", func() {
			item := stock(1, 50)
			proj := site(1)

			a := &inventory.Allocation{WorkspaceID: 1, ItemID: item.ID, ProjectID: proj.ID, Quantity: 20, AllocatedBy: 1}
			Expect(repo.Allocate(ctx, a)).To(Succeed())
			Expect(a.ID).To(BeNumerically(">", 0))

			reloaded, err := repo.GetByID(ctx, 1, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.QuantityAvailable).To(Equal(int64(30)))

			allocations, err := repo.ListAllocations(ctx, 1, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(allocations).To(HaveLen(1))
		})

		It("leaves stock untouched when the request exceeds availability", func() {
			item := stock(1, 10)
			proj := site(1)

			a := &inventory.Allocation{WorkspaceID: 1, ItemID: item.ID, ProjectID: proj.ID, Quantity: 11, AllocatedBy: 1}
			Expect(repo.Allocate(ctx, a)).To(Equal(inventory.ErrInsufficientStock))

			reloaded, err := repo.GetByID(ctx, 1, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.QuantityAvailable).To(Equal(int64(10)))

			allocations, err := repo.ListAllocations(ctx, 1, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(allocations).To(BeEmpty())
		})

		It("drains stock to exactly zero", func() {
			item := stock(1, 10)
			proj := site(1)

			a := &inventory.Allocation{WorkspaceID: 1, ItemID: item.ID, ProjectID: proj.ID, Quantity: 10, AllocatedBy: 1}
			Expect(repo.Allocate(ctx, a)).To(Succeed())

			reloaded, err := repo.GetByID(ctx, 1, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.QuantityAvailable).To(BeZero())
		})

		It("treats an item from another workspace as not found", func() {
			item := stock(1, 50)
			proj := site(2)

			a := &inventory.Allocation{WorkspaceID: 2, ItemID: item.ID, ProjectID: proj.ID, Quantity: 5, AllocatedBy: 1}
			Expect(repo.Allocate(ctx, a)).To(Equal(internal.ErrItemNotFound))

			reloaded, err := repo.GetByID(ctx, 1, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.QuantityAvailable).To(Equal(int64(50)))
		})

		It("treats a project from another workspace as not found", func() {
			item := stock(2, 50)
			foreign := site(1)

			a := &inventory.Allocation{WorkspaceID: 2, ItemID: item.ID, ProjectID: foreign.ID, Quantity: 5, AllocatedBy: 1}
			Expect(repo.Allocate(ctx, a)).To(Equal(internal.ErrProjectNotFound))

			reloaded, err := repo.GetByID(ctx, 2, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.QuantityAvailable).To(Equal(int64(50)))

			allocations, err := repo.ListAllocations(ctx, 2, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(allocations).To(BeEmpty())
		})

		It("reports a missing project before touching stock", func() {
			item := stock(1, 50)

			a := &inventory.Allocation{WorkspaceID: 1, ItemID: item.ID, ProjectID: 999, Quantity: 5, AllocatedBy: 1}
			Expect(repo.Allocate(ctx, a)).To(Equal(internal.ErrProjectNotFound))

			reloaded, err := repo.GetByID(ctx, 1, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.QuantityAvailable).To(Equal(int64(50)))
		})
	})

	Describe("scoping", func() {
		It("collapses cross-workspace reads to not found", func() {
			item := stock(1, 50)

			_, err := repo.GetByID(ctx, 2, item.ID)
			Expect(err).To(Equal(internal.ErrItemNotFound))
		})

		It("refuses cross-workspace deletes", func() {
			item := stock(1, 50)

			Expect(repo.Delete(ctx, 2, item.ID)).To(Equal(internal.ErrItemNotFound))
			Expect(repo.Delete(ctx, 1, item.ID)).To(Succeed())
		})
	})
})
