package cmd

import (
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/workspace-management/internal/authz"
	"github.com/frahmantamala/workspace-management/internal/invoice"
	"github.com/frahmantamala/workspace-management/internal/project"
	"github.com/frahmantamala/workspace-management/internal/user"
	"github.com/frahmantamala/workspace-management/internal/workspace"
	"github.com/frahmantamala/workspace-management/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed development data",
	Long:  `Insert a demo workspace with one user per role, a project and a draft invoice`,
	Run: func(cmd *cobra.Command, args []string) {
		runSeed()
	},
}

func runSeed() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	db, err := sqlx.Connect("pgx", config.Database.Source)
	if err != nil {
		lg.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		lg.Error("failed to initialize orm", "error", err)
		os.Exit(1)
	}

	if clearData {
		for _, table := range []string{"inventory_allocations", "inventory_items", "invoices", "projects", "memberships", "workspaces", "users"} {
			if err := gormDB.Exec("DELETE FROM " + table).Error; err != nil {
				lg.Error("failed to clear table", "table", table, "error", err)
				os.Exit(1)
			}
		}
		lg.Info("existing data cleared")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), config.Security.BCryptCost)
	if err != nil {
		lg.Error("failed to hash seed password", "error", err)
		os.Exit(1)
	}

	seedUsers := map[authz.Role]*user.User{
		authz.RoleAdmin:          {Email: "admin@example.com", Name: "Demo Admin", PasswordHash: string(hash), IsActive: true},
		authz.RoleProjectManager: {Email: "pm@example.com", Name: "Demo Project Manager", PasswordHash: string(hash), IsActive: true},
		authz.RoleAccountant:     {Email: "accountant@example.com", Name: "Demo Accountant", PasswordHash: string(hash), IsActive: true},
		authz.RoleMember:         {Email: "member@example.com", Name: "Demo Member", PasswordHash: string(hash), IsActive: true},
	}

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		for _, u := range seedUsers {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		ws := &workspace.Workspace{
			Name:     "Demo Workspace",
			Slug:     "demo",
			Currency: "USD",
			OwnerID:  seedUsers[authz.RoleAdmin].ID,
		}
		if err := tx.Create(ws).Error; err != nil {
			return err
		}

		for role, u := range seedUsers {
			m := &workspace.Membership{WorkspaceID: ws.ID, UserID: u.ID, Role: role}
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}

		p := &project.Project{
			WorkspaceID: ws.ID,
			Name:        "Demo Project",
			Status:      project.StatusActive,
			BudgetCents: 5_000_000,
			CreatedBy:   seedUsers[authz.RoleProjectManager].ID,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		due := time.Now().AddDate(0, 0, 14)
		inv := &invoice.Invoice{
			WorkspaceID:  ws.ID,
			ProjectID:    &p.ID,
			Number:       "INV-0001",
			Status:       invoice.StatusDraft,
			AmountCents:  250_000,
			Currency:     "USD",
			CustomerName: "Demo Customer",
			DueAt:        &due,
			CreatedBy:    seedUsers[authz.RoleAccountant].ID,
		}
		return tx.Create(inv).Error
	})
	if err != nil {
		lg.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	lg.Info("seed data created", "workspace", "demo", "users", len(seedUsers))
}
