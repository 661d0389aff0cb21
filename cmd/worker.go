package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/workspace-management/internal/core/events"
	"github.com/frahmantamala/workspace-management/internal/invoice"
	invoicePostgres "github.com/frahmantamala/workspace-management/internal/invoice/postgres"
	"github.com/frahmantamala/workspace-management/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers such as the invoice reminder scanner`,
}

var reminderWorkerCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Start the invoice reminder scanner",
	Long:  `Periodically scans each workspace for sent invoices near their due date and publishes reminder events`,
	Run: func(cmd *cobra.Command, args []string) {
		startReminderWorker()
	},
}

func init() {
	workerCmd.AddCommand(reminderWorkerCmd)
}

func startReminderWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
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

	bus := events.NewEventBus(lg)
	bus.Subscribe(events.EventInvoiceReminder, func(ctx context.Context, e events.Event) error {
		lg.InfoContext(ctx, "invoice reminder", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})

	repo := invoicePostgres.NewRepository(gormDB, lg)
	scanner := invoice.NewReminderScanner(repo, bus, lg,
		config.Reminder.Interval,
		config.Reminder.DueWithin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		lg.Info("received signal, stopping worker", "signal", sig.String())
		cancel()
	}()

	scanner.Run(ctx)
}
