package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/auth"
	authPostgres "github.com/frahmantamala/workspace-management/internal/auth/postgres"
	"github.com/frahmantamala/workspace-management/internal/authz"
	"github.com/frahmantamala/workspace-management/internal/core/events"
	"github.com/frahmantamala/workspace-management/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/workspace-management/internal/inventory/postgres"
	"github.com/frahmantamala/workspace-management/internal/invoice"
	invoicePostgres "github.com/frahmantamala/workspace-management/internal/invoice/postgres"
	"github.com/frahmantamala/workspace-management/internal/project"
	projectPostgres "github.com/frahmantamala/workspace-management/internal/project/postgres"
	"github.com/frahmantamala/workspace-management/internal/transport"
	"github.com/frahmantamala/workspace-management/internal/transport/rest"
	"github.com/frahmantamala/workspace-management/internal/user"
	userPostgres "github.com/frahmantamala/workspace-management/internal/user/postgres"
	"github.com/frahmantamala/workspace-management/internal/workspace"
	workspacePostgres "github.com/frahmantamala/workspace-management/internal/workspace/postgres"
	"github.com/frahmantamala/workspace-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)
	bus := events.NewEventBus(lg)

	// Subscribe a delivery log for sent invoices; a mail integration would hang
	// off this same subscription.
	bus.Subscribe(events.EventInvoiceSent, func(ctx context.Context, e events.Event) error {
		lg.InfoContext(ctx, "invoice sent", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})

	workspaceRepo := workspacePostgres.NewRepository(deps.GormDB, lg)
	gate := authz.NewGate(authz.NewEvaluator(workspaceRepo), lg)

	authRepo := authPostgres.NewRepository(deps.GormDB)
	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
		deps.Config.Security.AccessTokenDuration,
		deps.Config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)
	userService := user.NewService(userPostgres.NewRepository(deps.GormDB, lg), deps.Config.Security.BCryptCost, lg)
	workspaceService := workspace.NewService(workspaceRepo, gate, lg)
	projectService := project.NewService(projectPostgres.NewRepository(deps.GormDB, lg), gate, lg)
	inventoryService := inventory.NewService(inventoryPostgres.NewRepository(deps.GormDB, lg), gate, lg)
	invoiceService := invoice.NewService(invoicePostgres.NewRepository(deps.GormDB, lg), gate, bus, lg)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(base, userService),
		Workspace: workspace.NewHandler(base, workspaceService),
		Project:   project.NewHandler(base, projectService),
		Inventory: inventory.NewHandler(base, inventoryService),
		Invoice:   invoice.NewHandler(base, invoiceService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, workspaceRepo, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx stdlib connection shared by sqlx (health checks) and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
