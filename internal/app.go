// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "tutor-ledger/internal/api"
	"tutor-ledger/internal/api/handler"
	"tutor-ledger/internal/config"
	"tutor-ledger/internal/provider"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/repository/postgres"
	"tutor-ledger/internal/service"
	"tutor-ledger/internal/util"
	"tutor-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
// Everything is constructed once at startup and passed in explicitly;
// there is no ambient global state below this struct.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Runner *db.TxRunner

	// Repositories
	WalletRepository      repository.WalletRepository
	TransactionRepository repository.TransactionRepository
	PaymentRepository     repository.PaymentRepository
	ConfigRepository      repository.ConfigRepository

	// Services
	LedgerService  service.LedgerService
	RewardService  service.RewardService
	PaymentService service.PaymentService
	ConfigService  service.ConfigService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and bootstrap the schema
	database, err := db.NewPostgresDB(cfg.DBConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.Bootstrap(ctx, database, app.Logger); err != nil {
		return fmt.Errorf("failed to bootstrap database schema: %w", err)
	}

	// 4. Transaction runner with the transient-retry policy
	app.Runner = db.NewTxRunner(database, app.Logger)

	// 5. Initialize Repositories
	app.WalletRepository = postgres.NewWalletRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.PaymentRepository = postgres.NewPaymentRepository()
	app.ConfigRepository = postgres.NewConfigRepository()
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	app.LedgerService = service.NewLedgerService(
		app.DB,
		app.Runner,
		app.WalletRepository,
		app.TransactionRepository,
		app.ConfigRepository,
		app.Logger,
	)
	app.RewardService = service.NewRewardService(
		app.DB,
		app.ConfigRepository,
		app.LedgerService,
		app.Logger,
	)
	paymentProvider := provider.NewMockProvider(cfg.PaymentProvider, cfg.PaymentBaseURL)
	app.PaymentService = service.NewPaymentService(
		app.DB,
		app.Runner,
		app.PaymentRepository,
		app.LedgerService,
		paymentProvider,
		cfg.PaymentExpiry,
		app.Logger,
	)
	app.ConfigService = service.NewConfigService(
		app.DB,
		app.Runner,
		app.ConfigRepository,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	walletHandler := handler.NewWalletHandler(app.LedgerService, app.Logger)
	paymentHandler := handler.NewPaymentHandler(app.PaymentService, app.Logger)
	rewardHandler := handler.NewRewardHandler(app.RewardService, app.Logger)
	configHandler := handler.NewConfigHandler(app.ConfigService, app.Logger)
	app.HTTPHandler = router.NewRouter(walletHandler, paymentHandler, rewardHandler, configHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
