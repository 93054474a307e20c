package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/auth"
	"github.com/frahmantamala/smart-budget/internal/category"
	categoryPostgres "github.com/frahmantamala/smart-budget/internal/category/postgres"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/summary"
	summaryPostgres "github.com/frahmantamala/smart-budget/internal/summary/postgres"
	"github.com/frahmantamala/smart-budget/internal/transaction"
	transactionPostgres "github.com/frahmantamala/smart-budget/internal/transaction/postgres"
	"github.com/frahmantamala/smart-budget/internal/transport/rest"
	"github.com/frahmantamala/smart-budget/internal/user"
	userPostgres "github.com/frahmantamala/smart-budget/internal/user/postgres"
	"github.com/frahmantamala/smart-budget/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Store    *database.Store
	Router   *chi.Mux
	Logger   *slog.Logger
	Services *Services
}

// Services are the domain services shared by the server and the seeder.
type Services struct {
	Users        *user.Service
	Categories   *category.Service
	Transactions *transaction.Service
	Summaries    *summary.Service
	Auth         *auth.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "auth_enabled", deps.Config.Security.AuthEnabled)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.Store.Close()
			os.Exit(1)
		}
	}

	if err := deps.Store.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	var doc *rest.APIDocument
	if path := deps.Config.Server.OpenAPIPath; path != "" {
		loaded, err := rest.LoadAPIDocument(context.Background(), path)
		if err != nil {
			return err
		}
		doc = loaded
	}

	lg := deps.Logger
	svc := deps.Services
	rest.RegisterAllRoutes(deps.Router, deps.Store.SQL, rest.Handlers{
		Auth:        auth.NewHandler(svc.Auth, lg),
		User:        user.NewHandler(svc.Users, lg),
		Category:    category.NewHandler(svc.Categories, lg),
		Transaction: transaction.NewHandler(svc.Transactions, lg),
		Summary:     summary.NewHandler(svc.Summaries, lg),
	}, rest.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AuthEnabled:    deps.Config.Security.AuthEnabled,
		HealthName:     deps.Config.Database.Driver,
		Document:       doc,
	}, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)

	store, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config:   config,
		Store:    store,
		Router:   chi.NewRouter(),
		Logger:   lg,
		Services: newServices(store, config.Security, lg),
	}, nil
}

func newServices(store *database.Store, sec internal.SecurityConfig, lg *slog.Logger) *Services {
	tx := database.NewTransactor(store.Gorm)

	users := user.NewService(userPostgres.NewUserRepository(store.Gorm), tx, sec.BCryptCost, lg)
	categories := category.NewService(categoryPostgres.NewCategoryRepository(store.Gorm), users, tx, lg)
	transactions := transaction.NewService(transactionPostgres.NewTransactionRepository(store.Gorm), users, categories, tx, lg)
	summaries := summary.NewService(summaryPostgres.NewSummaryRepository(store.SQL), lg)

	tokenTTL := sec.AccessTokenDuration
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	authService := auth.NewService(users, auth.NewJWTTokenGenerator(sec.JWTSecret, tokenTTL), lg)

	return &Services{
		Users:        users,
		Categories:   categories,
		Transactions: transactions,
		Summaries:    summaries,
		Auth:         authService,
	}
}
