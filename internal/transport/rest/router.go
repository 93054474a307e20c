package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/smart-budget/internal/auth"
	"github.com/frahmantamala/smart-budget/internal/category"
	"github.com/frahmantamala/smart-budget/internal/summary"
	"github.com/frahmantamala/smart-budget/internal/transaction"
	"github.com/frahmantamala/smart-budget/internal/transport/middleware"
	"github.com/frahmantamala/smart-budget/internal/transport/swagger"
	"github.com/frahmantamala/smart-budget/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

// APIPrefix is the base path every JSON endpoint lives under.
const APIPrefix = "/api/v1"

type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Category    *category.Handler
	Transaction *transaction.Handler
	Summary     *summary.Handler
}

type Options struct {
	AllowedOrigins string
	// AuthEnabled puts users/{id}, categories and transactions behind the bearer token check.
	AuthEnabled bool
	HealthName  string
	Document    *APIDocument
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, opts.HealthName)

	// Apply global middleware
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Docs live outside the API prefix
	if opts.Document != nil {
		router.Method(http.MethodGet, "/openapi.yml", opts.Document)
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Post("/auth/login", h.Auth.Login)
		}
		if h.User != nil {
			r.Post("/users", h.User.Register)
		}

		r.Group(func(pr chi.Router) {
			if opts.AuthEnabled && h.Auth != nil {
				pr.Use(h.Auth.AuthMiddleware)
			}

			if h.User != nil {
				pr.Get("/users/{id}", h.User.GetUser)
				pr.Delete("/users/{id}", h.User.DeleteUser)
			}

			if h.Category != nil {
				pr.Route("/categories", func(cr chi.Router) {
					cr.Post("/", h.Category.CreateCategory)
					cr.Get("/", h.Category.GetCategories)
					cr.Get("/{id}", h.Category.GetCategory)
					cr.Put("/{id}", h.Category.UpdateCategory)
					cr.Delete("/{id}", h.Category.DeleteCategory)
				})
			}

			pr.Route("/transactions", func(tr chi.Router) {
				if h.Transaction != nil {
					tr.Post("/", h.Transaction.CreateTransaction)
					tr.Get("/", h.Transaction.GetTransactions)
					tr.Get("/range", h.Transaction.GetTransactionsInRange)
				}
				if h.Summary != nil {
					tr.Get("/summary", h.Summary.GetSummary)
				}
				if h.Transaction != nil {
					tr.Get("/{id}", h.Transaction.GetTransaction)
					tr.Put("/{id}", h.Transaction.UpdateTransaction)
					tr.Delete("/{id}", h.Transaction.DeleteTransaction)
				}
			})
		})
	})
}
