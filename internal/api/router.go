// Package api assembles the HTTP routes.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/api/handlers"
	"github.com/pysugar/account-tabs/internal/api/middleware"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/importer"
	"go.uber.org/zap"
)

// Deps are the services the routes call into.
type Deps struct {
	Accounts       *account.Service
	Importer       *importer.Importer
	Label          func(models.Group) string
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// NewRouter returns the full route tree.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = importer.MaxSourceBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/", handlers.DashboardHandler())
	r.Get("/health", handlers.HealthHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/accounts", handlers.AccountsHandler(d.Accounts))
		r.Get("/accounts/search", handlers.SearchHandler(d.Accounts))
		r.Post("/accounts", handlers.CreateAccountHandler(d.Accounts))
		r.Put("/accounts", handlers.UpdateAccountHandler(d.Accounts))
		r.Delete("/accounts", handlers.DeleteAccountHandler(d.Accounts))
		r.Delete("/accounts/all", handlers.ClearAccountsHandler(d.Accounts))

		r.Post("/upload", handlers.UploadHandler(d.Importer, d.MaxUploadBytes))
		r.Post("/import/url", handlers.ImportURLHandler(d.Importer))

		r.Get("/stats", handlers.StatsHandler(d.Accounts))
		r.Get("/tabs", handlers.TabsHandler(d.Accounts, d.Label))
		r.Get("/version", handlers.VersionHandler())
	})

	return r
}
