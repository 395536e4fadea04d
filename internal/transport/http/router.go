// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dietcal/internal/audit"
	"dietcal/internal/meal"
	"dietcal/internal/session"
	"dietcal/internal/settings"
)

// Deps carries everything the router wires together.
type Deps struct {
	Issuer   *session.Issuer
	Verifier *session.Verifier
	Guard    *session.Guard
	Carrier  session.Carrier
	Revoker  SessionRevoker
	Meals    *meal.Service
	Settings settings.Store
	Audit    *audit.Publisher
	Logger   *slog.Logger
}

// NewRouter wires all endpoints. The page group runs under the route guard;
// the API group under full session verification; auth endpoints and
// operational endpoints stand alone.
func NewRouter(d Deps) http.Handler {
	authH := newAuthHandler(d)
	mealH := newMealHandler(d)
	settingsH := newSettingsHandler(d)
	pages := newPageHandler(d)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages. The guard decides allow/redirect before any handler runs.
	r.Group(func(pg chi.Router) {
		pg.Use(d.Guard.Middleware)
		pg.Get("/", pages.handleRoot)
		pg.Get("/login", pages.handleLogin)
		pg.Get("/dashboard", pages.handleDashboard)
		pg.Get("/upload-meal", pages.handleUploadMeal)
		pg.Get("/progress", pages.handleProgress)
	})

	// Session lifecycle endpoints: reachable without a session.
	r.Post("/api/sessionLogin", authH.handleSessionLogin)
	r.Get("/api/auth/session", authH.handleProbe)
	r.Post("/api/logout", authH.handleLogout)

	// The domain API requires a verified session.
	r.Group(func(api chi.Router) {
		api.Use(session.RequireSession(d.Verifier, d.Logger))
		api.Get("/api/meals", mealH.handleList)
		api.Post("/api/meals", mealH.handleSave)
		api.Delete("/api/meals/{id}", mealH.handleDelete)
		api.Post("/api/meals/analyze", mealH.handleAnalyze)
		api.Get("/api/labels", mealH.handleLabels)
		api.Post("/api/labels", mealH.handleMergeLabels)
		api.Get("/api/settings", settingsH.handleGet)
		api.Put("/api/settings", settingsH.handleUpdate)
	})

	return r
}
