package router

import (
	"net/http"
	"time"

	"shopping-ledger/internal/auth"
	"shopping-ledger/internal/handler"
	"shopping-ledger/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// Handlers bundles the per-resource handlers the router mounts.
type Handlers struct {
	Categories    *handler.ReferenceHandler
	Units         *handler.ReferenceHandler
	Manufacturers *handler.ReferenceHandler
	Origins       *handler.ReferenceHandler
	Stores        *handler.StoreHandler
	Products      *handler.ProductHandler
	Records       *handler.RecordHandler
	Auth          *handler.AuthHandler
}

// resourceHandler is the CRUD surface every collection handler exposes.
type resourceHandler interface {
	List(http.ResponseWriter, *http.Request)
	GetByID(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Patch(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// New creates the HTTP router with all routes and middleware configured.
func New(h Handlers, tokens *auth.Manager, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			// Credential endpoints are a brute-force target.
			ar.Use(httprate.LimitByIP(20, 1*time.Minute))
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.Refresh)
			ar.Post("/logout", h.Auth.Logout)
			ar.With(middleware.BearerAuth(tokens, logger)).Get("/me", h.Auth.Me)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.BearerAuth(tokens, logger))
			mountResource(protected, "/categories", h.Categories)
			mountResource(protected, "/units", h.Units)
			mountResource(protected, "/manufacturers", h.Manufacturers)
			mountResource(protected, "/origins", h.Origins)
			mountResource(protected, "/stores", h.Stores)
			mountResource(protected, "/products", h.Products)
			mountResource(protected, "/shopping-records", h.Records)
		})
	})

	return r
}

// mountResource registers the standard collection routes for one handler.
func mountResource(r chi.Router, path string, h resourceHandler) {
	r.Route(path, func(rr chi.Router) {
		rr.Get("/", h.List)
		rr.Post("/", h.Create)
		rr.Route("/{id}", func(ir chi.Router) {
			ir.Get("/", h.GetByID)
			ir.Put("/", h.Update)
			ir.Patch("/", h.Patch)
			ir.Delete("/", h.Delete)
		})
	})
}
