package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/authcore/backend/internal/setup"
	mw "github.com/itchan-dev/authcore/shared/middleware"
	"github.com/itchan-dev/authcore/shared/middleware/metrics"
)

// New creates the chi router with every route of the service.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// setup CORS for browser clients
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Public.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureHeaders))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	authRoutes := func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(deps.AuthMiddleware.NeedAuth()).Post("/logout", h.Logout)
	}
	r.Group(authRoutes)
	r.Route("/api", authRoutes)

	return r
}
