package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/timster/go-api/internal/auth"
	"github.com/timster/go-api/internal/config"
	"github.com/timster/go-api/internal/httputil"
	"github.com/timster/go-api/internal/logging"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h *Handler, authMW *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(Recover)
	r.Use(middleware.Compress(5))
	r.Use(authMW.Authenticate) // binds an identity when credentials are valid

	// Transport-level errors use the generic envelope
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondHTTPError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondHTTPError(w, http.StatusMethodNotAllowed)
	})

	r.Get("/health", Health)

	// Public routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.CreateUser)

		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Get("/profile", h.GetProfile)
			r.Post("/profile", h.UpdateProfile)
			r.Delete("/profile", h.DeleteProfile)
		})
	})

	// Admin routes (require authentication and the admin flag)
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMW.RequireAdmin)
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.AdminCreateUser)
		r.Get("/users/{id}", h.AdminGetUser)
		r.Post("/users/{id}", h.AdminUpdateUser)
		r.Delete("/users/{id}", h.AdminDeleteUser)
	})

	return r
}
