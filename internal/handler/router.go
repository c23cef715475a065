package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"tourzen-api/internal/container"
	"tourzen-api/internal/metrics"
	"tourzen-api/internal/middleware"
	"tourzen-api/pkg/errors"
)

// NewRouter configures the HTTP routes for the API
func NewRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	auth := middleware.Auth(c.Services.Tokens, log)

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog(log, c.Metrics))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(corsConfig, log))
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	healthHandler := NewHealthHandler(c)
	authHandler := NewAuthHandler(c)
	bookingHandler := NewBookingHandler(c)
	packageHandler := NewPackageHandler(c)

	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(c.Registry))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/firebase-login", authHandler.FirebaseLogin)
			r.With(auth).Get("/me", authHandler.Me)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(auth)
			r.With(c.RateLimiter.Middleware).Post("/", bookingHandler.Create)
			r.Get("/my-bookings", bookingHandler.Mine)
			r.Get("/{id}", bookingHandler.Get)
			r.Patch("/{id}/status", bookingHandler.UpdateStatus)
		})

		r.Route("/packages", func(r chi.Router) {
			r.Get("/", packageHandler.List)
			r.Get("/featured", packageHandler.Featured)
			r.Get("/gallery", packageHandler.Gallery)
			r.Get("/{id}", packageHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", packageHandler.Create)
				r.Get("/my-packages", packageHandler.Mine)
				r.Put("/{id}", packageHandler.Update)
				r.Delete("/{id}", packageHandler.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, errors.NewNotFoundError("Endpoint not found"))
	})

	log.Info("Router configured successfully")
	return r
}
