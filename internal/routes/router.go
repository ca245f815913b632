package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"metacircle/metasync/internal/api"
	"metacircle/metasync/internal/config"
	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/middleware"
	"metacircle/metasync/internal/realtime"
)

// RegisterRoutes assembles the chi router around an already-wired
// dependency container. The store and hub are constructed in main (or a
// test harness) and injected; nothing here owns state.
func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, hub *realtime.Hub, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(middleware.Authenticate(cfg.JWTSecret))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.Get("/healthz", api.HealthCheckHandler(deps.Store, upSince))

	// realtime channel
	r.Get("/ws", hub.ServeWS())

	handlers := api.NewHandlers(deps)
	RegisterAPIRoutes(r, handlers)

	return r
}

// RegisterAPIRoutes registers all /api routes and handlers. This keeps
// API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {
	r.Route("/api", func(root chi.Router) {
		root.Get("/auth/me", handlers.Me())
		root.Post("/auth/login", handlers.Login())

		root.Route("/communities", func(c chi.Router) {
			c.Get("/{slug}", handlers.GetCommunityBySlug())
			c.Get("/{id}/spaces", handlers.ListCommunitySpaces())
			c.Get("/{id}/stats", handlers.GetCommunityStats())
			c.Get("/{id}/posts", handlers.ListRecentPosts())
			c.Get("/{id}/events", handlers.ListUpcomingEvents())
			c.Get("/{id}/members/top", handlers.ListTopMembers())
		})

		root.Route("/posts", func(p chi.Router) {
			p.Post("/", handlers.CreatePost())
			p.Post("/{id}/like", handlers.LikePost())
		})

		root.Route("/events", func(e chi.Router) {
			e.Post("/", handlers.CreateEvent())
			e.Post("/{id}/join", handlers.JoinEvent())
			e.Post("/{id}/leave", handlers.LeaveEvent())
		})

		root.Route("/members", func(m chi.Router) {
			m.Put("/{userId}/points", handlers.UpdateMemberPoints())
			m.Get("/{userId}/points", handlers.GetMemberPoints())
		})

		root.Route("/companies", func(co chi.Router) {
			co.Get("/{slug}", handlers.GetCompanyBySlug())

			// Tenant management is the one admin-gated surface.
			co.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireAdmin())
				admin.Post("/", handlers.CreateCompany())
			})
		})
	})
}
