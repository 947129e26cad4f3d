package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/armaan/kanban-be/internal/api/handlers"
	"github.com/armaan/kanban-be/internal/auth"
	"github.com/armaan/kanban-be/internal/services"
	"github.com/armaan/kanban-be/internal/store"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(authService services.AuthServiceProvider, codec *auth.TokenCodec, users store.UserStore) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// The authentication gate runs once per request; auth endpoints are
	// exempt, and everything else proceeds authenticated or anonymous.
	r.Use(auth.Middleware(codec, users, "/api/v1/auth/"))

	authHandler := handlers.NewAuthHandler(authService)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/profile", authHandler.Profile)
			r.Get("/dashboard", authHandler.Dashboard)
		})
	})

	return r
}
