package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rewear-app/rewear-api/internal/api"
	apiMiddleware "github.com/rewear-app/rewear-api/internal/api/middleware"
	"github.com/rewear-app/rewear-api/internal/ratelimit"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	allowedOrigins := app.config.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	itemHandler := api.NewItemHandler(app.itemService, app.logger)
	swapHandler := api.NewSwapHandler(app.swapService, app.logger)
	adminHandler := api.NewAdminHandler(app.itemService, app.statsService, app.logger)
	uploadHandler := api.NewUploadHandler(app.files, app.config.Upload.MaxBytes, app.logger)
	healthHandler := api.NewHealthHandler(app.db)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public). Login gets a per-IP rate limit
		// to slow down credential stuffing.
		r.Post("/auth/register", authHandler.Register)
		r.Group(func(r chi.Router) {
			if perMinute := app.config.Server.LoginRatePerMinute; perMinute > 0 {
				limiter := ratelimit.New(float64(perMinute)/60.0, perMinute)
				r.Use(apiMiddleware.NewRateLimitMiddleware(limiter).Limit)
			}
			r.Post("/auth/login", authHandler.Login)
		})

		// Public catalog: only approved, available listings are visible.
		r.Get("/items", itemHandler.ListItems)
		r.Get("/items/{id}", itemHandler.GetItem)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/user/profile", userHandler.GetProfile)
			r.Put("/user/profile", userHandler.UpdateProfile)

			r.Post("/items", itemHandler.CreateItem)
			r.Put("/items/{id}", itemHandler.UpdateItem)
			r.Delete("/items/{id}", itemHandler.DeleteItem)

			r.Post("/uploads", uploadHandler.Upload)

			r.Get("/swaps", swapHandler.ListSwaps)
			r.Post("/swaps", swapHandler.ProposeSwap)
			r.Put("/swaps/{id}", swapHandler.DecideSwap)

			// Admin endpoints
			r.Route("/admin", func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)

				r.Get("/items", adminHandler.ListPendingItems)
				r.Put("/items/{id}/approve", adminHandler.ApproveItem)
				r.Delete("/items/{id}", adminHandler.DeleteItem)
				r.Get("/stats", adminHandler.GetStats)
			})
		})

		r.Get("/health", healthHandler.Health)
	})

	// Uploaded images are served straight from the file store directory.
	uploadsDir := http.Dir(app.files.Dir())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsDir)))

	return r
}
