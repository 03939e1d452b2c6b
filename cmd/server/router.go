package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/taskflow-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskflow-api/internal/api/middleware"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/ratelimit"
)

// setupRouter builds the chi router with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Instrument)
	if app.config.Server.Environment == "development" {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.Server.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := api.NewAuthHandler(app.userService, api.CookieOptions{
		Secure:   app.config.Auth.CookieSecure,
		Lifetime: app.config.Auth.TokenLifetime(),
	}, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userService)

	r.Get("/", api.Root)
	r.Get("/health", api.Health)
	r.Handle("/metrics", app.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(app.throttle)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})
			r.Get("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", authHandler.Me)
				r.Get("/", authHandler.ListUsers)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/assigned", taskHandler.ListAssignedTasks)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
				r.Put("/priority", taskHandler.UpdatePriority)
				r.Put("/status", taskHandler.UpdateStatus)
				r.Put("/assign", taskHandler.AssignTask)
			})
		})
	})

	return r
}

// throttle applies the rate limiter when one is configured.
func (app *application) throttle(next http.Handler) http.Handler {
	if app.limiter == nil {
		return next
	}
	return app.limiter.Middleware(app.denyThrottled)(next)
}

func (app *application) denyThrottled(w http.ResponseWriter, r *http.Request, _ ratelimit.Decision) {
	app.metrics.RateLimitHit(r)
	shared.RespondWithError(w, r, http.StatusTooManyRequests, api.MsgTooManyRequest)
}
