package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// RouterConfig bundles the controllers and cross-cutting pieces the router needs.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	JobToken       string
	AllowedOrigins []string

	Users         *controllers.UserController
	Events        *controllers.EventController
	Subscriptions *controllers.SubscriptionController
	Jobs          *controllers.JobController

	// PushHandler upgrades GET /ws to a websocket. It is mounted outside the
	// logging wrapper because the upgrade needs the raw http.Hijacker.
	PushHandler http.Handler
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	optionalAuth := middleware.OptionalAuth(cfg.Verifier, cfg.Logger)
	requireJob := middleware.RequireJobToken(cfg.JobToken)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	apiLimiter := middleware.NewRateLimiter(100, time.Minute)

	// Users
	mux.HandleFunc("POST /users/sign-up", authLimiter.Middleware(cfg.Users.SignUp))
	mux.HandleFunc("POST /users/sign-in", authLimiter.Middleware(cfg.Users.SignIn))
	mux.HandleFunc("POST /users/sign-out", requireAuth(cfg.Users.SignOut))

	// Events
	mux.HandleFunc("POST /events", apiLimiter.Middleware(requireAuth(cfg.Events.Create)))
	mux.HandleFunc("GET /events", apiLimiter.Middleware(optionalAuth(cfg.Events.List)))
	mux.HandleFunc("GET /events/{eventID}", apiLimiter.Middleware(cfg.Events.GetByID))
	mux.HandleFunc("PUT /events/{eventID}", apiLimiter.Middleware(requireAuth(cfg.Events.Update)))
	mux.HandleFunc("DELETE /events/{eventID}", apiLimiter.Middleware(requireAuth(cfg.Events.Delete)))

	// Subscriptions
	mux.HandleFunc("POST /events/{eventID}/subscribe", apiLimiter.Middleware(requireAuth(cfg.Subscriptions.Subscribe)))

	// Jobs (called by the external scheduler)
	mux.HandleFunc("POST /jobs/remind", requireJob(cfg.Jobs.Remind))
	mux.HandleFunc("POST /jobs/remind-all", requireJob(cfg.Jobs.RemindAll))
	mux.HandleFunc("POST /jobs/ping", requireJob(cfg.Jobs.Ping))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	outer := http.NewServeMux()
	outer.Handle("GET /ws", cfg.PushHandler)
	outer.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	outer.Handle("/", middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(cfg.Logger, mux)))

	return outer
}
