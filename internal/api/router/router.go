package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/careercompass/backend/internal/api/handlers"
	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/metrics"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	OAuth      *handlers.OAuthHandler
	Profile    *handlers.ProfileHandler
	Assessment *handlers.AssessmentHandler
	Guidance   *handlers.GuidanceHandler
	Chat       *handlers.ChatHandler
	Billing    *handlers.BillingHandler
	Webhook    *handlers.WebhookHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(middleware.ResolveSession(cfg.Auth.SessionSecret))
	r.Use(middleware.RouteGuard("/auth/signin", "/home"))

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Observability
		r.Handle("/metrics", metrics.Handler())

		// Health checks
		r.Get("/health", h.Health.Liveness)
		r.Get("/healthz", h.Health.Liveness)
		r.Get("/readyz", h.Health.Readiness)

		// Session lifecycle
		r.Post("/api/auth/signin", h.Auth.SignIn)
		r.Post("/api/auth/signup", h.Auth.SignUp)
		r.Post("/api/auth/signout", h.Auth.SignOut)
		r.Post("/api/auth/refresh", h.Auth.Refresh)
		r.Get("/api/auth/session", h.Auth.Session)

		// Identity provider sign-in
		r.Get("/api/auth/signin/google", h.OAuth.GoogleSignIn)
		r.Get("/api/auth/callback/google", h.OAuth.GoogleCallback)

		// Payment provider webhook. Verified by signature, never by session.
		r.Post("/api/webhook", h.Webhook.Handle)
	})

	// Protected routes (require a session)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/user", h.Profile.Get)
		r.Put("/api/user", h.Profile.Update)

		r.Post("/api/user/assessment", h.Assessment.Save)
		r.Post("/api/user/assessment/complete", h.Assessment.Complete)
		r.Post("/api/user/preferences", h.Assessment.SavePreferences)
		r.Get("/api/user-results", h.Assessment.Results)

		r.Post("/api/career-guidance", h.Guidance.Generate)
		r.Get("/api/career-guidance/{userID}", h.Guidance.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.UserRateLimit(2, 5)) // chat is the expensive path
			r.Post("/api/chat", h.Chat.Chat)
		})

		r.Post("/api/verify-payment", h.Billing.VerifyPayment)
		r.Post("/api/create-portal-session", h.Billing.CreatePortalSession)
	})

	return r
}
