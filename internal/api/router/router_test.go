package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careercompass/backend/internal/api/handlers"
	"github.com/careercompass/backend/internal/api/router"
	"github.com/careercompass/backend/internal/auth"
	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/pkg/logger"
)

const sessionSecret = "router-test-secret"

func newTestRouter() http.Handler {
	cfg := &config.Config{
		Server: config.ServerConfig{FrontendURL: "http://localhost:3000"},
		Auth:   config.AuthConfig{SessionSecret: sessionSecret},
	}
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	return router.New(cfg, log, &router.Handlers{
		Health:     &handlers.HealthHandler{},
		Auth:       &handlers.AuthHandler{},
		OAuth:      &handlers.OAuthHandler{},
		Profile:    &handlers.ProfileHandler{},
		Assessment: &handlers.AssessmentHandler{},
		Guidance:   &handlers.GuidanceHandler{},
		Chat:       &handlers.ChatHandler{},
		Billing:    &handlers.BillingHandler{},
		Webhook:    &handlers.WebhookHandler{},
	})
}

func TestRouterRedirectsUnauthenticatedPageNavigation(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/assessment", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	location := rec.Header().Get("Location")
	if location != "/auth/signin?callbackUrl=%2Fassessment" {
		t.Errorf("Location = %q", location)
	}
}

func TestRouterRedirectsAuthenticatedAwayFromSignIn(t *testing.T) {
	r := newTestRouter()

	pair, err := auth.MintTokens(auth.Principal{ID: "1", Email: "visitor@example.com"}, sessionSecret, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/signin", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if location := rec.Header().Get("Location"); location != "/home" {
		t.Errorf("Location = %q, want /home", location)
	}
}

func TestRouterAnswersJSONForUnauthenticatedAPI(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}
