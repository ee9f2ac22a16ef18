package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careercompass/backend/internal/auth"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		authed bool
		want   Decision
	}{
		{"protected page without session", "/assessment", false, DecisionSignIn},
		{"protected subpath without session", "/assessment/mbti", false, DecisionSignIn},
		{"protected page with session", "/assessment", true, DecisionAllow},
		{"results without session", "/results", false, DecisionSignIn},
		{"career guidance without session", "/career-guidance", false, DecisionSignIn},
		{"chat without session", "/chat", false, DecisionSignIn},
		{"subscription without session", "/subscription", false, DecisionSignIn},
		{"profile without session", "/profile", false, DecisionSignIn},
		{"signin page without session", "/auth/signin", false, DecisionAllow},
		{"signin page with session", "/auth/signin", true, DecisionHome},
		{"signup page with session", "/auth/signup", true, DecisionHome},
		{"public page without session", "/", false, DecisionAllow},
		{"public page with session", "/about", true, DecisionAllow},
		{"prefix must match a path segment", "/profiles-export", false, DecisionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.path, tt.authed); got != tt.want {
				t.Errorf("Decide(%q, %v) = %v, want %v", tt.path, tt.authed, got, tt.want)
			}
		})
	}
}

func TestRouteGuardRedirectsWithCallback(t *testing.T) {
	guard := RouteGuard("/auth/signin", "/")
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/assessment/mbti?step=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	location := rec.Header().Get("Location")
	if location != "/auth/signin?callbackUrl=%2Fassessment%2Fmbti%3Fstep%3D2" {
		t.Errorf("Location = %s", location)
	}
}

func TestRouteGuardAnswersJSONForAPIRequests(t *testing.T) {
	guard := RouteGuard("/auth/signin", "/")
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRouteGuardPassesAuthenticated(t *testing.T) {
	guard := RouteGuard("/auth/signin", "/")
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	req = req.WithContext(WithPrincipal(req.Context(), auth.Principal{Email: "visitor@example.com"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
