package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/careercompass/backend/internal/api/handlers"
	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/auth"
	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/validator"
	"github.com/careercompass/backend/internal/services"
	"github.com/careercompass/backend/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func authedRequest(method, target, body, email string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithPrincipal(req.Context(), auth.Principal{ID: "1", Email: email})
	return req.WithContext(ctx)
}

func newAssessmentHandler(repo *testutil.MockProfileRepository) *handlers.AssessmentHandler {
	return newAssessmentHandlerWithChat(repo, &testutil.FakeChatProvider{Reply: "Explore analytical careers."})
}

func newAssessmentHandlerWithChat(repo *testutil.MockProfileRepository, chat *testutil.FakeChatProvider) *handlers.AssessmentHandler {
	service := services.NewProfileService(repo, testLogger(), 4)
	guidance := services.NewGuidanceService(repo, chat, testLogger(), time.Second)
	return handlers.NewAssessmentHandler(service, guidance, time.Second, testLogger(), validator.New())
}

func TestAssessmentSave(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "partial write with ratings only",
			body:       `{"skillRatings":{"writing":7.5}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty update rejected",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty responses mapping rejected",
			body:       `{"mbtiResponses":{}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json rejected",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rating outside range rejected",
			body:       `{"skillRatings":{"writing":99}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := testutil.NewMockProfileRepository()
			handler := newAssessmentHandler(mockRepo)

			req := authedRequest(http.MethodPost, "/api/user/assessment", tt.body, "visitor@example.com")
			rec := httptest.NewRecorder()
			handler.Save(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestAssessmentSaveMergesFields(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:        "visitor@example.com",
		MBTIType:     "ISFP",
		SkillRatings: map[string]float64{"drawing": 9},
	})

	handler := newAssessmentHandler(mockRepo)

	req := authedRequest(http.MethodPost, "/api/user/assessment",
		`{"personalPreferences":"studio work"}`, "visitor@example.com")
	rec := httptest.NewRecorder()
	handler.Save(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	stored := mockRepo.Profiles["visitor@example.com"]
	if stored.MBTIType != "ISFP" {
		t.Errorf("MBTIType = %s, want untouched ISFP", stored.MBTIType)
	}
	if stored.SkillRatings["drawing"] != 9 {
		t.Error("skill ratings were clobbered by unrelated write")
	}
	if stored.PersonalPreferences != "studio work" {
		t.Errorf("PersonalPreferences = %s", stored.PersonalPreferences)
	}
}

func TestAssessmentSaveTriggersGuidanceGeneration(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	chat := &testutil.FakeChatProvider{Reply: "Data engineering would suit you."}
	handler := newAssessmentHandlerWithChat(mockRepo, chat)

	req := authedRequest(http.MethodPost, "/api/user/assessment",
		`{"mbtiResult":"INTJ","assessmentCompleted":true}`, "visitor@example.com")
	rec := httptest.NewRecorder()
	handler.Save(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	stored := mockRepo.Profiles["visitor@example.com"]
	if stored.CareerGuidance != "Data engineering would suit you." {
		t.Errorf("CareerGuidance = %q, want guidance generated on submission", stored.CareerGuidance)
	}
	if len(stored.LearningResources) == 0 {
		t.Error("learning resources were not stored with the guidance")
	}
}

func TestAssessmentSaveSoftFailsGuidanceGeneration(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	chat := &testutil.FakeChatProvider{Err: context.DeadlineExceeded}
	handler := newAssessmentHandlerWithChat(mockRepo, chat)

	req := authedRequest(http.MethodPost, "/api/user/assessment",
		`{"mbtiResult":"ENFP","assessmentCompleted":true}`, "visitor@example.com")
	rec := httptest.NewRecorder()
	handler.Save(rec, req)

	// A slow or failing provider must not fail the submission itself.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if stored := mockRepo.Profiles["visitor@example.com"]; stored.CareerGuidance != "" {
		t.Errorf("CareerGuidance = %q, want none after provider failure", stored.CareerGuidance)
	}
}

func TestAssessmentSaveRequiresSession(t *testing.T) {
	handler := newAssessmentHandler(testutil.NewMockProfileRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/user/assessment", strings.NewReader(`{"mbtiResult":"INTJ"}`))
	rec := httptest.NewRecorder()
	handler.Save(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestResultsRejectsForeignEmail(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{Email: "other@example.com", MBTIType: "ENTP"})
	handler := newAssessmentHandler(mockRepo)

	req := authedRequest(http.MethodGet, "/api/user-results?email=other%40example.com", "", "visitor@example.com")
	rec := httptest.NewRecorder()
	handler.Results(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestResultsDefaultsToSessionEmail(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:               "visitor@example.com",
		MBTIType:            "ENTP",
		AssessmentCompleted: true,
	})
	handler := newAssessmentHandler(mockRepo)

	req := authedRequest(http.MethodGet, "/api/user-results", "", "visitor@example.com")
	rec := httptest.NewRecorder()
	handler.Results(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ENTP") {
		t.Errorf("body %s does not include the MBTI type", rec.Body.String())
	}
}

func TestResultsUnknownProfile(t *testing.T) {
	handler := newAssessmentHandler(testutil.NewMockProfileRepository())

	req := authedRequest(http.MethodGet, "/api/user-results", "", "visitor@example.com")
	rec := httptest.NewRecorder()
	handler.Results(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
