package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/services"
	"github.com/careercompass/backend/internal/testutil"
)

func TestGuidanceService_Get(t *testing.T) {
	tests := []struct {
		name       string
		seed       *profile.Profile
		wantStatus string
		wantErr    string
	}{
		{
			name: "stored guidance is ready",
			seed: &profile.Profile{
				Email:          "visitor@example.com",
				CareerGuidance: "Consider data engineering.",
			},
			wantStatus: services.GuidanceReady,
		},
		{
			name: "completed assessment without guidance is processing",
			seed: &profile.Profile{
				Email:               "visitor@example.com",
				AssessmentCompleted: true,
			},
			wantStatus: services.GuidanceProcessing,
		},
		{
			name:    "no assessment at all is not found",
			seed:    &profile.Profile{Email: "visitor@example.com"},
			wantErr: errors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := testutil.NewMockProfileRepository()
			mockRepo.Seed(tt.seed)

			service := services.NewGuidanceService(mockRepo, &testutil.FakeChatProvider{}, testLogger(), time.Second)

			result, err := service.Get(context.Background(), "visitor@example.com")
			if tt.wantErr != "" {
				appErr, ok := err.(*errors.AppError)
				if !ok || appErr.Code != tt.wantErr {
					t.Errorf("error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", result.Status, tt.wantStatus)
			}
		})
	}
}

func TestGuidanceService_GetByProfileID(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:          "visitor@example.com",
		MBTIType:       "INTJ",
		CareerGuidance: "Consider data engineering.",
	})

	service := services.NewGuidanceService(mockRepo, &testutil.FakeChatProvider{}, testLogger(), time.Second)

	id := mockRepo.Profiles["visitor@example.com"].ID.Hex()
	result, err := service.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() by id error = %v", err)
	}
	if result.MBTIType != "INTJ" || result.Status != services.GuidanceReady {
		t.Errorf("result = %+v, want ready INTJ guidance", result)
	}
}

func TestGuidanceService_Generate(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:               "visitor@example.com",
		MBTIType:            "INTJ",
		SkillRatings:        map[string]float64{"analysis": 9},
		PersonalPreferences: "independent research",
	})

	chat := &testutil.FakeChatProvider{Reply: "Research roles would suit you."}
	service := services.NewGuidanceService(mockRepo, chat, testLogger(), time.Second)

	result, err := service.Generate(context.Background(), "visitor@example.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Status != services.GuidanceReady {
		t.Fatalf("Status = %s, want %s", result.Status, services.GuidanceReady)
	}
	if result.CareerGuidance != "Research roles would suit you." {
		t.Errorf("CareerGuidance = %q", result.CareerGuidance)
	}
	if result.MBTIType != "INTJ" {
		t.Errorf("MBTIType = %q, want INTJ", result.MBTIType)
	}
	if len(result.LearningResources) == 0 {
		t.Error("LearningResources is empty, want defaults for the type")
	}

	if !strings.Contains(chat.LastPrompt, "INTJ") {
		t.Errorf("prompt %q does not mention the type", chat.LastPrompt)
	}
	if !strings.Contains(chat.LastPrompt, "analysis") {
		t.Errorf("prompt %q does not mention skills", chat.LastPrompt)
	}

	stored := mockRepo.Profiles["visitor@example.com"]
	if stored.CareerGuidance == "" {
		t.Error("guidance was not persisted")
	}
}

func TestGuidanceService_GenerateSoftFailsOnProviderError(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:    "visitor@example.com",
		MBTIType: "ENFP",
	})

	chat := &testutil.FakeChatProvider{Err: context.DeadlineExceeded}
	service := services.NewGuidanceService(mockRepo, chat, testLogger(), time.Second)

	result, err := service.Generate(context.Background(), "visitor@example.com")
	if err != nil {
		t.Fatalf("Generate() error = %v, want soft failure", err)
	}
	if result.Status != services.GuidanceProcessing {
		t.Errorf("Status = %s, want %s", result.Status, services.GuidanceProcessing)
	}
}

func TestGuidanceService_GenerateRequiresAssessment(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{Email: "visitor@example.com"})

	service := services.NewGuidanceService(mockRepo, &testutil.FakeChatProvider{}, testLogger(), time.Second)

	_, err := service.Generate(context.Background(), "visitor@example.com")
	if err == nil {
		t.Fatal("Generate() expected error without completed assessment")
	}
}

func TestDefaultResources(t *testing.T) {
	tests := []struct {
		mbtiType string
	}{
		{"INTJ"}, {"ENFP"}, {"ISTJ"}, {"ESFP"}, {"bogus"},
	}

	for _, tt := range tests {
		resources := services.DefaultResources(tt.mbtiType)
		if len(resources) == 0 {
			t.Errorf("DefaultResources(%q) is empty", tt.mbtiType)
		}
		for _, res := range resources {
			if res.Title == "" || res.Link == "" {
				t.Errorf("DefaultResources(%q) has incomplete entry %+v", tt.mbtiType, res)
			}
		}
	}
}

func TestChatService_Ask(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:    "visitor@example.com",
		MBTIType: "INFJ",
	})

	chat := &testutil.FakeChatProvider{Reply: "Try UX design."}
	service := services.NewChatService(mockRepo, chat, testLogger(), time.Second)

	reply, err := service.Ask(context.Background(), "visitor@example.com", "What career fits me?", "")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if reply != "Try UX design." {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(chat.LastPrompt, "INFJ") {
		t.Errorf("prompt %q lacks profile context", chat.LastPrompt)
	}

	if _, err := service.Ask(context.Background(), "visitor@example.com", "What pays well?", "salary in Europe"); err != nil {
		t.Fatalf("Ask() with context error = %v", err)
	}
	if !strings.Contains(chat.LastPrompt, "salary in Europe") {
		t.Errorf("prompt %q lacks caller context", chat.LastPrompt)
	}

	if _, err := service.Ask(context.Background(), "visitor@example.com", "  ", ""); err == nil {
		t.Error("Ask() expected error for blank message")
	}
}

func TestChatService_StreamDeliversChunks(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	chat := &testutil.FakeChatProvider{Chunks: []string{"Try ", "UX ", "design."}}
	service := services.NewChatService(mockRepo, chat, testLogger(), time.Second)

	var got strings.Builder
	err := service.Stream(context.Background(), "visitor@example.com", "What career fits me?", "", func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if got.String() != "Try UX design." {
		t.Errorf("streamed reply = %q", got.String())
	}
}
