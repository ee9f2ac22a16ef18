package services_test

import (
	"context"
	"testing"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/services"
	"github.com/careercompass/backend/internal/testutil"
)

func TestProfileService_RegisterAndAuthenticate(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	service := services.NewProfileService(mockRepo, testLogger(), 4)

	p, err := service.Register(context.Background(), "visitor@example.com", "s3cret-pass", "Visitor")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if p.Name != "Visitor" {
		t.Errorf("Name = %s, want Visitor", p.Name)
	}

	// Duplicate registration conflicts.
	if _, err := service.Register(context.Background(), "visitor@example.com", "other", ""); err == nil {
		t.Error("Register() expected conflict for existing email")
	}

	if _, err := service.Authenticate(context.Background(), "visitor@example.com", "s3cret-pass"); err != nil {
		t.Errorf("Authenticate() error = %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "visitor@example.com", "wrong"); err == nil {
		t.Error("Authenticate() expected error for wrong password")
	}
	if _, err := service.Authenticate(context.Background(), "nobody@example.com", "s3cret-pass"); err == nil {
		t.Error("Authenticate() expected error for unknown email")
	}
}

func TestProfileService_AuthenticateProviderOnlyProfile(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{Email: "oauth@example.com"})

	service := services.NewProfileService(mockRepo, testLogger(), 4)

	if _, err := service.Authenticate(context.Background(), "oauth@example.com", "anything"); err == nil {
		t.Error("Authenticate() expected error for profile without password")
	}
}

func TestProfileService_EnsureCreatesOnce(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	service := services.NewProfileService(mockRepo, testLogger(), 4)

	first, err := service.Ensure(context.Background(), "visitor@example.com", "Visitor", "https://img.example.com/a.png")
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	second, err := service.Ensure(context.Background(), "visitor@example.com", "Visitor", "")
	if err != nil {
		t.Fatalf("Ensure() second call error = %v", err)
	}
	if first.ID != second.ID {
		t.Error("Ensure() created a second profile for the same email")
	}
	if len(mockRepo.Profiles) != 1 {
		t.Errorf("profile count = %d, want 1", len(mockRepo.Profiles))
	}
	// Absent image is not blanked on repeat sign-in.
	if second.Image != "https://img.example.com/a.png" {
		t.Errorf("Image = %s, want preserved value", second.Image)
	}
}

func TestProfileService_UpdateProfileRejectsEmptyUpdate(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{Email: "visitor@example.com"})

	service := services.NewProfileService(mockRepo, testLogger(), 4)

	_, err := service.UpdateProfile(context.Background(), "visitor@example.com", profile.Update{})
	if err == nil {
		t.Fatal("UpdateProfile() expected error for empty update")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeBadRequest {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeBadRequest)
	}
	if mockRepo.UpsertCalls != 0 {
		t.Errorf("UpsertCalls = %d, want 0 (nothing should reach the store)", mockRepo.UpsertCalls)
	}
}

func TestProfileService_SaveAssessment(t *testing.T) {
	mbtiType := "INTJ"
	tests := []struct {
		name    string
		update  profile.Update
		wantErr bool
	}{
		{
			name:    "empty update rejected",
			update:  profile.Update{},
			wantErr: true,
		},
		{
			name:    "empty responses mapping rejected",
			update:  profile.Update{MBTIResponses: map[string]string{}},
			wantErr: true,
		},
		{
			name:    "empty ratings mapping rejected",
			update:  profile.Update{SkillRatings: map[string]float64{}},
			wantErr: true,
		},
		{
			name:    "ratings only",
			update:  profile.Update{SkillRatings: map[string]float64{"writing": 7}},
			wantErr: false,
		},
		{
			name:    "explicit type",
			update:  profile.Update{MBTIType: &mbtiType},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := testutil.NewMockProfileRepository()
			service := services.NewProfileService(mockRepo, testLogger(), 4)

			_, err := service.SaveAssessment(context.Background(), "visitor@example.com", tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("SaveAssessment() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileService_SaveAssessmentDerivesType(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	service := services.NewProfileService(mockRepo, testLogger(), 4)

	update := profile.Update{
		MBTIResponses: map[string]string{
			"q1": "I", "q2": "I",
			"q3": "N", "q4": "N",
			"q5": "T", "q6": "T",
			"q7": "J", "q8": "J",
		},
	}

	p, err := service.SaveAssessment(context.Background(), "visitor@example.com", update)
	if err != nil {
		t.Fatalf("SaveAssessment() error = %v", err)
	}
	if p.MBTIType != "INTJ" {
		t.Errorf("MBTIType = %s, want INTJ", p.MBTIType)
	}
}

func TestProfileService_SaveAssessmentCreatesProfile(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	service := services.NewProfileService(mockRepo, testLogger(), 4)

	// First write for an email creates the profile.
	_, err := service.SaveAssessment(context.Background(), "new@example.com", profile.Update{
		SkillRatings: map[string]float64{"math": 8},
	})
	if err != nil {
		t.Fatalf("SaveAssessment() error = %v", err)
	}
	if _, ok := mockRepo.Profiles["new@example.com"]; !ok {
		t.Error("profile was not created by first assessment write")
	}
}

func TestProfileService_SavePreferences(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	service := services.NewProfileService(mockRepo, testLogger(), 4)

	p, err := service.SavePreferences(context.Background(), "visitor@example.com", "remote work, creative teams", true)
	if err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}
	if p.PersonalPreferences != "remote work, creative teams" {
		t.Errorf("PersonalPreferences = %s", p.PersonalPreferences)
	}
	if !p.PreferencesCompleted {
		t.Error("PreferencesCompleted = false, want true")
	}
}

func TestProfileService_CompleteAssessmentDefaultsTimestamp(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{Email: "visitor@example.com"})

	service := services.NewProfileService(mockRepo, testLogger(), 4)

	p, err := service.CompleteAssessment(context.Background(), "visitor@example.com", true, nil)
	if err != nil {
		t.Fatalf("CompleteAssessment() error = %v", err)
	}
	if !p.AssessmentCompleted {
		t.Error("AssessmentCompleted = false, want true")
	}
	if p.CompletedAt == nil {
		t.Error("CompletedAt = nil, want defaulted timestamp")
	}
}
