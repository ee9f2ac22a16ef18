package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/services"
	"github.com/careercompass/backend/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func TestPlanForPrice(t *testing.T) {
	tests := []struct {
		priceID string
		want    string
	}{
		{"price_1R5AJ5SId25rPpE82jBjVexB", profile.PlanStandard},
		{"price_1R5AKpSId25rPpE8rNdySQsJ", profile.PlanPremium},
		{"price_unknown", profile.PlanBasic},
		{"", profile.PlanBasic},
	}

	for _, tt := range tests {
		if got := services.PlanForPrice(tt.priceID); got != tt.want {
			t.Errorf("PlanForPrice(%q) = %s, want %s", tt.priceID, got, tt.want)
		}
	}
}

func TestBillingService_Reconcile(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{Email: "visitor@example.com"})

	provider := testutil.NewFakePaymentProvider()
	provider.Sessions["cs_ok"] = &services.CheckoutSession{
		ID:             "cs_ok",
		CustomerID:     "cus_123",
		SubscriptionID: "sub_456",
		PriceIDs:       []string{"price_1R5AKpSId25rPpE8rNdySQsJ"},
	}

	service := services.NewBillingService(mockRepo, provider, testLogger())

	snapshot, err := service.Reconcile(context.Background(), "visitor@example.com", "cs_ok")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if snapshot.Plan != profile.PlanPremium {
		t.Errorf("Plan = %s, want %s", snapshot.Plan, profile.PlanPremium)
	}
	if snapshot.Status != profile.StatusActive {
		t.Errorf("Status = %s, want %s", snapshot.Status, profile.StatusActive)
	}

	stored := mockRepo.Profiles["visitor@example.com"]
	if stored.StripeCustomerID != "cus_123" {
		t.Errorf("StripeCustomerID = %s, want cus_123", stored.StripeCustomerID)
	}
	if stored.StripeSubscriptionID != "sub_456" {
		t.Errorf("StripeSubscriptionID = %s, want sub_456", stored.StripeSubscriptionID)
	}
	if stored.SubscriptionPlan != profile.PlanPremium {
		t.Errorf("stored plan = %s, want %s", stored.SubscriptionPlan, profile.PlanPremium)
	}
}

func TestBillingService_ReconcileUnknownSession(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	provider := testutil.NewFakePaymentProvider()
	service := services.NewBillingService(mockRepo, provider, testLogger())

	_, err := service.Reconcile(context.Background(), "visitor@example.com", "cs_missing")
	if err == nil {
		t.Fatal("Reconcile() expected error for unknown session")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeInvalidSession {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeInvalidSession)
	}
}

func TestBillingService_ReconcileUnknownProfile(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	provider := testutil.NewFakePaymentProvider()
	provider.Sessions["cs_ok"] = &services.CheckoutSession{
		ID:       "cs_ok",
		PriceIDs: []string{"price_1R5AJ5SId25rPpE82jBjVexB"},
	}

	service := services.NewBillingService(mockRepo, provider, testLogger())

	_, err := service.Reconcile(context.Background(), "ghost@example.com", "cs_ok")
	if !errors.IsNotFound(err) {
		t.Fatalf("Reconcile() error = %v, want not found", err)
	}
	if len(mockRepo.Profiles) != 0 {
		t.Error("Reconcile() created a profile for an unknown email")
	}
}

func TestBillingService_ReconcileStoreFailureStillReturnsSnapshot(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{Email: "visitor@example.com"})
	mockRepo.UpsertError = errors.DatabaseError("write failed", nil)

	provider := testutil.NewFakePaymentProvider()
	provider.Sessions["cs_ok"] = &services.CheckoutSession{
		ID:       "cs_ok",
		PriceIDs: []string{"price_1R5AJ5SId25rPpE82jBjVexB"},
	}

	service := services.NewBillingService(mockRepo, provider, testLogger())

	// The webhook receiver is authoritative; a store failure during
	// verification must not fail the request.
	snapshot, err := service.Reconcile(context.Background(), "visitor@example.com", "cs_ok")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if snapshot.Plan != profile.PlanStandard {
		t.Errorf("Plan = %s, want %s", snapshot.Plan, profile.PlanStandard)
	}
}

func TestBillingService_ApplyEventSubscriptionChange(t *testing.T) {
	tests := []struct {
		name           string
		providerStatus string
		priceID        string
		wantStatus     string
		wantPlan       string
	}{
		{"active stays active", "active", "price_1R5AJ5SId25rPpE82jBjVexB", profile.StatusActive, profile.PlanStandard},
		{"trialing counts as active", "trialing", "price_1R5AKpSId25rPpE8rNdySQsJ", profile.StatusActive, profile.PlanPremium},
		{"past due", "past_due", "price_1R5AJ5SId25rPpE82jBjVexB", profile.StatusPastDue, profile.PlanStandard},
		{"canceled", "canceled", "price_1R5AJ5SId25rPpE82jBjVexB", profile.StatusCanceled, profile.PlanStandard},
		{"unpaid maps to canceled", "unpaid", "price_1R5AJ5SId25rPpE82jBjVexB", profile.StatusCanceled, profile.PlanStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := testutil.NewMockProfileRepository()
			mockRepo.Seed(&profile.Profile{
				Email:            "visitor@example.com",
				StripeCustomerID: "cus_123",
			})

			service := services.NewBillingService(mockRepo, testutil.NewFakePaymentProvider(), testLogger())

			end := time.Now().Add(30 * 24 * time.Hour).UTC()
			err := service.ApplyEvent(context.Background(), services.SubscriptionEvent{
				Type:             services.EventSubscriptionUpdated,
				CustomerID:       "cus_123",
				SubscriptionID:   "sub_456",
				PriceID:          tt.priceID,
				Status:           tt.providerStatus,
				CurrentPeriodEnd: &end,
			})
			if err != nil {
				t.Fatalf("ApplyEvent() error = %v", err)
			}

			stored := mockRepo.Profiles["visitor@example.com"]
			if stored.SubscriptionStatus != tt.wantStatus {
				t.Errorf("status = %s, want %s", stored.SubscriptionStatus, tt.wantStatus)
			}
			if stored.SubscriptionPlan != tt.wantPlan {
				t.Errorf("plan = %s, want %s", stored.SubscriptionPlan, tt.wantPlan)
			}
			if stored.CurrentPeriodEnd == nil || !stored.CurrentPeriodEnd.Equal(end) {
				t.Errorf("currentPeriodEnd = %v, want %v", stored.CurrentPeriodEnd, end)
			}
		})
	}
}

func TestBillingService_ApplyEventSubscriptionDeleted(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:              "visitor@example.com",
		StripeCustomerID:   "cus_123",
		SubscriptionStatus: profile.StatusActive,
		SubscriptionPlan:   profile.PlanPremium,
	})

	service := services.NewBillingService(mockRepo, testutil.NewFakePaymentProvider(), testLogger())

	err := service.ApplyEvent(context.Background(), services.SubscriptionEvent{
		Type:       services.EventSubscriptionDeleted,
		CustomerID: "cus_123",
	})
	if err != nil {
		t.Fatalf("ApplyEvent() error = %v", err)
	}

	stored := mockRepo.Profiles["visitor@example.com"]
	if stored.SubscriptionStatus != profile.StatusCanceled {
		t.Errorf("status = %s, want %s", stored.SubscriptionStatus, profile.StatusCanceled)
	}
	if stored.SubscriptionPlan != profile.PlanBasic {
		t.Errorf("plan = %s, want %s", stored.SubscriptionPlan, profile.PlanBasic)
	}
}

func TestBillingService_ApplyEventCheckoutCompleted(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()

	service := services.NewBillingService(mockRepo, testutil.NewFakePaymentProvider(), testLogger())

	err := service.ApplyEvent(context.Background(), services.SubscriptionEvent{
		Type:           services.EventCheckoutCompleted,
		SessionID:      "cs_ok",
		Email:          "new@example.com",
		CustomerID:     "cus_777",
		SubscriptionID: "sub_777",
		PriceID:        "price_1R5AJ5SId25rPpE82jBjVexB",
	})
	if err != nil {
		t.Fatalf("ApplyEvent() error = %v", err)
	}

	// Checkout for a brand-new email creates the profile.
	stored, ok := mockRepo.Profiles["new@example.com"]
	if !ok {
		t.Fatal("profile was not created by checkout event")
	}
	if stored.SubscriptionPlan != profile.PlanStandard {
		t.Errorf("plan = %s, want %s", stored.SubscriptionPlan, profile.PlanStandard)
	}
	if stored.StripeCustomerID != "cus_777" {
		t.Errorf("customer id = %s, want cus_777", stored.StripeCustomerID)
	}
}

func TestBillingService_ApplyEventIgnoresUnknownType(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	service := services.NewBillingService(mockRepo, testutil.NewFakePaymentProvider(), testLogger())

	err := service.ApplyEvent(context.Background(), services.SubscriptionEvent{
		Type: "invoice.paid",
	})
	if err != nil {
		t.Fatalf("ApplyEvent() error = %v", err)
	}
	if mockRepo.UpsertCalls != 0 {
		t.Errorf("UpsertCalls = %d, want 0", mockRepo.UpsertCalls)
	}
}

func TestBillingService_ApplyEventUnknownCustomerIsDropped(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	service := services.NewBillingService(mockRepo, testutil.NewFakePaymentProvider(), testLogger())

	err := service.ApplyEvent(context.Background(), services.SubscriptionEvent{
		Type:       services.EventSubscriptionUpdated,
		CustomerID: "cus_nobody",
		Status:     "active",
	})
	if err != nil {
		t.Fatalf("ApplyEvent() error = %v, want nil for unknown customer", err)
	}
}

func TestBillingService_PortalURL(t *testing.T) {
	mockRepo := testutil.NewMockProfileRepository()
	mockRepo.Seed(&profile.Profile{
		Email:            "visitor@example.com",
		StripeCustomerID: "cus_123",
	})
	mockRepo.Seed(&profile.Profile{Email: "free@example.com"})

	service := services.NewBillingService(mockRepo, testutil.NewFakePaymentProvider(), testLogger())

	url, err := service.PortalURL(context.Background(), "visitor@example.com", "", "https://kiosk.example.com/subscription")
	if err != nil {
		t.Fatalf("PortalURL() error = %v", err)
	}
	if url == "" {
		t.Error("PortalURL() returned empty URL")
	}

	if _, err := service.PortalURL(context.Background(), "free@example.com", "", ""); err == nil {
		t.Error("PortalURL() expected error for profile without billing account")
	}
}
