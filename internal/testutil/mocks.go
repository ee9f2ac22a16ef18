package testutil

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/services"
)

// MockProfileRepository is an in-memory implementation of
// profile.Repository with the same field-merge semantics as the store.
type MockProfileRepository struct {
	Profiles    map[string]*profile.Profile
	FindError   error
	UpsertError error
	UpsertCalls int
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[string]*profile.Profile),
	}
}

// Seed inserts a profile keyed by its email.
func (m *MockProfileRepository) Seed(p *profile.Profile) *profile.Profile {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.Profiles[p.Email] = p
	return p
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	p, ok := m.Profiles[email]
	if !ok {
		return nil, errors.NotFound("Profile")
	}
	cp := *p
	cp.Normalize()
	return &cp, nil
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, p := range m.Profiles {
		if p.ID.Hex() == id {
			cp := *p
			cp.Normalize()
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Profile")
}

func (m *MockProfileRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*profile.Profile, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, p := range m.Profiles {
		if p.StripeCustomerID == customerID {
			cp := *p
			cp.Normalize()
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Profile")
}

func (m *MockProfileRepository) Upsert(ctx context.Context, email string, u profile.Update, createIfMissing bool) (*profile.Profile, error) {
	m.UpsertCalls++
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}

	p, ok := m.Profiles[email]
	if !ok {
		if !createIfMissing {
			return nil, errors.NotFound("Profile")
		}
		p = &profile.Profile{
			ID:        primitive.NewObjectID(),
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
		m.Profiles[email] = p
	}

	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.PasswordHash != nil {
		p.PasswordHash = *u.PasswordHash
	}
	if u.MBTIType != nil {
		p.MBTIType = *u.MBTIType
	}
	if u.MBTIResponses != nil {
		p.MBTIResponses = u.MBTIResponses
	}
	if u.SkillRatings != nil {
		p.SkillRatings = u.SkillRatings
	}
	if u.PersonalPreferences != nil {
		p.PersonalPreferences = *u.PersonalPreferences
	}
	if u.AssessmentCompleted != nil {
		p.AssessmentCompleted = *u.AssessmentCompleted
	}
	if u.PreferencesCompleted != nil {
		p.PreferencesCompleted = *u.PreferencesCompleted
	}
	if u.CompletedAt != nil {
		p.CompletedAt = u.CompletedAt
	}
	if u.CareerGuidance != nil {
		p.CareerGuidance = *u.CareerGuidance
	}
	if u.LearningResources != nil {
		p.LearningResources = u.LearningResources
	}
	if u.SubscriptionStatus != nil {
		p.SubscriptionStatus = *u.SubscriptionStatus
	}
	if u.SubscriptionPlan != nil {
		p.SubscriptionPlan = *u.SubscriptionPlan
	}
	if u.StripeCustomerID != nil {
		p.StripeCustomerID = *u.StripeCustomerID
	}
	if u.StripeSubscriptionID != nil {
		p.StripeSubscriptionID = *u.StripeSubscriptionID
	}
	if u.CurrentPeriodEnd != nil {
		p.CurrentPeriodEnd = u.CurrentPeriodEnd
	}
	p.UpdatedAt = time.Now().UTC()

	cp := *p
	cp.Normalize()
	return &cp, nil
}

// FakePaymentProvider is a canned implementation of services.PaymentProvider.
type FakePaymentProvider struct {
	Sessions  map[string]*services.CheckoutSession
	PortalErr error
}

func NewFakePaymentProvider() *FakePaymentProvider {
	return &FakePaymentProvider{
		Sessions: make(map[string]*services.CheckoutSession),
	}
}

func (f *FakePaymentProvider) CheckoutSession(ctx context.Context, sessionID string) (*services.CheckoutSession, error) {
	s, ok := f.Sessions[sessionID]
	if !ok {
		return nil, errors.InvalidSession(sessionID)
	}
	return s, nil
}

func (f *FakePaymentProvider) PortalURL(ctx context.Context, customerID, returnURL string) (string, error) {
	if f.PortalErr != nil {
		return "", f.PortalErr
	}
	return "https://billing.example.com/portal/" + customerID, nil
}

// FakeChatProvider is a canned implementation of services.ChatProvider.
type FakeChatProvider struct {
	Reply  string
	Chunks []string
	Err    error
	// LastPrompt records the prompt of the most recent call.
	LastPrompt string
	LastSystem string
}

func (f *FakeChatProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.LastSystem = system
	f.LastPrompt = prompt
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

func (f *FakeChatProvider) Stream(ctx context.Context, system, prompt string, fn func(chunk string) error) error {
	f.LastSystem = system
	f.LastPrompt = prompt
	if f.Err != nil {
		return f.Err
	}
	for _, chunk := range f.Chunks {
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}
