package profile

import (
	"context"
	"time"
)

// Update is a field-merging partial update. Nil fields are left untouched;
// only the keys present are written. UpdatedAt is always refreshed by the
// repository on any write.
type Update struct {
	Name                 *string
	Image                *string
	PasswordHash         *string
	MBTIType             *string
	MBTIResponses        map[string]string
	SkillRatings         map[string]float64
	PersonalPreferences  *string
	AssessmentCompleted  *bool
	PreferencesCompleted *bool
	CompletedAt          *time.Time
	CareerGuidance       *string
	LearningResources    []LearningResource
	SubscriptionStatus   *string
	SubscriptionPlan     *string
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CurrentPeriodEnd     *time.Time
}

// IsEmpty reports whether the update carries no fields at all.
func (u Update) IsEmpty() bool {
	return u.Name == nil &&
		u.Image == nil &&
		u.PasswordHash == nil &&
		u.MBTIType == nil &&
		u.MBTIResponses == nil &&
		u.SkillRatings == nil &&
		u.PersonalPreferences == nil &&
		u.AssessmentCompleted == nil &&
		u.PreferencesCompleted == nil &&
		u.CompletedAt == nil &&
		u.CareerGuidance == nil &&
		u.LearningResources == nil &&
		u.SubscriptionStatus == nil &&
		u.SubscriptionPlan == nil &&
		u.StripeCustomerID == nil &&
		u.StripeSubscriptionID == nil &&
		u.CurrentPeriodEnd == nil
}

// Repository defines the interface for profile data access
type Repository interface {
	// FindByEmail retrieves a profile by its email key
	FindByEmail(ctx context.Context, email string) (*Profile, error)

	// FindByID retrieves a profile by its document id
	FindByID(ctx context.Context, id string) (*Profile, error)

	// FindByStripeCustomerID retrieves a profile by its stored payment customer id
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Profile, error)

	// Upsert merges the given fields into the profile keyed by email.
	// With createIfMissing=false a missing profile is reported as not
	// found and nothing is written.
	Upsert(ctx context.Context, email string, update Update, createIfMissing bool) (*Profile, error)
}
