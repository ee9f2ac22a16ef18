package profile

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile represents the per-user record holding assessment, guidance and
// billing state. Email is the natural key for all lookups.
type Profile struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Image string             `bson:"image,omitempty" json:"image,omitempty"`

	PasswordHash string `bson:"passwordHash,omitempty" json:"-"`

	// Assessment fields
	MBTIType             string             `bson:"mbtiType,omitempty" json:"mbtiType,omitempty"`
	MBTIResponses        map[string]string  `bson:"mbtiResponses,omitempty" json:"mbtiResponses,omitempty"`
	SkillRatings         map[string]float64 `bson:"skillRatings,omitempty" json:"skillRatings,omitempty"`
	PersonalPreferences  string             `bson:"personalPreferences,omitempty" json:"personalPreferences,omitempty"`
	AssessmentCompleted  bool               `bson:"assessmentCompleted" json:"assessmentCompleted"`
	PreferencesCompleted bool               `bson:"preferencesCompleted" json:"preferencesCompleted"`
	CompletedAt          *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	// Guidance fields
	CareerGuidance    string             `bson:"careerGuidance,omitempty" json:"careerGuidance,omitempty"`
	LearningResources []LearningResource `bson:"learningResources,omitempty" json:"learningResources,omitempty"`

	// Billing fields
	SubscriptionStatus   string     `bson:"subscriptionStatus,omitempty" json:"subscriptionStatus,omitempty"`
	SubscriptionPlan     string     `bson:"subscriptionPlan,omitempty" json:"subscriptionPlan,omitempty"`
	StripeCustomerID     string     `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string     `bson:"stripeSubscriptionId,omitempty" json:"stripeSubscriptionId,omitempty"`
	CurrentPeriodEnd     *time.Time `bson:"currentPeriodEnd,omitempty" json:"currentPeriodEnd,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// LearningResource is one recommended learning item attached to a profile.
type LearningResource struct {
	Title       string `bson:"title" json:"title"`
	Link        string `bson:"link" json:"link"`
	Description string `bson:"description" json:"description"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Difficulty  string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Platform    string `bson:"platform,omitempty" json:"platform,omitempty"`
	Duration    string `bson:"duration,omitempty" json:"duration,omitempty"`
}

// Subscription statuses
const (
	StatusNone     = "none"
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
)

// Subscription plans
const (
	PlanBasic    = "BASIC"
	PlanStandard = "STANDARD"
	PlanPremium  = "PREMIUM"
)

// NormalizeStatus maps an arbitrary stored value onto one of the
// enumerated subscription statuses, defaulting to "none".
func NormalizeStatus(s string) string {
	switch s {
	case StatusActive, StatusCanceled, StatusPastDue:
		return s
	default:
		return StatusNone
	}
}

// NormalizePlan maps an arbitrary stored value onto one of the enumerated
// plans, defaulting to BASIC.
func NormalizePlan(p string) string {
	switch p {
	case PlanStandard, PlanPremium:
		return p
	default:
		return PlanBasic
	}
}

// Normalize applies the enum defaults to the billing fields in place.
func (p *Profile) Normalize() {
	p.SubscriptionStatus = NormalizeStatus(p.SubscriptionStatus)
	p.SubscriptionPlan = NormalizePlan(p.SubscriptionPlan)
}
