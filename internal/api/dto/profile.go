package dto

import (
	"time"

	"github.com/careercompass/backend/internal/domain/profile"
)

// ProfileDTO represents a profile as returned to clients
type ProfileDTO struct {
	ID                   string                     `json:"id,omitempty"`
	Email                string                     `json:"email"`
	Name                 string                     `json:"name,omitempty"`
	Image                string                     `json:"image,omitempty"`
	MBTIType             string                     `json:"mbtiType,omitempty"`
	MBTIResponses        map[string]string          `json:"mbtiResponses,omitempty"`
	SkillRatings         map[string]float64         `json:"skillRatings,omitempty"`
	PersonalPreferences  string                     `json:"personalPreferences,omitempty"`
	AssessmentCompleted  bool                       `json:"assessmentCompleted"`
	PreferencesCompleted bool                       `json:"preferencesCompleted"`
	CompletedAt          *time.Time                 `json:"completedAt,omitempty"`
	CareerGuidance       string                     `json:"careerGuidance,omitempty"`
	LearningResources    []profile.LearningResource `json:"learningResources,omitempty"`
	SubscriptionStatus   string                     `json:"subscriptionStatus"`
	SubscriptionPlan     string                     `json:"subscriptionPlan"`
	CurrentPeriodEnd     *time.Time                 `json:"currentPeriodEnd,omitempty"`
	CreatedAt            time.Time                  `json:"createdAt"`
	UpdatedAt            time.Time                  `json:"updatedAt"`
}

// FromProfile converts a domain profile to its client representation.
// Password hashes and payment provider ids never leave the server.
func FromProfile(p *profile.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	id := ""
	if !p.ID.IsZero() {
		id = p.ID.Hex()
	}
	return &ProfileDTO{
		ID:                   id,
		Email:                p.Email,
		Name:                 p.Name,
		Image:                p.Image,
		MBTIType:             p.MBTIType,
		MBTIResponses:        p.MBTIResponses,
		SkillRatings:         p.SkillRatings,
		PersonalPreferences:  p.PersonalPreferences,
		AssessmentCompleted:  p.AssessmentCompleted,
		PreferencesCompleted: p.PreferencesCompleted,
		CompletedAt:          p.CompletedAt,
		CareerGuidance:       p.CareerGuidance,
		LearningResources:    p.LearningResources,
		SubscriptionStatus:   profile.NormalizeStatus(p.SubscriptionStatus),
		SubscriptionPlan:     profile.NormalizePlan(p.SubscriptionPlan),
		CurrentPeriodEnd:     p.CurrentPeriodEnd,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Image *string `json:"image,omitempty" validate:"omitempty,url"`
}

// ToUpdate converts the request into a domain update
func (r *UpdateProfileRequest) ToUpdate() profile.Update {
	return profile.Update{
		Name:  r.Name,
		Image: r.Image,
	}
}
