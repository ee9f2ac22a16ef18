package dto

import (
	"time"

	"github.com/careercompass/backend/internal/domain/profile"
)

// SaveAssessmentRequest is a field-merging assessment update. Absent
// fields are left untouched on the stored profile.
type SaveAssessmentRequest struct {
	MBTIResult          *string            `json:"mbtiResult,omitempty" validate:"omitempty,len=4"`
	MBTIResponses       map[string]string  `json:"mbtiResponses,omitempty"`
	SkillRatings        map[string]float64 `json:"skillRatings,omitempty" validate:"omitempty,dive,gte=0,lte=10"`
	PersonalPreferences *string            `json:"personalPreferences,omitempty"`
	AssessmentCompleted *bool              `json:"assessmentCompleted,omitempty"`
	CompletedAt         *time.Time         `json:"completedAt,omitempty"`
}

// ToUpdate converts the request into a domain update
func (r *SaveAssessmentRequest) ToUpdate() profile.Update {
	return profile.Update{
		MBTIType:            r.MBTIResult,
		MBTIResponses:       r.MBTIResponses,
		SkillRatings:        r.SkillRatings,
		PersonalPreferences: r.PersonalPreferences,
		AssessmentCompleted: r.AssessmentCompleted,
		CompletedAt:         r.CompletedAt,
	}
}

// CompleteAssessmentRequest marks an assessment finished
type CompleteAssessmentRequest struct {
	AssessmentCompleted bool       `json:"assessmentCompleted"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

// SavePreferencesRequest stores free-form personal preferences
type SavePreferencesRequest struct {
	PersonalPreferences  string `json:"personalPreferences" validate:"required"`
	PreferencesCompleted bool   `json:"preferencesCompleted"`
}

// ResultsResponse is the assessment results payload
type ResultsResponse struct {
	Email               string                     `json:"email"`
	MBTIType            string                     `json:"mbtiType,omitempty"`
	SkillRatings        map[string]float64         `json:"skillRatings,omitempty"`
	PersonalPreferences string                     `json:"personalPreferences,omitempty"`
	CareerGuidance      string                     `json:"careerGuidance,omitempty"`
	LearningResources   []profile.LearningResource `json:"learningResources,omitempty"`
	AssessmentCompleted bool                       `json:"assessmentCompleted"`
	CompletedAt         *time.Time                 `json:"completedAt,omitempty"`
}
