package client

import "time"

// dataEnvelope unwraps the {success, data} response shape.
type dataEnvelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// User is the identity inside auth responses
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// AuthResult is the response to sign-in and sign-up
type AuthResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// Session is the current session state
type Session struct {
	User *User `json:"user,omitempty"`
}

// Results is the assessment results payload
type Results struct {
	Email               string             `json:"email"`
	MBTIType            string             `json:"mbtiType,omitempty"`
	SkillRatings        map[string]float64 `json:"skillRatings,omitempty"`
	PersonalPreferences string             `json:"personalPreferences,omitempty"`
	CareerGuidance      string             `json:"careerGuidance,omitempty"`
	LearningResources   []LearningResource `json:"learningResources,omitempty"`
	AssessmentCompleted bool               `json:"assessmentCompleted"`
	CompletedAt         *time.Time         `json:"completedAt,omitempty"`
}

// Guidance is the career guidance payload
type Guidance struct {
	MBTIType          string             `json:"mbti_type,omitempty"`
	CareerGuidance    string             `json:"career_guidance,omitempty"`
	LearningResources []LearningResource `json:"learning_resources,omitempty"`
	Status            string             `json:"status"`
}

// LearningResource is one recommended learning item
type LearningResource struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Platform    string `json:"platform,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

// Health is the health probe response
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}
