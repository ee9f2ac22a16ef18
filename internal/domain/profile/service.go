package profile

import (
	"context"
	"time"
)

// Service defines profile business operations consumed by the HTTP layer
type Service interface {
	// Get retrieves a profile by email
	Get(ctx context.Context, email string) (*Profile, error)

	// GetByID retrieves a profile by document id
	GetByID(ctx context.Context, id string) (*Profile, error)

	// Ensure creates a profile for email on first sign-in if none exists
	Ensure(ctx context.Context, email, name, image string) (*Profile, error)

	// Register creates a credentials-based profile
	Register(ctx context.Context, email, password, name string) (*Profile, error)

	// Authenticate verifies credentials and returns the matching profile
	Authenticate(ctx context.Context, email, password string) (*Profile, error)

	// UpdateProfile applies a partial update to the caller's own profile
	UpdateProfile(ctx context.Context, email string, update Update) (*Profile, error)

	// SaveAssessment applies a partial assessment update; an empty update
	// set is rejected before any write
	SaveAssessment(ctx context.Context, email string, update Update) (*Profile, error)

	// CompleteAssessment marks the assessment finished
	CompleteAssessment(ctx context.Context, email string, completed bool, completedAt *time.Time) (*Profile, error)

	// SavePreferences stores personal preferences, creating the profile if absent
	SavePreferences(ctx context.Context, email, preferences string, completed bool) (*Profile, error)
}
