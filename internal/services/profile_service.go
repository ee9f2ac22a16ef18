package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/metrics"
)

// ProfileService implements profile.Service
type ProfileService struct {
	repo       profile.Repository
	logger     *logger.Logger
	bcryptCost int
}

// NewProfileService creates a new profile service
func NewProfileService(repo profile.Repository, log *logger.Logger, bcryptCost int) *ProfileService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &ProfileService{
		repo:       repo,
		logger:     log,
		bcryptCost: bcryptCost,
	}
}

// Get retrieves a profile by email
func (s *ProfileService) Get(ctx context.Context, email string) (*profile.Profile, error) {
	return s.repo.FindByEmail(ctx, email)
}

// GetByID retrieves a profile by document id
func (s *ProfileService) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	return s.repo.FindByID(ctx, id)
}

// Ensure creates a profile for email on first sign-in if none exists.
// Existing profiles are returned untouched except for name/image refresh.
func (s *ProfileService) Ensure(ctx context.Context, email, name, image string) (*profile.Profile, error) {
	if email == "" {
		return nil, errors.BadRequest("Email is required")
	}

	update := profile.Update{}
	if name != "" {
		update.Name = &name
	}
	if image != "" {
		update.Image = &image
	}

	p, err := s.repo.Upsert(ctx, email, update, true)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to ensure profile")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"email": email,
	}).Info("Profile ensured")

	return p, nil
}

// Register creates a credentials-based profile
func (s *ProfileService) Register(ctx context.Context, email, password, name string) (*profile.Profile, error) {
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	hashStr := string(hash)
	update := profile.Update{PasswordHash: &hashStr}
	if name != "" {
		update.Name = &name
	}

	p, err := s.repo.Upsert(ctx, email, update, true)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create profile")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"email": email,
	}).Info("Profile registered")

	return p, nil
}

// Authenticate verifies credentials and returns the matching profile
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*profile.Profile, error) {
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if p.PasswordHash == "" {
		// Provider-created profile without a password; credentials
		// sign-in is not available for it.
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	return p, nil
}

// UpdateProfile applies a partial update to the caller's own profile
func (s *ProfileService) UpdateProfile(ctx context.Context, email string, update profile.Update) (*profile.Profile, error) {
	if update.IsEmpty() {
		return nil, errors.BadRequest("No fields to update")
	}
	return s.repo.Upsert(ctx, email, update, false)
}

// SaveAssessment applies a partial assessment update. Empty update sets
// and empty mappings are rejected before any write reaches the store.
func (s *ProfileService) SaveAssessment(ctx context.Context, email string, update profile.Update) (*profile.Profile, error) {
	if update.IsEmpty() {
		return nil, errors.BadRequest("No assessment fields provided")
	}
	if update.MBTIResponses != nil && len(update.MBTIResponses) == 0 {
		return nil, errors.BadRequest("mbtiResponses must not be empty")
	}
	if update.SkillRatings != nil && len(update.SkillRatings) == 0 {
		return nil, errors.BadRequest("skillRatings must not be empty")
	}

	// Derive the type code from raw responses when the client did not
	// send a precomputed result.
	if update.MBTIType == nil && update.MBTIResponses != nil {
		scores := AggregateMBTI(update.MBTIResponses)
		if scores.Dropped > 0 {
			s.logger.Debugf("Dropped %d unrecognized MBTI responses for %s", scores.Dropped, email)
		}
		derived := DeriveType(scores)
		update.MBTIType = &derived
	}

	p, err := s.repo.Upsert(ctx, email, update, true)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to save assessment")
		return nil, err
	}

	if update.AssessmentCompleted != nil && *update.AssessmentCompleted {
		metrics.RecordAssessmentCompleted()
	}

	return p, nil
}

// CompleteAssessment marks the assessment finished
func (s *ProfileService) CompleteAssessment(ctx context.Context, email string, completed bool, completedAt *time.Time) (*profile.Profile, error) {
	if completedAt == nil {
		now := time.Now().UTC()
		completedAt = &now
	}

	update := profile.Update{
		AssessmentCompleted: &completed,
		CompletedAt:         completedAt,
	}

	p, err := s.repo.Upsert(ctx, email, update, false)
	if err != nil {
		return nil, err
	}

	if completed {
		metrics.RecordAssessmentCompleted()
	}

	return p, nil
}

// SavePreferences stores personal preferences, creating the profile if absent
func (s *ProfileService) SavePreferences(ctx context.Context, email, preferences string, completed bool) (*profile.Profile, error) {
	update := profile.Update{
		PersonalPreferences:  &preferences,
		PreferencesCompleted: &completed,
	}
	return s.repo.Upsert(ctx, email, update, true)
}
