package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/metrics"
)

// Guidance result statuses
const (
	GuidanceReady      = "ready"
	GuidanceProcessing = "processing"
)

const guidanceSystemPrompt = "You are a career counselor. Given a personality " +
	"type, skill self-ratings and personal preferences, produce practical " +
	"career guidance: three to five suitable career paths, why they fit, and " +
	"concrete first steps for each. Write in plain prose without markdown."

// GuidanceResult is the response shape for guidance reads and generation.
type GuidanceResult struct {
	MBTIType          string                     `json:"mbti_type,omitempty"`
	CareerGuidance    string                     `json:"career_guidance,omitempty"`
	LearningResources []profile.LearningResource `json:"learning_resources,omitempty"`
	Status            string                     `json:"status"`
}

// GuidanceService generates and serves per-profile career guidance.
type GuidanceService struct {
	repo    profile.Repository
	chat    ChatProvider
	logger  *logger.Logger
	timeout time.Duration
}

// NewGuidanceService creates a new guidance service
func NewGuidanceService(repo profile.Repository, chat ChatProvider, log *logger.Logger, timeout time.Duration) *GuidanceService {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &GuidanceService{
		repo:    repo,
		chat:    chat,
		logger:  log,
		timeout: timeout,
	}
}

// Get returns stored guidance for a profile. The ref may be an email or
// a profile id. A completed assessment without stored guidance reports
// processing so clients can poll.
func (s *GuidanceService) Get(ctx context.Context, ref string) (*GuidanceResult, error) {
	p, err := s.find(ctx, ref)
	if err != nil {
		return nil, err
	}

	if p.CareerGuidance != "" {
		return &GuidanceResult{
			MBTIType:          p.MBTIType,
			CareerGuidance:    p.CareerGuidance,
			LearningResources: p.LearningResources,
			Status:            GuidanceReady,
		}, nil
	}
	if p.AssessmentCompleted {
		return &GuidanceResult{MBTIType: p.MBTIType, Status: GuidanceProcessing}, nil
	}
	return nil, errors.NotFound("Career guidance")
}

func (s *GuidanceService) find(ctx context.Context, ref string) (*profile.Profile, error) {
	if strings.Contains(ref, "@") {
		return s.repo.FindByEmail(ctx, ref)
	}
	return s.repo.FindByID(ctx, ref)
}

// Generate produces guidance from the profile's assessment and persists
// it. A generation failure is soft: the caller gets a processing result
// and may retry, while the assessment data stays untouched.
func (s *GuidanceService) Generate(ctx context.Context, email string) (*GuidanceResult, error) {
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p.MBTIType == "" {
		return nil, errors.BadRequest("Assessment must be completed first")
	}

	start := time.Now()
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	guidance, err := s.chat.Complete(genCtx, guidanceSystemPrompt, buildGuidancePrompt(p))
	metrics.RecordGuidanceGeneration(time.Since(start))
	if err != nil {
		s.logger.ErrorWithErr(err, "Guidance generation failed")
		return &GuidanceResult{MBTIType: p.MBTIType, Status: GuidanceProcessing}, nil
	}

	resources := DefaultResources(p.MBTIType)
	update := profile.Update{
		CareerGuidance:    &guidance,
		LearningResources: resources,
	}
	if _, err := s.repo.Upsert(ctx, email, update, false); err != nil {
		s.logger.ErrorWithErr(err, "Failed to persist guidance")
		return &GuidanceResult{MBTIType: p.MBTIType, Status: GuidanceProcessing}, nil
	}

	return &GuidanceResult{
		MBTIType:          p.MBTIType,
		CareerGuidance:    guidance,
		LearningResources: resources,
		Status:            GuidanceReady,
	}, nil
}

func buildGuidancePrompt(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Personality type: %s\n", p.MBTIType)

	if len(p.SkillRatings) > 0 {
		skills := make([]string, 0, len(p.SkillRatings))
		for skill := range p.SkillRatings {
			skills = append(skills, skill)
		}
		sort.Strings(skills)
		b.WriteString("Skill self-ratings (0-10):\n")
		for _, skill := range skills {
			fmt.Fprintf(&b, "- %s: %.0f\n", skill, p.SkillRatings[skill])
		}
	}

	if p.PersonalPreferences != "" {
		fmt.Fprintf(&b, "Personal preferences: %s\n", p.PersonalPreferences)
	}

	return b.String()
}

// DefaultResources returns the starter learning resources for a type
// code, grouped by temperament.
func DefaultResources(mbtiType string) []profile.LearningResource {
	group := "general"
	if len(mbtiType) == 4 {
		switch {
		case mbtiType[1] == 'N' && mbtiType[2] == 'T':
			group = "analyst"
		case mbtiType[1] == 'N' && mbtiType[2] == 'F':
			group = "diplomat"
		case mbtiType[1] == 'S' && mbtiType[3] == 'J':
			group = "sentinel"
		case mbtiType[1] == 'S' && mbtiType[3] == 'P':
			group = "explorer"
		}
	}

	switch group {
	case "analyst":
		return []profile.LearningResource{
			{
				Title:       "CS50: Introduction to Computer Science",
				Link:        "https://cs50.harvard.edu/x/",
				Description: "Broad, rigorous introduction to computing and problem solving.",
				Category:    "Technology",
				Difficulty:  "Beginner",
				Platform:    "edX",
				Duration:    "12 weeks",
			},
			{
				Title:       "Data Analysis with Python",
				Link:        "https://www.freecodecamp.org/learn/data-analysis-with-python/",
				Description: "Hands-on analysis workflows with pandas and numpy.",
				Category:    "Data",
				Difficulty:  "Intermediate",
				Platform:    "freeCodeCamp",
				Duration:    "300 hours",
			},
		}
	case "diplomat":
		return []profile.LearningResource{
			{
				Title:       "Introduction to Psychology",
				Link:        "https://www.coursera.org/learn/introduction-psychology",
				Description: "Foundations of human behavior and motivation.",
				Category:    "Social Science",
				Difficulty:  "Beginner",
				Platform:    "Coursera",
				Duration:    "10 weeks",
			},
			{
				Title:       "Successful Negotiation",
				Link:        "https://www.coursera.org/learn/negotiation-skills",
				Description: "Practical strategies for communication and persuasion.",
				Category:    "Communication",
				Difficulty:  "Beginner",
				Platform:    "Coursera",
				Duration:    "7 weeks",
			},
		}
	case "sentinel":
		return []profile.LearningResource{
			{
				Title:       "Google Project Management Certificate",
				Link:        "https://www.coursera.org/professional-certificates/google-project-management",
				Description: "Structured project planning, tracking and delivery.",
				Category:    "Management",
				Difficulty:  "Beginner",
				Platform:    "Coursera",
				Duration:    "6 months",
			},
			{
				Title:       "Financial Accounting Fundamentals",
				Link:        "https://www.coursera.org/learn/uva-darden-financial-accounting",
				Description: "Reading and producing the core financial statements.",
				Category:    "Finance",
				Difficulty:  "Beginner",
				Platform:    "Coursera",
				Duration:    "5 weeks",
			},
		}
	case "explorer":
		return []profile.LearningResource{
			{
				Title:       "Graphic Design Specialization",
				Link:        "https://www.coursera.org/specializations/graphic-design",
				Description: "Visual communication from fundamentals to portfolio work.",
				Category:    "Design",
				Difficulty:  "Beginner",
				Platform:    "Coursera",
				Duration:    "6 months",
			},
			{
				Title:       "The Complete Digital Marketing Course",
				Link:        "https://www.udemy.com/course/learn-digital-marketing-course/",
				Description: "Campaigns, analytics and channel strategy end to end.",
				Category:    "Marketing",
				Difficulty:  "Beginner",
				Platform:    "Udemy",
				Duration:    "22 hours",
			},
		}
	default:
		return []profile.LearningResource{
			{
				Title:       "Learning How to Learn",
				Link:        "https://www.coursera.org/learn/learning-how-to-learn",
				Description: "Evidence-based techniques for mastering new material.",
				Category:    "Learning",
				Difficulty:  "Beginner",
				Platform:    "Coursera",
				Duration:    "4 weeks",
			},
		}
	}
}
