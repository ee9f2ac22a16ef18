package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/careercompass/backend/internal/api/dto"
	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
	"github.com/careercompass/backend/internal/pkg/validator"
	"github.com/careercompass/backend/internal/services"
)

// AssessmentHandler handles assessment writes and results reads
type AssessmentHandler struct {
	profiles      profile.Service
	guidance      *services.GuidanceService
	submitTimeout time.Duration
	logger        *logger.Logger
	validator     *validator.Validator
}

// NewAssessmentHandler creates a new assessment handler. Guidance
// generation triggered by a submission is bounded by submitTimeout.
func NewAssessmentHandler(profiles profile.Service, guidance *services.GuidanceService, submitTimeout time.Duration, log *logger.Logger, val *validator.Validator) *AssessmentHandler {
	if submitTimeout == 0 {
		submitTimeout = 10 * time.Second
	}
	return &AssessmentHandler{
		profiles:      profiles,
		guidance:      guidance,
		submitTimeout: submitTimeout,
		logger:        log,
		validator:     val,
	}
}

// Save merges assessment fields into the caller's profile
// @Summary Save assessment data
// @Description Field-merging write; only the fields present are changed
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body dto.SaveAssessmentRequest true "Assessment fields"
// @Success 200 {object} dto.ProfileDTO "Updated profile"
// @Failure 400 {object} utils.ErrorResponse "Empty update or empty mappings"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /user/assessment [post]
func (h *AssessmentHandler) Save(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	var req dto.SaveAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.profiles.SaveAssessment(r.Context(), principal.Email, req.ToUpdate())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.maybeGenerateGuidance(r.Context(), p)

	utils.WriteSuccess(w, http.StatusOK, dto.FromProfile(p))
}

// maybeGenerateGuidance kicks off guidance generation once a submission
// completes the assessment, so results are ready by the time the
// visitor opens the guidance page. The call is bounded by the submit
// timeout and soft-fails; a slow provider never blocks the submission.
func (h *AssessmentHandler) maybeGenerateGuidance(ctx context.Context, p *profile.Profile) {
	if h.guidance == nil || !p.AssessmentCompleted || p.MBTIType == "" || p.CareerGuidance != "" {
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, h.submitTimeout)
	defer cancel()

	if _, err := h.guidance.Generate(genCtx, p.Email); err != nil {
		h.logger.ErrorWithErr(err, "Guidance generation after submission failed")
	}
}

// Complete marks the caller's assessment finished
// @Summary Complete assessment
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body dto.CompleteAssessmentRequest true "Completion flag"
// @Success 200 {object} dto.ProfileDTO "Updated profile"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /user/assessment/complete [post]
func (h *AssessmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	var req dto.CompleteAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	p, err := h.profiles.CompleteAssessment(r.Context(), principal.Email, req.AssessmentCompleted, req.CompletedAt)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.maybeGenerateGuidance(r.Context(), p)

	utils.WriteSuccess(w, http.StatusOK, dto.FromProfile(p))
}

// SavePreferences stores personal preferences
// @Summary Save personal preferences
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body dto.SavePreferencesRequest true "Preferences"
// @Success 200 {object} dto.ProfileDTO "Updated profile"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /user/preferences [post]
func (h *AssessmentHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	var req dto.SavePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.profiles.SavePreferences(r.Context(), principal.Email, req.PersonalPreferences, req.PreferencesCompleted)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromProfile(p))
}

// Results returns assessment results for an email. The email must match
// the session; reading another visitor's results is rejected.
// @Summary Get assessment results
// @Tags Assessment
// @Produce json
// @Param email query string true "Profile email"
// @Success 200 {object} dto.ResultsResponse "Results"
// @Failure 401 {object} utils.ErrorResponse "Email does not match session"
// @Failure 404 {object} utils.ErrorResponse "No profile"
// @Router /user-results [get]
func (h *AssessmentHandler) Results(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		email = principal.Email
	}
	if email != principal.Email {
		utils.WriteError(w, errors.Unauthorized("Results are only available for your own profile"))
		return
	}

	p, err := h.profiles.Get(r.Context(), email)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	resp := dto.ResultsResponse{
		Email:               p.Email,
		MBTIType:            p.MBTIType,
		SkillRatings:        p.SkillRatings,
		PersonalPreferences: p.PersonalPreferences,
		CareerGuidance:      p.CareerGuidance,
		LearningResources:   p.LearningResources,
		AssessmentCompleted: p.AssessmentCompleted,
		CompletedAt:         p.CompletedAt,
	}
	utils.WriteSuccess(w, http.StatusOK, resp)
}
