package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
	"github.com/careercompass/backend/internal/services"
)

// GuidanceHandler serves generated career guidance
type GuidanceHandler struct {
	guidance *services.GuidanceService
	logger   *logger.Logger
}

// NewGuidanceHandler creates a new guidance handler
func NewGuidanceHandler(guidance *services.GuidanceService, log *logger.Logger) *GuidanceHandler {
	return &GuidanceHandler{
		guidance: guidance,
		logger:   log,
	}
}

// Get returns stored guidance for a user. Guidance still being
// generated answers 202 so the kiosk can poll.
// @Summary Get career guidance
// @Tags Guidance
// @Produce json
// @Param userId path string true "Profile id or email"
// @Success 200 {object} services.GuidanceResult "Guidance"
// @Success 202 {object} services.GuidanceResult "Still processing"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Failure 404 {object} utils.ErrorResponse "No matching profile"
// @Router /career-guidance/{userId} [get]
func (h *GuidanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	ref := chi.URLParam(r, "userID")
	if ref == "" {
		ref = principal.Email
	}

	result, err := h.guidance.Get(r.Context(), ref)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == services.GuidanceProcessing {
		status = http.StatusAccepted
	}
	utils.WriteSuccess(w, status, result)
}

// Generate produces guidance from the caller's assessment
// @Summary Generate career guidance
// @Tags Guidance
// @Produce json
// @Success 200 {object} services.GuidanceResult "Guidance"
// @Success 202 {object} services.GuidanceResult "Generation did not finish; retry later"
// @Failure 400 {object} utils.ErrorResponse "Assessment not completed"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /career-guidance [post]
func (h *GuidanceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	result, err := h.guidance.Generate(r.Context(), principal.Email)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == services.GuidanceProcessing {
		status = http.StatusAccepted
	}
	utils.WriteSuccess(w, status, result)
}
