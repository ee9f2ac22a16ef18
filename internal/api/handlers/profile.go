package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/careercompass/backend/internal/api/dto"
	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
	"github.com/careercompass/backend/internal/pkg/validator"
)

// ProfileHandler handles profile reads and updates
type ProfileHandler struct {
	profiles  profile.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles profile.Service, log *logger.Logger, val *validator.Validator) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		logger:    log,
		validator: val,
	}
}

// Get returns the caller's profile
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Success 200 {object} dto.ProfileDTO "Profile"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Failure 404 {object} utils.ErrorResponse "No profile yet"
// @Router /user [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	p, err := h.profiles.Get(r.Context(), principal.Email)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromProfile(p))
}

// Update applies a partial update to the caller's profile
// @Summary Update own profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.ProfileDTO "Updated profile"
// @Failure 400 {object} utils.ErrorResponse "Empty or invalid update"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /user [put]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.profiles.UpdateProfile(r.Context(), principal.Email, req.ToUpdate())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromProfile(p))
}
