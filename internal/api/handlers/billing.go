package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/careercompass/backend/internal/api/dto"
	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
	"github.com/careercompass/backend/internal/pkg/validator"
	"github.com/careercompass/backend/internal/services"
)

// BillingHandler handles subscription verification and portal access
type BillingHandler struct {
	billing   *services.BillingService
	config    *config.Config
	logger    *logger.Logger
	validator *validator.Validator
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing *services.BillingService, cfg *config.Config, log *logger.Logger, val *validator.Validator) *BillingHandler {
	return &BillingHandler{
		billing:   billing,
		config:    cfg,
		logger:    log,
		validator: val,
	}
}

// VerifyPayment reconciles a completed checkout session onto the
// caller's profile and returns the resulting plan.
// @Summary Verify checkout payment
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.VerifyPaymentRequest true "Checkout session id"
// @Success 200 {object} dto.VerifyPaymentResponse "Reconciled subscription"
// @Failure 400 {object} utils.ErrorResponse "Unknown session id"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /verify-payment [post]
func (h *BillingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	snapshot, err := h.billing.Reconcile(r.Context(), principal.Email, req.SessionID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.VerifyPaymentResponse{
		Plan:   snapshot.Plan,
		Status: snapshot.Status,
	})
}

// CreatePortalSession creates a billing self-service portal session
// @Summary Create billing portal session
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.PortalSessionRequest false "Customer id and return URL"
// @Success 200 {object} dto.PortalSessionResponse "Portal URL"
// @Failure 400 {object} utils.ErrorResponse "No billing account"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /create-portal-session [post]
func (h *BillingHandler) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	var req dto.PortalSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.ReturnURL == "" {
		req.ReturnURL = h.config.Server.FrontendURL + "/subscription"
	}

	url, err := h.billing.PortalURL(r.Context(), principal.Email, req.CustomerID, req.ReturnURL)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.PortalSessionResponse{URL: url})
}
