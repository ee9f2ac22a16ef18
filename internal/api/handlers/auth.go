package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/careercompass/backend/internal/api/dto"
	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/auth"
	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
	"github.com/careercompass/backend/internal/pkg/validator"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	profiles  profile.Service
	config    *config.Config
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	profiles profile.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		profiles:  profiles,
		config:    cfg,
		logger:    log,
		validator: val,
	}
}

// SignIn handles credentials sign-in
// @Summary Credentials sign-in
// @Description Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse "Successfully authenticated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.profiles.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		utils.WriteAppError(w, err)
		return
	}

	h.issueSession(w, r, p)
}

// SignUp handles registration
// @Summary Register
// @Description Create a credentials-based profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse "Successfully registered"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.profiles.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.issueSessionWithStatus(w, r, p, http.StatusCreated)
}

// Session returns the current session
// @Summary Current session
// @Description Return the authenticated identity, or an empty object without one
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.SessionResponse "Session state"
// @Router /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteJSON(w, http.StatusOK, dto.SessionResponse{})
		return
	}

	resp := dto.SessionResponse{
		User: &dto.SessionUser{
			ID:    p.ID,
			Email: p.Email,
			Name:  p.Name,
		},
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// SignOut clears the session cookies
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Signed out"
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{middleware.SessionCookie, "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Path:     "/",
			MaxAge:   -1,
		})
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Signed out", nil)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse "New token pair"
// @Failure 401 {object} utils.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Fall back to the cookie when no body is sent.
		if cookie, cerr := r.Cookie("refreshToken"); cerr == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if req.RefreshToken == "" {
		utils.WriteError(w, errors.Unauthorized("Missing refresh token"))
		return
	}

	principal, ok := auth.Resolve(req.RefreshToken, h.config.Auth.SessionSecret)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Invalid or expired refresh token"))
		return
	}

	p, err := h.profiles.Get(r.Context(), principal.Email)
	if err != nil {
		utils.WriteError(w, errors.Unauthorized("Invalid or expired refresh token"))
		return
	}

	h.issueSession(w, r, p)
}

// issueSession mints tokens for the profile, sets cookies and writes the
// auth response.
func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, p *profile.Profile) {
	h.issueSessionWithStatus(w, r, p, http.StatusOK)
}

func (h *AuthHandler) issueSessionWithStatus(w http.ResponseWriter, r *http.Request, p *profile.Profile, status int) {
	principal := auth.Principal{
		ID:    p.ID.Hex(),
		Email: p.Email,
		Name:  p.Name,
	}

	tokens, err := auth.MintTokens(
		principal,
		h.config.Auth.SessionSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	secure := h.config.Server.Environment == "production"
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tokens.AccessToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.AccessTokenExpiry.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.RefreshTokenExpiry.Seconds()),
	})

	utils.WriteSuccess(w, status, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.FromProfile(p),
	})
}
