package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/auth"
	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
)

const (
	oauthStateCookie    = "oauthState"
	oauthCallbackCookie = "oauthCallback"
	userinfoEndpoint    = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuthHandler handles identity-provider sign-in
type OAuthHandler struct {
	profiles profile.Service
	config   *config.Config
	logger   *logger.Logger
	google   *oauth2.Config
}

// NewOAuthHandler creates a new OAuth handler. Google sign-in is disabled
// when no client id is configured.
func NewOAuthHandler(profiles profile.Service, cfg *config.Config, log *logger.Logger) *OAuthHandler {
	h := &OAuthHandler{
		profiles: profiles,
		config:   cfg,
		logger:   log,
	}
	if cfg.OAuth.Google.ClientID != "" {
		h.google = &oauth2.Config{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

// GoogleSignIn redirects the visitor to the Google consent screen
// @Summary Google sign-in
// @Tags Auth
// @Success 302 "Redirect to provider"
// @Router /auth/signin/google [get]
func (h *OAuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		utils.WriteError(w, errors.New(errors.ErrCodeInternal, "Google sign-in is not configured", http.StatusServiceUnavailable))
		return
	}

	state := randomState()
	secure := h.config.Server.Environment == "production"
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   300,
	})
	if cb := r.URL.Query().Get("callbackUrl"); cb != "" && strings.HasPrefix(cb, "/") {
		http.SetCookie(w, &http.Cookie{
			Name:     oauthCallbackCookie,
			Value:    cb,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
			MaxAge:   300,
		})
	}

	http.Redirect(w, r, h.google.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleCallback completes the Google sign-in flow
// @Summary Google sign-in callback
// @Tags Auth
// @Success 302 "Redirect to frontend"
// @Failure 400 {object} utils.ErrorResponse "State or code mismatch"
// @Router /auth/callback/google [get]
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		utils.WriteError(w, errors.New(errors.ErrCodeInternal, "Google sign-in is not configured", http.StatusServiceUnavailable))
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		utils.WriteError(w, errors.BadRequest("OAuth state mismatch"))
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteError(w, errors.BadRequest("Missing authorization code"))
		return
	}

	token, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.ErrorWithErr(err, "OAuth code exchange failed")
		utils.WriteError(w, errors.Unauthorized("Sign-in failed"))
		return
	}

	info, err := h.fetchUserinfo(r, token)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to fetch user info")
		utils.WriteError(w, errors.Unauthorized("Sign-in failed"))
		return
	}

	// Profile creation is best effort. A store outage must not lock the
	// visitor out; the profile is created on their next write instead.
	principal := auth.Principal{Email: info.Email, Name: info.Name}
	if p, perr := h.profiles.Ensure(r.Context(), info.Email, info.Name, info.Picture); perr == nil {
		principal.ID = p.ID.Hex()
	} else {
		h.logger.ErrorWithErr(perr, "Profile ensure failed during sign-in")
	}

	tokens, err := auth.MintTokens(
		principal,
		h.config.Auth.SessionSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
	if err != nil {
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
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	target := h.config.Server.FrontendURL
	if cb, cerr := r.Cookie(oauthCallbackCookie); cerr == nil && strings.HasPrefix(cb.Value, "/") {
		if u, uerr := url.Parse(h.config.Server.FrontendURL); uerr == nil {
			u.Path = cb.Value
			target = u.String()
		}
		http.SetCookie(w, &http.Cookie{Name: oauthCallbackCookie, Value: "", Path: "/", MaxAge: -1})
	}

	http.Redirect(w, r, target, http.StatusFound)
}

type googleUserinfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *OAuthHandler) fetchUserinfo(r *http.Request, token *oauth2.Token) (*googleUserinfo, error) {
	client := h.google.Client(r.Context(), token)
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, errors.Unauthorized("Provider returned no email")
	}
	return &info, nil
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
