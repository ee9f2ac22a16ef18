package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/utils"
)

// Decision is the route guard's verdict for a path and session state.
type Decision int

const (
	// DecisionAllow lets the request through unchanged.
	DecisionAllow Decision = iota
	// DecisionSignIn sends an unauthenticated visitor to the sign-in
	// page with the original path as callback.
	DecisionSignIn
	// DecisionHome sends an already signed-in visitor away from the
	// sign-in and sign-up pages.
	DecisionHome
)

// Path prefixes that require a session.
var protectedPrefixes = []string{
	"/profile",
	"/assessment",
	"/results",
	"/career-guidance",
	"/chat",
	"/subscription",
}

// Pages only meaningful without a session.
var authPages = []string{
	"/auth/signin",
	"/auth/signup",
}

// Decide computes the guard verdict for a path given whether the
// request carries a valid session. It is a pure function of its inputs.
func Decide(path string, authed bool) Decision {
	for _, p := range authPages {
		if path == p {
			if authed {
				return DecisionHome
			}
			return DecisionAllow
		}
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			if !authed {
				return DecisionSignIn
			}
			return DecisionAllow
		}
	}
	return DecisionAllow
}

// RouteGuard applies Decide to every request. API calls get a JSON 401;
// page navigations get a redirect carrying the original path so the
// sign-in flow can return the visitor where they started.
func RouteGuard(signInURL, homeURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, authed := GetPrincipal(r)

			switch Decide(r.URL.Path, authed) {
			case DecisionSignIn:
				if wantsJSON(r) {
					utils.WriteError(w, errors.Unauthorized("Authentication required"))
					return
				}
				target := signInURL + "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			case DecisionHome:
				http.Redirect(w, r, homeURL, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated API requests with a JSON 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipal(r); !ok {
			utils.WriteError(w, errors.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}
