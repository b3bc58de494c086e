package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/redmonkez12/plantopia/internal/session"
)

const (
	loginPath      = "/login"
	dashboardPath  = "/dashboard"
	onboardingPath = "/onboarding"
)

// guardedPrefixes are the page paths the guard evaluates; everything else passes through
var guardedPrefixes = []string{dashboardPath, onboardingPath, "/plants"}

// GuardRequest is the part of a navigation the guard looks at
type GuardRequest struct {
	Path         string
	RawQuery     string
	SessionToken string
	ProfileHint  string
}

type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision is the guard's verdict for one navigation
type Decision struct {
	Action       Action
	Location     string
	ClearCookies bool
	// Claims is set whenever the session validated
	Claims *session.Claims
}

// Guard decides page access from the session cookie and the profile hint cookie
type Guard struct {
	sessions SessionValidator
}

func NewGuard(sessions SessionValidator) *Guard {
	return &Guard{sessions: sessions}
}

// Decide has no side effects; the middleware applies its result
func (g *Guard) Decide(req GuardRequest) Decision {
	if req.Path == loginPath {
		if req.SessionToken != "" {
			if claims, err := g.sessions.Validate(req.SessionToken); err == nil {
				return Decision{Action: Redirect, Location: dashboardPath, Claims: claims}
			}
		}
		return Decision{Action: Allow}
	}

	if !isGuarded(req.Path) {
		return Decision{Action: Allow}
	}

	if req.SessionToken == "" {
		return Decision{Action: Redirect, Location: loginRedirect(req.Path, req.RawQuery)}
	}

	claims, err := g.sessions.Validate(req.SessionToken)
	if err != nil {
		return Decision{Action: Redirect, Location: loginPath, ClearCookies: true}
	}

	onboarded := false
	if hint, err := session.DecodeProfileHint(req.ProfileHint); err == nil {
		onboarded = hint.UID == claims.UID && hint.CompletedOnboarding
	}

	onOnboarding := hasPathPrefix(req.Path, onboardingPath)
	switch {
	case !onboarded && !onOnboarding:
		return Decision{Action: Redirect, Location: onboardingPath, Claims: claims}
	case onboarded && onOnboarding:
		return Decision{Action: Redirect, Location: dashboardPath, Claims: claims}
	}

	return Decision{Action: Allow, Claims: claims}
}

// Middleware applies Decide to every request. Allowed requests carry the
// validated claims in their context.
func (g *Guard) Middleware(cookies *session.Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Decide(GuardRequest{
				Path:         r.URL.Path,
				RawQuery:     r.URL.RawQuery,
				SessionToken: session.TokenFromCookie(r),
				ProfileHint:  session.RawProfileHint(r),
			})

			if d.ClearCookies {
				cookies.Clear(w)
			}
			if d.Action == Redirect {
				http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
				return
			}

			if d.Claims != nil {
				r = r.WithContext(session.WithClaims(r.Context(), d.Claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isGuarded(path string) bool {
	for _, prefix := range guardedPrefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches prefix itself and anything below it, but not /plantsfoo
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func loginRedirect(path, rawQuery string) string {
	from := path
	if rawQuery != "" {
		from += "?" + rawQuery
	}
	return loginPath + "?" + url.Values{"from": {from}}.Encode()
}
