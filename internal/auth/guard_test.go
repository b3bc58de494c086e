package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/plantopia/internal/session"
)

// fakeValidator accepts the token "valid" for uid "u1"
type fakeValidator struct{}

func (fakeValidator) Validate(token string) (*session.Claims, error) {
	if token == "valid" {
		return &session.Claims{UID: "u1"}, nil
	}
	return nil, ErrInvalidSession
}

func hint(t *testing.T, uid string, onboarded bool) string {
	t.Helper()
	value, err := session.EncodeProfileHint(session.ProfileHint{UID: uid, CompletedOnboarding: onboarded})
	require.NoError(t, err)
	return value
}

func TestGuardDecide(t *testing.T) {
	g := NewGuard(fakeValidator{})

	tests := []struct {
		name     string
		req      GuardRequest
		action   Action
		location string
		clear    bool
	}{
		{name: "home is public", req: GuardRequest{Path: "/"}, action: Allow},
		{name: "api login is public", req: GuardRequest{Path: "/api/auth/login"}, action: Allow},
		{name: "unmatched path passes", req: GuardRequest{Path: "/about"}, action: Allow},
		{name: "prefix lookalike passes", req: GuardRequest{Path: "/plantsfoo"}, action: Allow},
		{name: "login without session", req: GuardRequest{Path: "/login"}, action: Allow},
		{name: "login with invalid session", req: GuardRequest{Path: "/login", SessionToken: "bad"}, action: Allow},
		{name: "login with valid session", req: GuardRequest{Path: "/login", SessionToken: "valid"}, action: Redirect, location: "/dashboard"},
		{name: "invalid session clears cookies", req: GuardRequest{Path: "/dashboard", SessionToken: "bad"}, action: Redirect, location: "/login", clear: true},
		{name: "missing hint", req: GuardRequest{Path: "/dashboard", SessionToken: "valid"}, action: Redirect, location: "/onboarding"},
		{name: "undecodable hint", req: GuardRequest{Path: "/plants", SessionToken: "valid", ProfileHint: "%%%"}, action: Redirect, location: "/onboarding"},
		{name: "not onboarded", req: GuardRequest{Path: "/plants/add", SessionToken: "valid", ProfileHint: hint(t, "u1", false)}, action: Redirect, location: "/onboarding"},
		{name: "hint for another user", req: GuardRequest{Path: "/dashboard", SessionToken: "valid", ProfileHint: hint(t, "u2", true)}, action: Redirect, location: "/onboarding"},
		{name: "not onboarded on onboarding", req: GuardRequest{Path: "/onboarding", SessionToken: "valid", ProfileHint: hint(t, "u1", false)}, action: Allow},
		{name: "no hint on onboarding", req: GuardRequest{Path: "/onboarding", SessionToken: "valid"}, action: Allow},
		{name: "onboarded on onboarding", req: GuardRequest{Path: "/onboarding/step-2", SessionToken: "valid", ProfileHint: hint(t, "u1", true)}, action: Redirect, location: "/dashboard"},
		{name: "onboarded on dashboard", req: GuardRequest{Path: "/dashboard", SessionToken: "valid", ProfileHint: hint(t, "u1", true)}, action: Allow},
		{name: "onboarded on edit", req: GuardRequest{Path: "/plants/edit/p1", SessionToken: "valid", ProfileHint: hint(t, "u1", true)}, action: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Decide(tt.req)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.location, d.Location)
			assert.Equal(t, tt.clear, d.ClearCookies)
		})
	}
}

func TestGuardRedirectsToLoginWithFrom(t *testing.T) {
	g := NewGuard(fakeValidator{})

	d := g.Decide(GuardRequest{Path: "/plants/edit/p1", RawQuery: "tab=water&x=1"})
	require.Equal(t, Redirect, d.Action)

	u, err := url.Parse(d.Location)
	require.NoError(t, err)
	assert.Equal(t, "/login", u.Path)
	assert.Equal(t, "/plants/edit/p1?tab=water&x=1", u.Query().Get("from"))

	d = g.Decide(GuardRequest{Path: "/dashboard"})
	u, err = url.Parse(d.Location)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", u.Query().Get("from"))
}

func TestGuardMiddleware(t *testing.T) {
	g := NewGuard(fakeValidator{})
	cookies := session.NewCookies(false)

	var seenUID string
	handler := g.Middleware(cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUID = session.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("allowed request carries claims", func(t *testing.T) {
		seenUID = ""
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: "valid"})
		req.AddCookie(&http.Cookie{Name: session.ProfileCookie, Value: hint(t, "u1", true)})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", seenUID)
	})

	t.Run("redirect uses 307", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plants", nil))

		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/login?from=")
	})

	t.Run("invalid session clears cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: "forged"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		cleared := rec.Result().Cookies()
		require.Len(t, cleared, 2)
		for _, c := range cleared {
			assert.Equal(t, -1, c.MaxAge)
		}
	})

	t.Run("public path untouched", func(t *testing.T) {
		seenUID = "unset"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, seenUID)
	})
}

func TestRequireSession(t *testing.T) {
	mw := NewMiddleware(fakeValidator{})
	handler := mw.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(session.UserIDFromContext(r.Context())))
	}))

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"bad header", func(r *http.Request) { r.Header.Set("Authorization", "Token valid") }, http.StatusUnauthorized},
		{"invalid bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"valid bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer valid") }, http.StatusOK},
		{"valid cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: "valid"}) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "u1", rec.Body.String())
			}
		})
	}
}
