package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/plantopia/internal/auth"
	"github.com/redmonkez12/plantopia/internal/config"
	"github.com/redmonkez12/plantopia/internal/geocode"
	"github.com/redmonkez12/plantopia/internal/identity"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/photo"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/session"
	"github.com/redmonkez12/plantopia/internal/storage/memory"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (*identity.Claims, error) {
	if token != "id-token" {
		return nil, fmt.Errorf("%w: unknown token", identity.ErrInvalidToken)
	}
	return &identity.Claims{UID: "u1", Email: "u1@example.com", Name: "Ivy"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNopLogger()
	backend := memory.New(logger)
	t.Cleanup(func() { backend.Close() })

	key, err := auth.DeriveSessionKey("an-example-session-secret-of-32+bytes", config.TokenFormatJWT)
	require.NoError(t, err)
	tokens, err := auth.NewJWTService(key)
	require.NoError(t, err)

	sessions := auth.NewSessionManager(tokens, time.Hour)
	cookies := session.NewCookies(false)
	profiles := profile.NewService(backend.Profiles(), logger)
	plants := plant.NewService(backend.Plants(), photo.Disabled{}, logger)

	cfg := &config.Config{Server: config.ServerConfig{Env: "prod", TrustedOrigins: []string{"http://localhost:3000"}}}
	return NewRouter(cfg, Handlers{
		Auth:    auth.NewHandler(auth.NewService(stubVerifier{}, profiles, sessions, logger), cookies),
		Profile: profile.NewHandler(profiles, cookies),
		Plant:   plant.NewHandler(plants, 1<<20),
		Geocode: geocode.NewHandler(geocode.NewClient("http://unused", "")),
		Pages:   NewPageHandler(profiles, plants),
		Streams: NewStreamDrainer(),
	}, Access{
		Guard:      auth.NewGuard(sessions),
		Middleware: auth.NewMiddleware(sessions),
		Cookies:    cookies,
	}, logger)
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func TestHealthAndHeaders(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t), cookies: map[string]*http.Cookie{}}

	rec := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = c.do(http.MethodGet, "/api/plants", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestGuardedPagesRedirectToLogin(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t), cookies: map[string]*http.Cookie{}}

	rec := c.do(http.MethodGet, "/plants/add", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login?from=%2Fplants%2Fadd", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/login?from=/plants/add", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "/plants/add", page["from"])
}

func TestSignInOnboardAndUseDashboard(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t), cookies: map[string]*http.Cookie{}}

	rec := c.do(http.MethodPost, "/api/auth/login", `{"idToken":"id-token"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, c.cookies, session.SessionCookie)
	require.Contains(t, c.cookies, session.ProfileCookie)

	// Not onboarded yet
	rec = c.do(http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/onboarding", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = c.do(http.MethodPost, "/api/onboarding", `{"location":"Lisbon, PT","experienceLevel":"beginner","preferredPlants":["herbs"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/onboarding", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = c.do(http.MethodPost, "/api/plants", `{"commonName":"Basil","wateringSchedule":{"frequencyDays":1,"lastWatered":"2020-01-01T00:00:00Z"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dash DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, "Lisbon, PT", dash.Profile.Location)
	assert.Equal(t, 1, dash.TotalPlants)
	assert.Equal(t, 1, dash.NeedsWaterCount)

	rec = c.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, c.cookies, session.SessionCookie)

	rec = c.do(http.MethodGet, "/api/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGeocodeDisabled(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t), cookies: map[string]*http.Cookie{}}
	c.do(http.MethodPost, "/api/auth/login", `{"idToken":"id-token"}`)

	rec := c.do(http.MethodGet, "/api/geocode/reverse?lat=1&lon=2", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSafeReturnPath(t *testing.T) {
	assert.Equal(t, "/plants?x=1", safeReturnPath("/plants?x=1"))
	assert.Equal(t, "/dashboard", safeReturnPath(""))
	assert.Equal(t, "/dashboard", safeReturnPath("https://evil.example"))
	assert.Equal(t, "/dashboard", safeReturnPath("//evil.example"))
}

func TestStreamDrainer(t *testing.T) {
	d := NewStreamDrainer()
	started := make(chan struct{})
	finished := make(chan struct{})

	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
		close(finished)
	}))

	go h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/plants/stream", nil))
	<-started
	d.Drain()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not drained")
	}
}
