package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHintRoundTrip(t *testing.T) {
	hint := ProfileHint{
		UID:                 "uid-1",
		Email:               "fern@example.com",
		DisplayName:         "Fern O'Leary; Jr.",
		PhotoURL:            "https://example.com/a.png?size=96",
		CompletedOnboarding: true,
	}

	encoded, err := EncodeProfileHint(hint)
	require.NoError(t, err)
	assert.NotContains(t, encoded, ";")
	assert.NotContains(t, encoded, "\"")

	decoded, err := DecodeProfileHint(encoded)
	require.NoError(t, err)
	assert.Equal(t, hint, *decoded)
}

func TestDecodeProfileHint(t *testing.T) {
	_, err := DecodeProfileHint("")
	assert.ErrorIs(t, err, ErrNoProfileHint)

	_, err = DecodeProfileHint("not-json")
	assert.Error(t, err)

	hint, err := DecodeProfileHint(`{"uid":"u","completedOnboarding":false}`)
	require.NoError(t, err)
	assert.Equal(t, "u", hint.UID)
	assert.False(t, hint.CompletedOnboarding)
}

func TestCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	cookies := NewCookies(true)

	cookies.SetSession(rec, "signed.token.value", 5*24*time.Hour)
	require.NoError(t, cookies.SetProfileHint(rec, ProfileHint{UID: "u"}, 5*24*time.Hour))

	result := rec.Result().Cookies()
	require.Len(t, result, 2)
	for _, c := range result {
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, 432000, c.MaxAge)
	}
	assert.Equal(t, SessionCookie, result[0].Name)
	assert.Equal(t, "signed.token.value", result[0].Value)
	assert.Equal(t, ProfileCookie, result[1].Name)
}

func TestCookiesNotSecureInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookies(false).SetSession(rec, "t", time.Hour)
	assert.False(t, rec.Result().Cookies()[0].Secure)
}

func TestClearCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookies(false).Clear(rec)

	result := rec.Result().Cookies()
	require.Len(t, result, 2)
	for _, c := range result {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestReadCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.Empty(t, TokenFromCookie(req))
	assert.Empty(t, RawProfileHint(req))

	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: "hint"})
	assert.Equal(t, "tok", TokenFromCookie(req))
	assert.Equal(t, "hint", RawProfileHint(req))
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()
	_, ok := ClaimsFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, UserIDFromContext(ctx))

	ctx = WithClaims(ctx, &Claims{UID: "u1"})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "u1", UserIDFromContext(ctx))
}
