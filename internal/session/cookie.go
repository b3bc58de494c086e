package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Cookie names shared with the browser application
const (
	SessionCookie = "session"
	ProfileCookie = "userProfile"
)

var ErrNoProfileHint = errors.New("profile hint cookie not present")

// Cookies writes the session and profile hint cookies with identical attributes:
// HttpOnly, SameSite=Lax, Path=/, Secure outside development.
type Cookies struct {
	secure bool
}

func NewCookies(isProduction bool) *Cookies {
	return &Cookies{secure: isProduction}
}

// SetSession writes the signed session credential
func (c *Cookies) SetSession(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, c.cookie(SessionCookie, token, maxAge))
}

// SetProfileHint writes the profile hint as URL-escaped JSON
func (c *Cookies) SetProfileHint(w http.ResponseWriter, hint ProfileHint, maxAge time.Duration) error {
	value, err := EncodeProfileHint(hint)
	if err != nil {
		return err
	}
	http.SetCookie(w, c.cookie(ProfileCookie, value, maxAge))
	return nil
}

// Clear expires both cookies
func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{SessionCookie, ProfileCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (c *Cookies) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromCookie returns the raw session cookie value, or "" if absent
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RawProfileHint returns the raw profile hint cookie value, or "" if absent
func RawProfileHint(r *http.Request) string {
	cookie, err := r.Cookie(ProfileCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// EncodeProfileHint serializes a hint into a cookie-safe string
func EncodeProfileHint(hint ProfileHint) (string, error) {
	raw, err := json.Marshal(hint)
	if err != nil {
		return "", fmt.Errorf("marshal profile hint: %w", err)
	}
	return url.QueryEscape(string(raw)), nil
}

// DecodeProfileHint parses a cookie value written by EncodeProfileHint.
// Unescaped JSON is accepted as well.
func DecodeProfileHint(value string) (*ProfileHint, error) {
	if value == "" {
		return nil, ErrNoProfileHint
	}

	raw, err := url.QueryUnescape(value)
	if err != nil {
		raw = value
	}

	var hint ProfileHint
	if err := json.Unmarshal([]byte(raw), &hint); err != nil {
		return nil, fmt.Errorf("decode profile hint: %w", err)
	}
	return &hint, nil
}
