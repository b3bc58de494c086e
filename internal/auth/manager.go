package auth

import (
	"fmt"
	"time"

	"github.com/redmonkez12/plantopia/internal/identity"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/session"
)

// DefaultSessionDuration is the lifetime of a session credential
const DefaultSessionDuration = 5 * 24 * time.Hour

// Session is a freshly minted credential and the cookie snapshot issued with it
type Session struct {
	Token  string
	Claims *session.Claims
	Hint   session.ProfileHint
	MaxAge time.Duration
}

// SessionManager issues and validates session credentials
type SessionManager struct {
	tokens   TokenService
	duration time.Duration
	now      func() time.Time
}

func NewSessionManager(tokens TokenService, duration time.Duration) *SessionManager {
	if duration <= 0 {
		duration = DefaultSessionDuration
	}
	return &SessionManager{
		tokens:   tokens,
		duration: duration,
		now:      time.Now,
	}
}

// Issue mints a session for a verified identity. The hint is taken from the
// stored profile so a returning user keeps their onboarding state.
func (m *SessionManager) Issue(id *identity.Claims, p *profile.Profile) (*Session, error) {
	if id == nil || id.UID == "" {
		return nil, fmt.Errorf("issue session: %w", ErrInvalidSession)
	}

	// Token timestamps have second precision
	now := m.now().Truncate(time.Second)
	claims := &session.Claims{
		UID:       id.UID,
		Email:     id.Email,
		Name:      id.Name,
		Picture:   id.Picture,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.duration),
	}

	token, err := m.tokens.CreateToken(claims)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	hint := session.ProfileHint{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.Name,
		PhotoURL:    id.Picture,
	}
	if p != nil {
		hint = p.Hint()
	}

	return &Session{
		Token:  token,
		Claims: claims,
		Hint:   hint,
		MaxAge: m.duration,
	}, nil
}

// Validate checks the token's signature and validity window at the current time
func (m *SessionManager) Validate(token string) (*session.Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidSession)
	}
	return m.tokens.VerifyToken(token, m.now())
}
