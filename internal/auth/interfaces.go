package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redmonkez12/plantopia/internal/identity"
	"github.com/redmonkez12/plantopia/internal/session"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = fmt.Errorf("%w: session has expired", ErrInvalidSession)
	ErrMissingIDToken = errors.New("id token is required")
)

// TokenService defines the interface for session token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(claims *session.Claims) (string, error)
	// VerifyToken accepts the token for now in [iat, exp)
	VerifyToken(token string, now time.Time) (*session.Claims, error)
}

// SessionValidator checks a session token against the current time
type SessionValidator interface {
	Validate(token string) (*session.Claims, error)
}

// IdentityVerifier validates provider ID tokens
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*identity.Claims, error)
}
