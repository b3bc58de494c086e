// Package identity verifies ID tokens issued by the identity provider
// (Firebase Authentication) against its published signing keys.
package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuerPrefix = "https://securetoken.google.com/"

// maxSubjectLen matches the provider's uid length limit
const maxSubjectLen = 128

var (
	ErrInvalidToken = errors.New("invalid identity token")
	// ErrKeysUnavailable means the signing keys could not be fetched; the token itself was not judged
	ErrKeysUnavailable = errors.New("identity signing keys unavailable")
)

// Claims are the verified fields of an ID token
type Claims struct {
	UID       string
	Email     string
	Name      string
	Picture   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	AuthTime  time.Time
}

// KeyProvider resolves a signing key by key id
type KeyProvider interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	AuthTime int64  `json:"auth_time,omitempty"`
}

// Verifier checks RS256 ID tokens for one project
type Verifier struct {
	projectID string
	keys      KeyProvider
	now       func() time.Time
}

func NewVerifier(projectID string, keys KeyProvider) *Verifier {
	return &Verifier{
		projectID: projectID,
		keys:      keys,
		now:       time.Now,
	}
}

// Verify validates signature, issuer, audience, expiry, issued-at, subject and
// auth_time. Every rejection wraps ErrInvalidToken. Key fetch failures wrap
// ErrKeysUnavailable instead.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(raw, &tc,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("missing kid header")
			}
			return v.keys.Key(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, ErrKeysUnavailable) {
			return nil, fmt.Errorf("verify identity token: %w", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if tc.Subject == "" || len(tc.Subject) > maxSubjectLen {
		return nil, fmt.Errorf("%w: subject must be a non-empty string of at most %d characters", ErrInvalidToken, maxSubjectLen)
	}
	if tc.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrInvalidToken)
	}
	if tc.AuthTime == 0 {
		return nil, fmt.Errorf("%w: missing auth_time", ErrInvalidToken)
	}
	authTime := time.Unix(tc.AuthTime, 0)
	if authTime.After(v.now()) {
		return nil, fmt.Errorf("%w: auth_time is in the future", ErrInvalidToken)
	}

	return &Claims{
		UID:       tc.Subject,
		Email:     tc.Email,
		Name:      tc.Name,
		Picture:   tc.Picture,
		IssuedAt:  tc.IssuedAt.Time,
		ExpiresAt: tc.ExpiresAt.Time,
		AuthTime:  authTime,
	}, nil
}
