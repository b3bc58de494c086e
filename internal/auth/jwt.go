package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/redmonkez12/plantopia/internal/session"
)

const sessionIssuer = "plantopia"

type jwtClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// JWTService signs session tokens as compact HS256 JWS
type JWTService struct {
	key []byte
}

func NewJWTService(key []byte) (*JWTService, error) {
	if len(key) != sessionKeyLen {
		return nil, fmt.Errorf("signing key must be exactly %d bytes, got %d", sessionKeyLen, len(key))
	}
	return &JWTService{key: key}, nil
}

func (s *JWTService) CreateToken(claims *session.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   claims.UID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) VerifyToken(tokenStr string, now time.Time) (*session.Claims, error) {
	var c jwtClaims
	_, err := jwt.ParseWithClaims(tokenStr, &c,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if c.Subject == "" || c.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing subject or iat", ErrInvalidSession)
	}

	return &session.Claims{
		UID:       c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		Picture:   c.Picture,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
