package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/redmonkez12/plantopia/internal/session"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
}

func NewPasetoService(symmetricKey []byte) (*PasetoService, error) {
	if len(symmetricKey) != sessionKeyLen {
		return nil, fmt.Errorf("symmetric key must be exactly %d bytes, got %d", sessionKeyLen, len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
	}, nil
}

// CreateToken encrypts the claims into a v4.local token
func (s *PasetoService) CreateToken(claims *session.Claims) (string, error) {
	token := paseto.NewToken()
	token.SetIssuer(sessionIssuer)
	token.SetSubject(claims.UID)
	token.SetIssuedAt(claims.IssuedAt)
	token.SetExpiration(claims.ExpiresAt)
	token.SetString("email", claims.Email)
	token.SetString("name", claims.Name)
	token.SetString("picture", claims.Picture)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken decrypts a v4.local token and checks its validity window against now
func (s *PasetoService) VerifyToken(tokenStr string, now time.Time) (*session.Claims, error) {
	// Expiry is checked below against the injected time, not the wall clock
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.IssuedBy(sessionIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	uid, err := token.GetSubject()
	if err != nil || uid == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("%w: missing iat", ErrInvalidSession)
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidSession)
	}

	if now.Before(issuedAt) {
		return nil, fmt.Errorf("%w: session used before issued", ErrInvalidSession)
	}
	if !now.Before(expiresAt) {
		return nil, ErrExpiredSession
	}

	// Optional profile fields; a missing claim reads as empty
	email, _ := token.GetString("email")
	name, _ := token.GetString("name")
	picture, _ := token.GetString("picture")

	return &session.Claims{
		UID:       uid,
		Email:     email,
		Name:      name,
		Picture:   picture,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
