package auth

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const sessionKeyLen = 32

// DeriveSessionKey expands the configured secret into a 32-byte key bound to the
// token format, so switching formats never reuses key material.
func DeriveSessionKey(secret, format string) ([]byte, error) {
	if len(secret) < sessionKeyLen {
		return nil, fmt.Errorf("session secret must be at least %d bytes, got %d", sessionKeyLen, len(secret))
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("plantopia session key "+format))
	key := make([]byte, sessionKeyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

// Token formats accepted by NewTokenService
const (
	FormatJWT    = "jwt"
	FormatPaseto = "paseto"
)

// NewTokenService derives the signing key from secret and builds the
// service for format
func NewTokenService(format, secret string) (TokenService, error) {
	key, err := DeriveSessionKey(secret, format)
	if err != nil {
		return nil, err
	}

	var tokens TokenService
	switch format {
	case FormatJWT:
		tokens, err = NewJWTService(key)
	case FormatPaseto:
		tokens, err = NewPasetoService(key)
	default:
		return nil, fmt.Errorf("unknown session token format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
