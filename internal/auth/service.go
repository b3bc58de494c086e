package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/profile"
)

// Service handles sign-in business logic
type Service struct {
	verifier IdentityVerifier
	profiles *profile.Service
	sessions *SessionManager
	logger   *logging.Logger
}

func NewService(verifier IdentityVerifier, profiles *profile.Service, sessions *SessionManager, logger *logging.Logger) *Service {
	return &Service{
		verifier: verifier,
		profiles: profiles,
		sessions: sessions,
		logger:   logger.WithComponent("auth"),
	}
}

// Login exchanges a provider ID token for a session. The profile is created on first sign-in.
func (s *Service) Login(ctx context.Context, idToken string) (*Session, *profile.Profile, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, nil, ErrMissingIDToken
	}

	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.profiles.Ensure(ctx, profile.Seed{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}

	sess, err := s.sessions.Issue(claims, p)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user signed in", "uid", claims.UID, "onboarded", p.CompletedOnboarding)
	return sess, p, nil
}

// SessionUser returns the uid behind a session token, or "" when the token does not validate
func (s *Service) SessionUser(token string) string {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return ""
	}
	return claims.UID
}
