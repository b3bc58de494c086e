package profile

import (
	"context"
	"errors"
	"time"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/store"
)

// Service handles profile business logic
type Service struct {
	repo   Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.WithComponent("profile"),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Get returns the caller's profile or store.ErrNotFound
func (s *Service) Get(ctx context.Context, uid string) (*Profile, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}

	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, store.Failed("get profile", err)
	}
	return p, nil
}

// Ensure returns the existing profile or creates one from the identity seed
func (s *Service) Ensure(ctx context.Context, seed Seed) (*Profile, error) {
	if seed.UID == "" {
		return nil, store.ErrNotAuthenticated
	}

	p, err := s.repo.Get(ctx, seed.UID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, store.Failed("get profile", err)
	}

	now := s.now()
	p = &Profile{
		UID:         seed.UID,
		Email:       seed.Email,
		DisplayName: seed.DisplayName,
		PhotoURL:    seed.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		// A concurrent first login created it already
		if errors.Is(err, store.ErrAlreadyExists) {
			existing, getErr := s.repo.Get(ctx, seed.UID)
			if getErr != nil {
				return nil, store.Failed("get profile", getErr)
			}
			return existing, nil
		}
		return nil, store.Failed("create profile", err)
	}

	s.logger.Info("profile created", "uid", seed.UID)
	return p, nil
}

// Update validates and merges a patch, stamping updatedAt
func (s *Service) Update(ctx context.Context, uid string, patch Patch) (*Profile, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, uid, patch, s.now())
	if err != nil {
		return nil, store.Failed("update profile", err)
	}
	return p, nil
}

// CompleteOnboarding stores the onboarding answers and marks onboarding done
func (s *Service) CompleteOnboarding(ctx context.Context, uid string, in OnboardingInput) (*Profile, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, uid, in.Patch(), s.now())
	if err != nil {
		return nil, store.Failed("complete onboarding", err)
	}

	s.logger.Info("onboarding completed", "uid", uid)
	return p, nil
}
