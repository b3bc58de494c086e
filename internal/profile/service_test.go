package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/storage/memory"
	"github.com/redmonkez12/plantopia/internal/store"
)

func newService() *profile.Service {
	return profile.NewService(memory.NewProfileRepository(), logging.NewNopLogger())
}

func TestEnsureCreatesOnFirstLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Ensure(ctx, profile.Seed{UID: "u1", Email: "u1@example.com", DisplayName: "Ivy"})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UID)
	assert.Equal(t, "Ivy", p.DisplayName)
	assert.False(t, p.CompletedOnboarding)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	// Second login returns the stored profile, not the seed
	again, err := svc.Ensure(ctx, profile.Seed{UID: "u1", DisplayName: "Changed"})
	require.NoError(t, err)
	assert.Equal(t, "Ivy", again.DisplayName)
}

func TestCompleteOnboarding(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Ensure(ctx, profile.Seed{UID: "u1"})
	require.NoError(t, err)

	p, err := svc.CompleteOnboarding(ctx, "u1", profile.OnboardingInput{
		Location:        " Porto, PT ",
		ExperienceLevel: profile.ExperienceBeginner,
		PreferredPlants: []string{"succulents"},
	})
	require.NoError(t, err)

	assert.True(t, p.CompletedOnboarding)
	assert.Equal(t, "Porto, PT", p.Location)
	assert.Equal(t, profile.ExperienceBeginner, p.ExperienceLevel)
	assert.Equal(t, []string{"succulents"}, p.PreferredPlants)
	assert.True(t, p.Hint().CompletedOnboarding)
}

func TestCompleteOnboardingValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.Ensure(ctx, profile.Seed{UID: "u1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   profile.OnboardingInput
	}{
		{"missing location", profile.OnboardingInput{ExperienceLevel: profile.ExperienceExpert, PreferredPlants: []string{"ferns"}}},
		{"bad level", profile.OnboardingInput{Location: "x", ExperienceLevel: "guru", PreferredPlants: []string{"ferns"}}},
		{"no plants", profile.OnboardingInput{Location: "x", ExperienceLevel: profile.ExperienceExpert}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CompleteOnboarding(ctx, "u1", tt.in)
			assert.ErrorIs(t, err, store.ErrInvalidInput)
		})
	}

	p, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, p.CompletedOnboarding)
}

func TestUpdate(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.Ensure(ctx, profile.Seed{UID: "u1", DisplayName: "Ivy"})
	require.NoError(t, err)

	name := "Ivy Green"
	p, err := svc.Update(ctx, "u1", profile.Patch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ivy Green", p.DisplayName)
	assert.False(t, p.UpdatedAt.Before(p.CreatedAt))

	empty := " "
	_, err = svc.Update(ctx, "u1", profile.Patch{DisplayName: &empty})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.Update(ctx, "missing", profile.Patch{DisplayName: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEmptyUIDIsNotAuthenticated(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "")
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
	_, err = svc.Ensure(ctx, profile.Seed{})
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
	_, err = svc.Update(ctx, "", profile.Patch{})
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
	_, err = svc.CompleteOnboarding(ctx, "", profile.OnboardingInput{})
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
}
