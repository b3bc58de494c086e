// Package storagetest holds behavior tests shared by every storage backend.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/store"
)

// base is a fixed instant with microsecond precision, which every backend round-trips
var base = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

// TestProfileRepository exercises a profile.Repository. Each call of newRepo
// must return an empty repository.
func TestProfileRepository(t *testing.T, newRepo func(t *testing.T) profile.Repository) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := newRepo(t).Get(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		p := &profile.Profile{UID: "u1", Email: "u1@example.com", DisplayName: "Ivy", CreatedAt: base, UpdatedAt: base}
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ivy", got.DisplayName)
		assert.False(t, got.CompletedOnboarding)
		assert.True(t, got.CreatedAt.Equal(base))
	})

	t.Run("create twice", func(t *testing.T) {
		repo := newRepo(t)
		p := &profile.Profile{UID: "u1", CreatedAt: base, UpdatedAt: base}
		require.NoError(t, repo.Create(ctx, p))
		assert.ErrorIs(t, repo.Create(ctx, p), store.ErrAlreadyExists)
	})

	t.Run("update merges", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &profile.Profile{UID: "u1", DisplayName: "Ivy", CreatedAt: base, UpdatedAt: base}))

		location := "Lisbon, PT"
		plants := []string{"succulents", "ferns"}
		done := true
		later := base.Add(time.Hour)

		got, err := repo.Update(ctx, "u1", profile.Patch{Location: &location, PreferredPlants: &plants, CompletedOnboarding: &done}, later)
		require.NoError(t, err)
		assert.Equal(t, "Ivy", got.DisplayName)
		assert.Equal(t, location, got.Location)
		assert.Equal(t, plants, got.PreferredPlants)
		assert.True(t, got.CompletedOnboarding)
		assert.True(t, got.UpdatedAt.Equal(later))
		assert.True(t, got.CreatedAt.Equal(base))

		stored, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, got.Location, stored.Location)
		assert.True(t, stored.CompletedOnboarding)
	})

	t.Run("update missing", func(t *testing.T) {
		name := "x"
		_, err := newRepo(t).Update(ctx, "nobody", profile.Patch{DisplayName: &name}, base)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func newPlant(id, uid string, createdAt time.Time) *plant.Plant {
	return &plant.Plant{
		ID:         id,
		UserID:     uid,
		CommonName: "Plant " + id,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// TestPlantRepository exercises a plant.Repository. Each call of newRepo
// must return an empty repository.
func TestPlantRepository(t *testing.T, newRepo func(t *testing.T) plant.Repository) {
	ctx := context.Background()

	t.Run("list is scoped and newest first", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newPlant("a", "u1", base)))
		require.NoError(t, repo.Create(ctx, newPlant("b", "u1", base.Add(time.Minute))))
		require.NoError(t, repo.Create(ctx, newPlant("c", "u2", base.Add(2*time.Minute))))

		plants, err := repo.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, plants, 2)
		assert.Equal(t, "b", plants[0].ID)
		assert.Equal(t, "a", plants[1].ID)

		empty, err := repo.List(ctx, "u3")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("other users' plants are absent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newPlant("a", "u1", base)))

		_, err := repo.Get(ctx, "u2", "a")
		assert.ErrorIs(t, err, store.ErrNotFound)

		name := "stolen"
		_, err = repo.Update(ctx, "u2", "a", plant.Patch{CommonName: &name}, base)
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = repo.TouchWatering(ctx, "u2", "a", base)
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, repo.Delete(ctx, "u2", "a"))
		_, err = repo.Get(ctx, "u1", "a")
		assert.NoError(t, err, "foreign delete must not remove the record")
	})

	t.Run("round trip keeps every field", func(t *testing.T) {
		repo := newRepo(t)
		p := newPlant("a", "u1", base)
		p.Species = "Dracaena trifasciata"
		p.Photo = "https://cdn.example.com/a.jpg"
		p.Location = plant.LocationIndoor
		p.HealthStatus = plant.HealthNeedsAttention
		p.Notes = "north window"
		p.WateringSchedule = &plant.WateringSchedule{FrequencyDays: 14, LastWatered: base.Add(-time.Hour)}
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.Get(ctx, "u1", "a")
		require.NoError(t, err)
		assert.Equal(t, p.Species, got.Species)
		assert.Equal(t, p.Photo, got.Photo)
		assert.Equal(t, p.Location, got.Location)
		assert.Equal(t, p.HealthStatus, got.HealthStatus)
		assert.Equal(t, p.Notes, got.Notes)
		require.NotNil(t, got.WateringSchedule)
		assert.Equal(t, 14, got.WateringSchedule.FrequencyDays)
		assert.True(t, got.WateringSchedule.LastWatered.Equal(base.Add(-time.Hour)))
		assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	})

	t.Run("update merges patch", func(t *testing.T) {
		repo := newRepo(t)
		p := newPlant("a", "u1", base)
		p.Notes = "keep me"
		require.NoError(t, repo.Create(ctx, p))

		health := plant.HealthSick
		later := base.Add(time.Hour)
		got, err := repo.Update(ctx, "u1", "a", plant.Patch{HealthStatus: &health}, later)
		require.NoError(t, err)
		assert.Equal(t, plant.HealthSick, got.HealthStatus)
		assert.Equal(t, "keep me", got.Notes)
		assert.True(t, got.UpdatedAt.Equal(later))
		assert.True(t, got.CreatedAt.Equal(base))
	})

	t.Run("touch watering changes only lastWatered and updatedAt", func(t *testing.T) {
		repo := newRepo(t)
		p := newPlant("a", "u1", base)
		p.WateringSchedule = &plant.WateringSchedule{FrequencyDays: 7, LastWatered: base}
		require.NoError(t, repo.Create(ctx, p))

		later := base.Add(48 * time.Hour)
		got, err := repo.TouchWatering(ctx, "u1", "a", later)
		require.NoError(t, err)
		require.NotNil(t, got.WateringSchedule)
		assert.True(t, got.WateringSchedule.LastWatered.Equal(later))
		assert.Equal(t, 7, got.WateringSchedule.FrequencyDays)
		assert.True(t, got.UpdatedAt.Equal(later))
		assert.Equal(t, p.CommonName, got.CommonName)
		assert.True(t, got.CreatedAt.Equal(base))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newPlant("a", "u1", base)))

		require.NoError(t, repo.Delete(ctx, "u1", "a"))
		require.NoError(t, repo.Delete(ctx, "u1", "a"))
		require.NoError(t, repo.Delete(ctx, "u1", "never-existed"))

		_, err := repo.Get(ctx, "u1", "a")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("subscription delivers snapshots", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newPlant("a", "u1", base)))

		subCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		sub, err := repo.Subscribe(subCtx, "u1")
		require.NoError(t, err)
		defer sub.Close()

		first, err := sub.Next(subCtx)
		require.NoError(t, err)
		require.Len(t, first, 1)

		require.NoError(t, repo.Create(ctx, newPlant("b", "u1", base.Add(time.Minute))))
		require.NoError(t, repo.Create(ctx, newPlant("other", "u2", base.Add(time.Minute))))

		// Snapshots are coalesced; read until one contains both plants
		for {
			next, err := sub.Next(subCtx)
			require.NoError(t, err)
			if len(next) == 2 {
				assert.Equal(t, "b", next[0].ID)
				break
			}
		}

		require.NoError(t, sub.Close())
		_, err = sub.Next(subCtx)
		assert.ErrorIs(t, err, plant.ErrSubscriptionClosed)
	})
}
