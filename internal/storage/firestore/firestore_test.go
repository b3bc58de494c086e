package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/storage/storagetest"
	"github.com/redmonkez12/plantopia/internal/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.NotFound, store.ErrNotFound},
		{codes.AlreadyExists, store.ErrAlreadyExists},
		{codes.PermissionDenied, store.ErrOperationFailed},
		{codes.Unauthenticated, store.ErrOperationFailed},
		{codes.Unavailable, store.ErrOperationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := classify("op", status.Error(tt.code, "boom"))
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, store.ErrNotAuthenticated)
		})
	}

	assert.ErrorIs(t, classify("op", store.ErrNotFound), store.ErrNotFound)
	assert.ErrorIs(t, classify("op", errors.New("decode")), store.ErrOperationFailed)
}

func TestPlantDocRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &plant.Plant{
		ID:               "a",
		UserID:           "u1",
		CommonName:       "Fern",
		Location:         plant.LocationOutdoor,
		WateringSchedule: &plant.WateringSchedule{FrequencyDays: 2, LastWatered: now},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	d := toPlantDoc(p)
	assert.Equal(t, 2, d.WateringSchedule.Frequency)
	assert.Equal(t, p, d.plant("a"))

	p.WateringSchedule = nil
	assert.Nil(t, toPlantDoc(p).WateringSchedule)
}

func TestProfileDocRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &profile.Profile{UID: "u1", Email: "a@example.com", PreferredPlants: []string{"herbs"}, CreatedAt: now, UpdatedAt: now}
	assert.Equal(t, p, toProfileDoc(p).profile("u1"))
}

var emulatorSeq atomic.Int64

// newEmulatorClient connects to FIRESTORE_EMULATOR_HOST, skipping when it is unset.
// Each test gets its own project so collections start empty.
func newEmulatorClient(t *testing.T) *fs.Client {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	project := fmt.Sprintf("plantopia-test-%d-%d", time.Now().UnixNano(), emulatorSeq.Add(1))
	client, err := fs.NewClient(context.Background(), project)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestProfileRepositoryEmulator(t *testing.T) {
	storagetest.TestProfileRepository(t, func(t *testing.T) profile.Repository {
		return NewProfileRepository(newEmulatorClient(t))
	})
}

func TestPlantRepositoryEmulator(t *testing.T) {
	storagetest.TestPlantRepository(t, func(t *testing.T) plant.Repository {
		return NewPlantRepository(newEmulatorClient(t), logging.NewNopLogger())
	})
}

func updatePaths(updates []fs.Update) []string {
	paths := make([]string, 0, len(updates))
	for _, u := range updates {
		paths = append(paths, u.Path)
	}
	return paths
}

func TestPlantPatchUpdatesTouchOnlyPatchedPaths(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &plant.Plant{ID: "a", UserID: "u1", CommonName: "Fern", Notes: "keep", CreatedAt: now, UpdatedAt: now}

	health := plant.HealthSick
	patch := plant.Patch{HealthStatus: &health}
	patch.Apply(p, now.Add(time.Hour))

	updates := plantPatchUpdates(patch, p, false)
	assert.Equal(t, []string{"healthStatus", "updatedAt"}, updatePaths(updates))
	assert.Equal(t, "sick", updates[0].Value)

	empty := ""
	patch = plant.Patch{Notes: &empty, WateringSchedule: &plant.ScheduleInput{FrequencyDays: 3}}
	p.WateringSchedule = &plant.WateringSchedule{FrequencyDays: 7, LastWatered: now}
	patch.Apply(p, now.Add(2*time.Hour))

	updates = plantPatchUpdates(patch, p, true)
	assert.Equal(t, []string{"notes", "wateringSchedule.lastWatered", "wateringSchedule.frequency", "updatedAt"}, updatePaths(updates))
	assert.Equal(t, "", updates[0].Value, "cleared notes are written, not dropped")
}

func TestWateringUpdates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &plant.Plant{
		WateringSchedule: &plant.WateringSchedule{FrequencyDays: 7, LastWatered: now},
		UpdatedAt:        now,
	}

	assert.Equal(t, []string{"wateringSchedule.lastWatered", "updatedAt"}, updatePaths(wateringUpdates(p, true)))
	assert.Equal(t, []string{"wateringSchedule", "updatedAt"}, updatePaths(wateringUpdates(p, false)))
}

func TestProfilePatchUpdates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &profile.Profile{UID: "u1", DisplayName: "Ivy", CreatedAt: now, UpdatedAt: now}

	done := true
	none := []string{}
	patch := profile.Patch{CompletedOnboarding: &done, PreferredPlants: &none}
	patch.Apply(p, now.Add(time.Hour))

	updates := profilePatchUpdates(patch, p)
	assert.Equal(t, []string{"preferredPlants", "completedOnboarding", "updatedAt"}, updatePaths(updates))
	assert.Equal(t, []string{}, updates[0].Value)
}

func TestUpdatesKeepUnmodeledFieldsEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

	_, err := client.Collection(plantsCollection).Doc("a").Set(ctx, map[string]any{
		"userId":      "u1",
		"commonName":  "Fern",
		"notes":       "",
		"lastWatered": base,
		"createdAt":   base,
		"updatedAt":   base,
		"wateringSchedule": map[string]any{
			"frequency":   7,
			"lastWatered": base,
			"reminder":    true,
		},
	})
	require.NoError(t, err)

	plants := NewPlantRepository(client, logging.NewNopLogger())
	later := base.Add(48 * time.Hour)
	_, err = plants.TouchWatering(ctx, "u1", "a", later)
	require.NoError(t, err)

	health := plant.HealthSick
	_, err = plants.Update(ctx, "u1", "a", plant.Patch{HealthStatus: &health}, later)
	require.NoError(t, err)

	snap, err := client.Collection(plantsCollection).Doc("a").Get(ctx)
	require.NoError(t, err)
	data := snap.Data()
	assert.Equal(t, "", data["notes"])
	assert.Equal(t, "sick", data["healthStatus"])
	lastWatered, ok := data["lastWatered"].(time.Time)
	require.True(t, ok, "top-level lastWatered survives")
	assert.True(t, lastWatered.Equal(base))

	schedule, ok := data["wateringSchedule"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, schedule["reminder"])
	assert.Equal(t, int64(7), schedule["frequency"])
	assert.True(t, schedule["lastWatered"].(time.Time).Equal(later))

	_, err = client.Collection(usersCollection).Doc("u1").Set(ctx, map[string]any{
		"uid":       "u1",
		"theme":     "dark",
		"createdAt": base,
		"updatedAt": base,
	})
	require.NoError(t, err)

	location := "Lisbon, PT"
	_, err = NewProfileRepository(client).Update(ctx, "u1", profile.Patch{Location: &location}, later)
	require.NoError(t, err)

	snap, err = client.Collection(usersCollection).Doc("u1").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", snap.Data()["theme"])
	assert.Equal(t, location, snap.Data()["location"])
}
