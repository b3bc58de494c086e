package memory

import (
	"testing"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/storage/storagetest"
)

func TestProfileRepository(t *testing.T) {
	storagetest.TestProfileRepository(t, func(*testing.T) profile.Repository {
		return NewProfileRepository()
	})
}

func TestPlantRepository(t *testing.T) {
	storagetest.TestPlantRepository(t, func(t *testing.T) plant.Repository {
		repo := NewPlantRepository(logging.NewNopLogger())
		t.Cleanup(repo.hub.Close)
		return repo
	})
}
