// Package memory is an in-process storage backend for local development and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/store"
)

// Backend holds the memory repositories
type Backend struct {
	profiles *ProfileRepository
	plants   *PlantRepository
}

func New(logger *logging.Logger) *Backend {
	return &Backend{
		profiles: NewProfileRepository(),
		plants:   NewPlantRepository(logger),
	}
}

func (b *Backend) Profiles() profile.Repository { return b.profiles }
func (b *Backend) Plants() plant.Repository     { return b.plants }

func (b *Backend) Close() error {
	b.plants.hub.Close()
	return nil
}

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]profile.Profile)}
}

func (r *ProfileRepository) Get(_ context.Context, uid string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *ProfileRepository) Create(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.UID]; ok {
		return store.ErrAlreadyExists
	}
	r.profiles[p.UID] = *cloneProfile(*p)
	return nil
}

func (r *ProfileRepository) Update(_ context.Context, uid string, patch profile.Patch, now time.Time) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&p, now)
	r.profiles[uid] = p
	return cloneProfile(p), nil
}

func cloneProfile(p profile.Profile) *profile.Profile {
	p.PreferredPlants = slices.Clone(p.PreferredPlants)
	return &p
}

// PlantRepository keeps plants in a map and fans changes out through a plant.Hub
type PlantRepository struct {
	mu     sync.RWMutex
	plants map[string]plant.Plant
	hub    *plant.Hub
}

func NewPlantRepository(logger *logging.Logger) *PlantRepository {
	r := &PlantRepository{plants: make(map[string]plant.Plant)}
	r.hub = plant.NewHub(r.List, logger)
	return r
}

func (r *PlantRepository) List(_ context.Context, uid string) ([]plant.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plants := make([]plant.Plant, 0)
	for _, p := range r.plants {
		if p.UserID == uid {
			plants = append(plants, *clonePlant(p))
		}
	}
	plant.SortNewestFirst(plants)
	return plants, nil
}

func (r *PlantRepository) Get(_ context.Context, uid, id string) (*plant.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plants[id]
	if !ok || p.UserID != uid {
		return nil, store.ErrNotFound
	}
	return clonePlant(p), nil
}

func (r *PlantRepository) Create(ctx context.Context, p *plant.Plant) error {
	r.mu.Lock()
	if _, ok := r.plants[p.ID]; ok {
		r.mu.Unlock()
		return store.ErrAlreadyExists
	}
	r.plants[p.ID] = *clonePlant(*p)
	r.mu.Unlock()

	r.hub.Notify(ctx, p.UserID)
	return nil
}

func (r *PlantRepository) Update(ctx context.Context, uid, id string, patch plant.Patch, now time.Time) (*plant.Plant, error) {
	return r.mutate(ctx, uid, id, func(p *plant.Plant) {
		patch.Apply(p, now)
	})
}

func (r *PlantRepository) TouchWatering(ctx context.Context, uid, id string, now time.Time) (*plant.Plant, error) {
	return r.mutate(ctx, uid, id, func(p *plant.Plant) {
		if p.WateringSchedule == nil {
			p.WateringSchedule = &plant.WateringSchedule{}
		}
		p.WateringSchedule.LastWatered = now
		p.UpdatedAt = now
	})
}

func (r *PlantRepository) Delete(ctx context.Context, uid, id string) error {
	r.mu.Lock()
	p, ok := r.plants[id]
	if !ok || p.UserID != uid {
		r.mu.Unlock()
		return nil
	}
	delete(r.plants, id)
	r.mu.Unlock()

	r.hub.Notify(ctx, uid)
	return nil
}

func (r *PlantRepository) Subscribe(ctx context.Context, uid string) (plant.Subscription, error) {
	return r.hub.Subscribe(ctx, uid)
}

func (r *PlantRepository) mutate(ctx context.Context, uid, id string, fn func(*plant.Plant)) (*plant.Plant, error) {
	r.mu.Lock()
	p, ok := r.plants[id]
	if !ok || p.UserID != uid {
		r.mu.Unlock()
		return nil, store.ErrNotFound
	}
	updated := clonePlant(p)
	fn(updated)
	r.plants[id] = *clonePlant(*updated)
	r.mu.Unlock()

	r.hub.Notify(ctx, uid)
	return updated, nil
}

func clonePlant(p plant.Plant) *plant.Plant {
	if p.WateringSchedule != nil {
		ws := *p.WateringSchedule
		p.WateringSchedule = &ws
	}
	return &p
}
