package plant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/photo"
	"github.com/redmonkez12/plantopia/internal/store"
)

// Service handles plant business logic
type Service struct {
	repo   Repository
	photos photo.Store
	logger *logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(repo Repository, photos photo.Store, logger *logging.Logger) *Service {
	if photos == nil {
		photos = photo.Disabled{}
	}
	return &Service{
		repo:   repo,
		photos: photos,
		logger: logger.WithComponent("plant"),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:  uuid.NewString,
	}
}

// List returns the caller's plants, newest first
func (s *Service) List(ctx context.Context, uid string) ([]Plant, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}

	plants, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, store.Failed("list plants", err)
	}
	return plants, nil
}

func (s *Service) Get(ctx context.Context, uid, id string) (*Plant, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}

	p, err := s.repo.Get(ctx, uid, id)
	if err != nil {
		return nil, store.Failed("get plant", err)
	}
	return p, nil
}

// Subscribe opens a live view of the caller's plants
func (s *Service) Subscribe(ctx context.Context, uid string) (Subscription, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}

	sub, err := s.repo.Subscribe(ctx, uid)
	if err != nil {
		return nil, store.Failed("subscribe plants", err)
	}
	return sub, nil
}

// Add uploads the optional photo and then writes the record.
// An uploaded photo is left behind if the write fails.
func (s *Service) Add(ctx context.Context, uid string, in Input, upload *photo.Upload) (*Plant, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	photoURL, err := s.uploadPhoto(ctx, uid, upload)
	if err != nil {
		return nil, err
	}

	p := in.Plant(s.newID(), uid, photoURL, s.now())
	if err := s.repo.Create(ctx, p); err != nil {
		if photoURL != "" {
			s.logger.Warn("plant write failed after photo upload", "uid", uid, "photo", photoURL)
		}
		return nil, store.Failed("add plant", err)
	}

	s.logger.Info("plant added", "uid", uid, "plant_id", p.ID)
	return p, nil
}

// Update merges patch into the caller's plant. A new photo replaces the old URL.
func (s *Service) Update(ctx context.Context, uid, id string, patch Patch, upload *photo.Upload) (*Plant, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if upload != nil {
		// Do not upload on behalf of a plant the caller cannot see
		if _, err := s.repo.Get(ctx, uid, id); err != nil {
			return nil, store.Failed("update plant", err)
		}

		photoURL, err := s.uploadPhoto(ctx, uid, upload)
		if err != nil {
			return nil, err
		}
		patch.Photo = &photoURL
	}

	p, err := s.repo.Update(ctx, uid, id, patch, s.now())
	if err != nil {
		return nil, store.Failed("update plant", err)
	}
	return p, nil
}

// Delete removes the caller's plant. Deleting an absent plant succeeds.
func (s *Service) Delete(ctx context.Context, uid, id string) error {
	if uid == "" {
		return store.ErrNotAuthenticated
	}

	if err := s.repo.Delete(ctx, uid, id); err != nil {
		return store.Failed("delete plant", err)
	}

	s.logger.Info("plant deleted", "uid", uid, "plant_id", id)
	return nil
}

// TouchWatering records that the plant was watered now
func (s *Service) TouchWatering(ctx context.Context, uid, id string) (*Plant, error) {
	if uid == "" {
		return nil, store.ErrNotAuthenticated
	}

	p, err := s.repo.TouchWatering(ctx, uid, id, s.now())
	if err != nil {
		return nil, store.Failed("update watering date", err)
	}
	return p, nil
}

// Now is the service clock, exposed for view models
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) uploadPhoto(ctx context.Context, uid string, upload *photo.Upload) (string, error) {
	if upload == nil {
		return "", nil
	}

	url, err := s.photos.Upload(ctx, uid, *upload)
	if err != nil {
		if errors.Is(err, photo.ErrTooLarge) || errors.Is(err, photo.ErrUnsupportedType) || errors.Is(err, photo.ErrUnavailable) {
			return "", err
		}
		return "", store.Failed("upload photo", err)
	}
	return url, nil
}
