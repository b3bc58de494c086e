package profile

import (
	"context"
	"time"
)

// Repository persists profiles. Implementations return store.ErrNotFound for
// an absent uid and store.ErrAlreadyExists when Create races another insert.
type Repository interface {
	Get(ctx context.Context, uid string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, uid string, patch Patch, now time.Time) (*Profile, error)
}
