package plant

import (
	"context"
	"time"
)

// Repository persists plants. Every operation is scoped to the owner uid: a
// record belonging to another user behaves as absent (store.ErrNotFound).
// Delete of an absent record succeeds.
type Repository interface {
	List(ctx context.Context, uid string) ([]Plant, error)
	Get(ctx context.Context, uid, id string) (*Plant, error)
	Create(ctx context.Context, plant *Plant) error
	Update(ctx context.Context, uid, id string, patch Patch, now time.Time) (*Plant, error)
	TouchWatering(ctx context.Context, uid, id string, now time.Time) (*Plant, error)
	Delete(ctx context.Context, uid, id string) error
	Subscribe(ctx context.Context, uid string) (Subscription, error)
}

// Subscription delivers full snapshots of one user's plants, newest first.
// A snapshot replaces any undelivered one, so a slow reader only sees the latest.
type Subscription interface {
	Next(ctx context.Context) ([]Plant, error)
	Close() error
}
