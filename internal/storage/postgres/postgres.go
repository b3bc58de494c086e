// Package postgres stores profiles and plants in PostgreSQL through bun.
// Plant mutations publish the owner uid on a LISTEN/NOTIFY channel so that
// every API instance can refresh its open subscriptions.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/plantopia/internal/config"
	"github.com/redmonkez12/plantopia/internal/database"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/store"
)

const uniqueViolation = "23505"

// Backend holds the PostgreSQL repositories and the change listener
type Backend struct {
	db       *bun.DB
	profiles *ProfileRepository
	plants   *PlantRepository
	stop     func() error
}

// Open connects, applies migrations and starts listening for plant changes
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*Backend, error) {
	sqlDB, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	db := database.NewBunDB(sqlDB)
	plants := NewPlantRepository(db, logger)

	stop, err := plants.Listen(context.WithoutCancel(ctx), cfg.ConnectionString())
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Backend{
		db:       db,
		profiles: NewProfileRepository(db),
		plants:   plants,
		stop:     stop,
	}, nil
}

func (b *Backend) Profiles() profile.Repository { return b.profiles }
func (b *Backend) Plants() plant.Repository     { return b.plants }

func (b *Backend) Close() error {
	b.plants.hub.Close()
	return errors.Join(b.stop(), b.db.Close())
}

// classify maps driver errors onto the store taxonomy
func classify(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, store.ErrAlreadyExists)
	}

	return store.Failed(op, err)
}
