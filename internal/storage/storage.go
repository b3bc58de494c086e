// Package storage selects the persistence backend for profiles and plants.
package storage

import (
	"context"
	"fmt"

	"github.com/redmonkez12/plantopia/internal/config"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/storage/firestore"
	"github.com/redmonkez12/plantopia/internal/storage/memory"
	"github.com/redmonkez12/plantopia/internal/storage/postgres"
)

// Backend provides the repositories of one storage system
type Backend interface {
	Profiles() profile.Repository
	Plants() plant.Repository
	Close() error
}

var (
	_ Backend = (*firestore.Backend)(nil)
	_ Backend = (*postgres.Backend)(nil)
	_ Backend = (*memory.Backend)(nil)
)

// Open connects the backend named by STORE_BACKEND
func Open(ctx context.Context, cfg *config.Config, logger *logging.Logger) (Backend, error) {
	switch cfg.Store.Backend {
	case config.StoreFirestore:
		b, err := firestore.Open(ctx, cfg.Identity.ProjectID, cfg.Store.FirestoreDatabase, logger,
			firestore.WithCredentialsFile(cfg.Store.CredentialsFile))
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.StorePostgres:
		b, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.StoreMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return memory.New(logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
