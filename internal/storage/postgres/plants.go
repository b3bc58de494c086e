package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/plantopia/internal/database"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
)

// notifyChannel carries the owner uid of every committed plant change
const notifyChannel = "plant_changes"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	listenerPingInterval = 90 * time.Second
)

// PlantRepository handles plant persistence
type PlantRepository struct {
	db     *bun.DB
	hub    *plant.Hub
	logger *logging.Logger
}

func NewPlantRepository(db *bun.DB, logger *logging.Logger) *PlantRepository {
	r := &PlantRepository{
		db:     db,
		logger: logger.WithComponent("postgres-plants"),
	}
	r.hub = plant.NewHub(r.List, logger)
	return r
}

// List returns uid's plants newest first
func (r *PlantRepository) List(ctx context.Context, uid string) ([]plant.Plant, error) {
	var rows []database.PlantRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", uid).
		OrderExpr("created_at DESC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, classify("list plants", err)
	}

	plants := make([]plant.Plant, 0, len(rows))
	for i := range rows {
		plants = append(plants, *plantFromRow(&rows[i]))
	}
	return plants, nil
}

// Get retrieves one of uid's plants
func (r *PlantRepository) Get(ctx context.Context, uid, id string) (*plant.Plant, error) {
	row := new(database.PlantRow)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Where("user_id = ?", uid).
		Scan(ctx)
	if err != nil {
		return nil, classify("get plant", err)
	}

	return plantFromRow(row), nil
}

func (r *PlantRepository) Create(ctx context.Context, p *plant.Plant) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(plantToRow(p)).Exec(ctx); err != nil {
			return err
		}
		return notify(ctx, tx, p.UserID)
	})
	if err != nil {
		return classify("create plant", err)
	}
	return nil
}

func (r *PlantRepository) Update(ctx context.Context, uid, id string, patch plant.Patch, now time.Time) (*plant.Plant, error) {
	return r.mutate(ctx, "update plant", uid, id, func(p *plant.Plant) {
		patch.Apply(p, now)
	})
}

func (r *PlantRepository) TouchWatering(ctx context.Context, uid, id string, now time.Time) (*plant.Plant, error) {
	return r.mutate(ctx, "water plant", uid, id, func(p *plant.Plant) {
		if p.WateringSchedule == nil {
			p.WateringSchedule = &plant.WateringSchedule{}
		}
		p.WateringSchedule.LastWatered = now
		p.UpdatedAt = now
	})
}

// Delete removes the plant. Absent and foreign records are left alone.
func (r *PlantRepository) Delete(ctx context.Context, uid, id string) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*database.PlantRow)(nil)).
			Where("id = ?", id).
			Where("user_id = ?", uid).
			Exec(ctx)
		if err != nil {
			return err
		}

		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}
		return notify(ctx, tx, uid)
	})
	if err != nil {
		return classify("delete plant", err)
	}
	return nil
}

func (r *PlantRepository) Subscribe(ctx context.Context, uid string) (plant.Subscription, error) {
	return r.hub.Subscribe(ctx, uid)
}

// Listen opens a dedicated LISTEN connection and forwards notifications to
// the hub until the returned stop function is called or ctx ends. After a
// reconnect every subscribed user is refreshed since notifications may
// have been missed.
func (r *PlantRepository) Listen(ctx context.Context, connString string) (func() error, error) {
	listener := pq.NewListener(connString, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("plant change listener event", "event", int(ev), "error", err.Error())
		}
	})

	if err := listener.Listen(notifyChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("listen %s: %w", notifyChannel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.forward(ctx, listener)
	}()

	return func() error {
		cancel()
		err := listener.Close()
		<-done
		return err
	}, nil
}

func (r *PlantRepository) forward(ctx context.Context, listener *pq.Listener) {
	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				r.logger.Info("plant change listener reconnected")
				r.hub.NotifyAll(ctx)
				continue
			}
			r.hub.Notify(ctx, n.Extra)
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					r.logger.Warn("plant change listener ping failed", "error", err.Error())
				}
			}()
		}
	}
}

func (r *PlantRepository) mutate(ctx context.Context, op, uid, id string, fn func(*plant.Plant)) (*plant.Plant, error) {
	var updated *plant.Plant

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(database.PlantRow)
		err := tx.NewSelect().
			Model(row).
			Where("id = ?", id).
			Where("user_id = ?", uid).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}

		p := plantFromRow(row)
		fn(p)

		if _, err := tx.NewUpdate().Model(plantToRow(p)).WherePK().Exec(ctx); err != nil {
			return err
		}
		updated = p
		return notify(ctx, tx, uid)
	})
	if err != nil {
		return nil, classify(op, err)
	}

	return updated, nil
}

// notify queues the change notification; PostgreSQL delivers it on commit
func notify(ctx context.Context, tx bun.Tx, uid string) error {
	_, err := tx.ExecContext(ctx, "SELECT pg_notify(?, ?)", notifyChannel, uid)
	return err
}

func plantToRow(p *plant.Plant) *database.PlantRow {
	row := &database.PlantRow{
		ID:           p.ID,
		UserID:       p.UserID,
		CommonName:   p.CommonName,
		Species:      p.Species,
		Photo:        p.Photo,
		Location:     string(p.Location),
		HealthStatus: string(p.HealthStatus),
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if ws := p.WateringSchedule; ws != nil {
		freq := ws.FrequencyDays
		last := ws.LastWatered
		row.WateringFrequencyDays = &freq
		row.LastWatered = &last
	}
	return row
}

func plantFromRow(row *database.PlantRow) *plant.Plant {
	p := &plant.Plant{
		ID:           row.ID,
		UserID:       row.UserID,
		CommonName:   row.CommonName,
		Species:      row.Species,
		Photo:        row.Photo,
		Location:     plant.Location(row.Location),
		HealthStatus: plant.HealthStatus(row.HealthStatus),
		Notes:        row.Notes,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.WateringFrequencyDays != nil || row.LastWatered != nil {
		ws := &plant.WateringSchedule{}
		if row.WateringFrequencyDays != nil {
			ws.FrequencyDays = *row.WateringFrequencyDays
		}
		if row.LastWatered != nil {
			ws.LastWatered = row.LastWatered.UTC()
		}
		p.WateringSchedule = ws
	}
	return p
}
