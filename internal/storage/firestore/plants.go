package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/store"
)

type PlantRepository struct {
	client *fs.Client
	logger *logging.Logger
}

func NewPlantRepository(client *fs.Client, logger *logging.Logger) *PlantRepository {
	return &PlantRepository{
		client: client,
		logger: logger.WithComponent("firestore-plants"),
	}
}

func (r *PlantRepository) doc(id string) *fs.DocumentRef {
	return r.client.Collection(plantsCollection).Doc(id)
}

func (r *PlantRepository) query(uid string) fs.Query {
	return r.client.Collection(plantsCollection).
		Where("userId", "==", uid).
		OrderBy("createdAt", fs.Desc)
}

func (r *PlantRepository) List(ctx context.Context, uid string) ([]plant.Plant, error) {
	plants, err := readPlants(r.query(uid).Documents(ctx))
	if err != nil {
		return nil, classify("list plants", err)
	}
	return plants, nil
}

func (r *PlantRepository) Get(ctx context.Context, uid, id string) (*plant.Plant, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		return nil, classify("get plant", err)
	}

	p, err := decodeOwned(snap, uid)
	if err != nil {
		return nil, classify("get plant", err)
	}
	return p, nil
}

func (r *PlantRepository) Create(ctx context.Context, p *plant.Plant) error {
	if _, err := r.doc(p.ID).Create(ctx, toPlantDoc(p)); err != nil {
		return classify("create plant", err)
	}
	return nil
}

func (r *PlantRepository) Update(ctx context.Context, uid, id string, patch plant.Patch, now time.Time) (*plant.Plant, error) {
	return r.mutate(ctx, "update plant", uid, id, func(p *plant.Plant) []fs.Update {
		hadSchedule := p.WateringSchedule != nil
		patch.Apply(p, now)
		return plantPatchUpdates(patch, p, hadSchedule)
	})
}

func (r *PlantRepository) TouchWatering(ctx context.Context, uid, id string, now time.Time) (*plant.Plant, error) {
	return r.mutate(ctx, "water plant", uid, id, func(p *plant.Plant) []fs.Update {
		hadSchedule := p.WateringSchedule != nil
		if !hadSchedule {
			p.WateringSchedule = &plant.WateringSchedule{}
		}
		p.WateringSchedule.LastWatered = now
		p.UpdatedAt = now
		return wateringUpdates(p, hadSchedule)
	})
}

// Delete removes the plant inside a transaction so a foreign record is never touched
func (r *PlantRepository) Delete(ctx context.Context, uid, id string) error {
	ref := r.doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return nil
		}
		if err != nil {
			return err
		}

		if owner, _ := snap.DataAt("userId"); owner != uid {
			return nil
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return classify("delete plant", err)
	}
	return nil
}

// Subscribe attaches a snapshot listener to uid's plant query. The listener
// goroutine stops when the subscription is closed or ctx ends.
func (r *PlantRepository) Subscribe(ctx context.Context, uid string) (plant.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	feed := plant.NewFeed(cancel)
	it := r.query(uid).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Warn("plant snapshot listener failed", "uid", uid, "error", err.Error())
					feed.Fail(classify("watch plants", err))
				}
				return
			}

			plants, err := readPlants(snap.Documents)
			if err != nil {
				feed.Fail(classify("watch plants", err))
				return
			}
			feed.Publish(plants)
		}
	}()
	feed.CloseWhenDone(ctx)

	return feed, nil
}

// mutate checks ownership inside a transaction, lets fn change the decoded
// plant and writes back only the field paths fn returns
func (r *PlantRepository) mutate(ctx context.Context, op, uid, id string, fn func(*plant.Plant) []fs.Update) (*plant.Plant, error) {
	ref := r.doc(id)
	var updated *plant.Plant

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		p, err := decodeOwned(snap, uid)
		if err != nil {
			return err
		}

		updates := fn(p)
		updated = p
		return tx.Update(ref, updates)
	})
	if err != nil {
		return nil, classify(op, err)
	}

	return updated, nil
}

// decodeOwned decodes a plant, treating another user's record as absent
func decodeOwned(snap *fs.DocumentSnapshot, uid string) (*plant.Plant, error) {
	var d plantDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	if d.UserID != uid {
		return nil, store.ErrNotFound
	}
	return d.plant(snap.Ref.ID), nil
}

func readPlants(it *fs.DocumentIterator) ([]plant.Plant, error) {
	defer it.Stop()

	plants := make([]plant.Plant, 0)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var d plantDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		plants = append(plants, *d.plant(snap.Ref.ID))
	}

	// Firestore orders by createdAt only; settle ties the same way every backend does
	plant.SortNewestFirst(plants)
	return plants, nil
}
