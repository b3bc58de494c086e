package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"

	"github.com/redmonkez12/plantopia/internal/profile"
)

type ProfileRepository struct {
	client *fs.Client
}

func NewProfileRepository(client *fs.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

func (r *ProfileRepository) doc(uid string) *fs.DocumentRef {
	return r.client.Collection(usersCollection).Doc(uid)
}

func (r *ProfileRepository) Get(ctx context.Context, uid string) (*profile.Profile, error) {
	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		return nil, classify("get profile", err)
	}

	var d profileDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, classify("decode profile", err)
	}
	return d.profile(snap.Ref.ID), nil
}

// Create writes users/{uid} only if it does not exist yet
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	if _, err := r.doc(p.UID).Create(ctx, toProfileDoc(p)); err != nil {
		return classify("create profile", err)
	}
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, uid string, patch profile.Patch, now time.Time) (*profile.Profile, error) {
	ref := r.doc(uid)
	var updated *profile.Profile

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var d profileDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}

		p := d.profile(uid)
		patch.Apply(p, now)
		updated = p
		return tx.Update(ref, profilePatchUpdates(patch, p))
	})
	if err != nil {
		return nil, classify("update profile", err)
	}

	return updated, nil
}
