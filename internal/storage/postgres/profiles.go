package postgres

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/plantopia/internal/database"
	"github.com/redmonkez12/plantopia/internal/profile"
)

// ProfileRepository handles profile persistence
type ProfileRepository struct {
	db *bun.DB
}

func NewProfileRepository(db *bun.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile by uid
func (r *ProfileRepository) Get(ctx context.Context, uid string) (*profile.Profile, error) {
	row := new(database.ProfileRow)
	err := r.db.NewSelect().
		Model(row).
		Where("uid = ?", uid).
		Scan(ctx)
	if err != nil {
		return nil, classify("get profile", err)
	}

	return profileFromRow(row), nil
}

// Create inserts a new profile. A concurrent insert for the same uid fails
// with the unique violation mapped to store.ErrAlreadyExists.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	_, err := r.db.NewInsert().
		Model(profileToRow(p)).
		Exec(ctx)
	if err != nil {
		return classify("create profile", err)
	}
	return nil
}

// Update applies the patch under a row lock
func (r *ProfileRepository) Update(ctx context.Context, uid string, patch profile.Patch, now time.Time) (*profile.Profile, error) {
	var updated *profile.Profile

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(database.ProfileRow)
		if err := tx.NewSelect().Model(row).Where("uid = ?", uid).For("UPDATE").Scan(ctx); err != nil {
			return err
		}

		p := profileFromRow(row)
		patch.Apply(p, now)

		if _, err := tx.NewUpdate().Model(profileToRow(p)).WherePK().Exec(ctx); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, classify("update profile", err)
	}

	return updated, nil
}

func profileToRow(p *profile.Profile) *database.ProfileRow {
	preferred := p.PreferredPlants
	if preferred == nil {
		preferred = []string{}
	}
	return &database.ProfileRow{
		UID:                 p.UID,
		Email:               p.Email,
		DisplayName:         p.DisplayName,
		PhotoURL:            p.PhotoURL,
		Location:            p.Location,
		ExperienceLevel:     string(p.ExperienceLevel),
		PreferredPlants:     preferred,
		CompletedOnboarding: p.CompletedOnboarding,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func profileFromRow(row *database.ProfileRow) *profile.Profile {
	p := &profile.Profile{
		UID:                 row.UID,
		Email:               row.Email,
		DisplayName:         row.DisplayName,
		PhotoURL:            row.PhotoURL,
		Location:            row.Location,
		ExperienceLevel:     profile.ExperienceLevel(row.ExperienceLevel),
		CompletedOnboarding: row.CompletedOnboarding,
		CreatedAt:           row.CreatedAt.UTC(),
		UpdatedAt:           row.UpdatedAt.UTC(),
	}
	if len(row.PreferredPlants) > 0 {
		p.PreferredPlants = row.PreferredPlants
	}
	return p
}
