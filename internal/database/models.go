package database

import (
	"time"

	"github.com/uptrace/bun"
)

// ProfileRow maps the profiles table
type ProfileRow struct {
	bun.BaseModel `bun:"table:profiles,alias:pr"`

	UID                 string    `bun:"uid,pk"`
	Email               string    `bun:"email,notnull"`
	DisplayName         string    `bun:"display_name,notnull"`
	PhotoURL            string    `bun:"photo_url,notnull"`
	Location            string    `bun:"location,notnull"`
	ExperienceLevel     string    `bun:"experience_level,notnull"`
	PreferredPlants     []string  `bun:"preferred_plants,array"`
	CompletedOnboarding bool      `bun:"completed_onboarding,notnull"`
	CreatedAt           time.Time `bun:"created_at,notnull"`
	UpdatedAt           time.Time `bun:"updated_at,notnull"`
}

// PlantRow maps the plants table. A plant without a watering schedule has
// NULL frequency and last watered columns.
type PlantRow struct {
	bun.BaseModel `bun:"table:plants,alias:pl"`

	ID                    string     `bun:"id,pk"`
	UserID                string     `bun:"user_id,notnull"`
	CommonName            string     `bun:"common_name,notnull"`
	Species               string     `bun:"species,notnull"`
	Photo                 string     `bun:"photo,notnull"`
	Location              string     `bun:"location,notnull"`
	HealthStatus          string     `bun:"health_status,notnull"`
	Notes                 string     `bun:"notes,notnull"`
	WateringFrequencyDays *int       `bun:"watering_frequency_days"`
	LastWatered           *time.Time `bun:"last_watered"`
	CreatedAt             time.Time  `bun:"created_at,notnull"`
	UpdatedAt             time.Time  `bun:"updated_at,notnull"`
}
