// Package plant manages a user's plant collection: records, watering
// schedules, photos and live snapshots of the collection.
package plant

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/redmonkez12/plantopia/internal/store"
)

const maxNotesLen = 2000

type Location string

const (
	LocationIndoor  Location = "indoor"
	LocationOutdoor Location = "outdoor"
)

func (l Location) Valid() bool {
	return l == LocationIndoor || l == LocationOutdoor
}

type HealthStatus string

const (
	HealthHealthy        HealthStatus = "healthy"
	HealthNeedsAttention HealthStatus = "needsAttention"
	HealthSick           HealthStatus = "sick"
)

func (h HealthStatus) Valid() bool {
	switch h {
	case HealthHealthy, HealthNeedsAttention, HealthSick:
		return true
	}
	return false
}

// WateringSchedule tracks how often a plant is watered and when it last was
type WateringSchedule struct {
	FrequencyDays int       `json:"frequencyDays"`
	LastWatered   time.Time `json:"lastWatered"`
}

// NextWatering is when the plant is due again
func (w WateringSchedule) NextWatering() time.Time {
	return w.LastWatered.AddDate(0, 0, w.FrequencyDays)
}

type Plant struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	CommonName       string            `json:"commonName"`
	Species          string            `json:"species,omitempty"`
	Photo            string            `json:"photo,omitempty"`
	Location         Location          `json:"location,omitempty"`
	HealthStatus     HealthStatus      `json:"healthStatus,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	WateringSchedule *WateringSchedule `json:"wateringSchedule,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NeedsWater reports whether the plant is due for watering at now
func (p *Plant) NeedsWater(now time.Time) bool {
	if p.WateringSchedule == nil || p.WateringSchedule.FrequencyDays <= 0 {
		return false
	}
	return !now.Before(p.WateringSchedule.NextWatering())
}

// ScheduleInput sets a watering schedule. LastWatered defaults to now.
type ScheduleInput struct {
	FrequencyDays int        `json:"frequencyDays"`
	LastWatered   *time.Time `json:"lastWatered,omitempty"`
}

func (s *ScheduleInput) validate() error {
	if s.FrequencyDays <= 0 {
		return store.Invalid("wateringSchedule.frequencyDays must be a positive number of days")
	}
	return nil
}

func (s *ScheduleInput) schedule(now time.Time) *WateringSchedule {
	last := now
	if s.LastWatered != nil {
		last = s.LastWatered.UTC()
	}
	return &WateringSchedule{FrequencyDays: s.FrequencyDays, LastWatered: last}
}

// Input is the add-plant form
type Input struct {
	CommonName       string         `json:"commonName"`
	Species          string         `json:"species,omitempty"`
	Location         Location       `json:"location,omitempty"`
	HealthStatus     HealthStatus   `json:"healthStatus,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	WateringSchedule *ScheduleInput `json:"wateringSchedule,omitempty"`
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.CommonName) == "" {
		return store.Invalid("commonName is required")
	}
	if in.Location != "" && !in.Location.Valid() {
		return store.Invalid("location %q is not one of indoor, outdoor", in.Location)
	}
	if in.HealthStatus != "" && !in.HealthStatus.Valid() {
		return store.Invalid("healthStatus %q is not one of healthy, needsAttention, sick", in.HealthStatus)
	}
	if len(in.Notes) > maxNotesLen {
		return store.Invalid("notes must be at most %d characters", maxNotesLen)
	}
	if in.WateringSchedule != nil {
		return in.WateringSchedule.validate()
	}
	return nil
}

// Plant builds a new record owned by uid
func (in Input) Plant(id, uid, photoURL string, now time.Time) *Plant {
	p := &Plant{
		ID:           id,
		UserID:       uid,
		CommonName:   strings.TrimSpace(in.CommonName),
		Species:      strings.TrimSpace(in.Species),
		Photo:        photoURL,
		Location:     in.Location,
		HealthStatus: in.HealthStatus,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.WateringSchedule != nil {
		p.WateringSchedule = in.WateringSchedule.schedule(now)
	}
	return p
}

// Patch is a typed partial update. Only non-nil fields are applied.
type Patch struct {
	CommonName       *string        `json:"commonName,omitempty"`
	Species          *string        `json:"species,omitempty"`
	Photo            *string        `json:"photo,omitempty"`
	Location         *Location      `json:"location,omitempty"`
	HealthStatus     *HealthStatus  `json:"healthStatus,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	WateringSchedule *ScheduleInput `json:"wateringSchedule,omitempty"`
}

func (p Patch) Validate() error {
	if p.CommonName != nil && strings.TrimSpace(*p.CommonName) == "" {
		return store.Invalid("commonName must not be empty")
	}
	if p.Location != nil && *p.Location != "" && !p.Location.Valid() {
		return store.Invalid("location %q is not one of indoor, outdoor", *p.Location)
	}
	if p.HealthStatus != nil && *p.HealthStatus != "" && !p.HealthStatus.Valid() {
		return store.Invalid("healthStatus %q is not one of healthy, needsAttention, sick", *p.HealthStatus)
	}
	if p.Notes != nil && len(*p.Notes) > maxNotesLen {
		return store.Invalid("notes must be at most %d characters", maxNotesLen)
	}
	if p.WateringSchedule != nil {
		return p.WateringSchedule.validate()
	}
	return nil
}

// Apply merges the patch into plant and stamps UpdatedAt. A schedule patch
// without lastWatered keeps the existing date.
func (p Patch) Apply(plant *Plant, now time.Time) {
	if p.CommonName != nil {
		plant.CommonName = strings.TrimSpace(*p.CommonName)
	}
	if p.Species != nil {
		plant.Species = strings.TrimSpace(*p.Species)
	}
	if p.Photo != nil {
		plant.Photo = *p.Photo
	}
	if p.Location != nil {
		plant.Location = *p.Location
	}
	if p.HealthStatus != nil {
		plant.HealthStatus = *p.HealthStatus
	}
	if p.Notes != nil {
		plant.Notes = *p.Notes
	}
	if p.WateringSchedule != nil {
		next := p.WateringSchedule.schedule(now)
		if p.WateringSchedule.LastWatered == nil && plant.WateringSchedule != nil {
			next.LastWatered = plant.WateringSchedule.LastWatered
		}
		plant.WateringSchedule = next
	}
	plant.UpdatedAt = now
}

// SortNewestFirst orders plants by createdAt descending, ties broken by id
func SortNewestFirst(plants []Plant) {
	slices.SortStableFunc(plants, func(a, b Plant) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
