package firestore

import (
	"time"

	fs "cloud.google.com/go/firestore"

	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
)

// profileDoc is the users/{uid} document
type profileDoc struct {
	UID                 string    `firestore:"uid"`
	Email               string    `firestore:"email"`
	DisplayName         string    `firestore:"displayName"`
	PhotoURL            string    `firestore:"photoURL,omitempty"`
	Location            string    `firestore:"location,omitempty"`
	ExperienceLevel     string    `firestore:"experienceLevel,omitempty"`
	PreferredPlants     []string  `firestore:"preferredPlants,omitempty"`
	CompletedOnboarding bool      `firestore:"completedOnboarding"`
	CreatedAt           time.Time `firestore:"createdAt"`
	UpdatedAt           time.Time `firestore:"updatedAt"`
}

type scheduleDoc struct {
	Frequency   int       `firestore:"frequency"`
	LastWatered time.Time `firestore:"lastWatered"`
}

// plantDoc is the plants/{id} document
type plantDoc struct {
	UserID           string       `firestore:"userId"`
	CommonName       string       `firestore:"commonName"`
	Species          string       `firestore:"species,omitempty"`
	Photo            string       `firestore:"photo,omitempty"`
	Location         string       `firestore:"location,omitempty"`
	HealthStatus     string       `firestore:"healthStatus,omitempty"`
	Notes            string       `firestore:"notes,omitempty"`
	WateringSchedule *scheduleDoc `firestore:"wateringSchedule,omitempty"`
	CreatedAt        time.Time    `firestore:"createdAt"`
	UpdatedAt        time.Time    `firestore:"updatedAt"`
}

func toProfileDoc(p *profile.Profile) *profileDoc {
	return &profileDoc{
		UID:                 p.UID,
		Email:               p.Email,
		DisplayName:         p.DisplayName,
		PhotoURL:            p.PhotoURL,
		Location:            p.Location,
		ExperienceLevel:     string(p.ExperienceLevel),
		PreferredPlants:     p.PreferredPlants,
		CompletedOnboarding: p.CompletedOnboarding,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func (d *profileDoc) profile(uid string) *profile.Profile {
	p := &profile.Profile{
		UID:                 uid,
		Email:               d.Email,
		DisplayName:         d.DisplayName,
		PhotoURL:            d.PhotoURL,
		Location:            d.Location,
		ExperienceLevel:     profile.ExperienceLevel(d.ExperienceLevel),
		CompletedOnboarding: d.CompletedOnboarding,
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
	}
	if len(d.PreferredPlants) > 0 {
		p.PreferredPlants = d.PreferredPlants
	}
	return p
}

func toPlantDoc(p *plant.Plant) *plantDoc {
	d := &plantDoc{
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
		d.WateringSchedule = &scheduleDoc{Frequency: ws.FrequencyDays, LastWatered: ws.LastWatered}
	}
	return d
}

func (d *plantDoc) plant(id string) *plant.Plant {
	p := &plant.Plant{
		ID:           id,
		UserID:       d.UserID,
		CommonName:   d.CommonName,
		Species:      d.Species,
		Photo:        d.Photo,
		Location:     plant.Location(d.Location),
		HealthStatus: plant.HealthStatus(d.HealthStatus),
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if ws := d.WateringSchedule; ws != nil {
		p.WateringSchedule = &plant.WateringSchedule{
			FrequencyDays: ws.Frequency,
			LastWatered:   ws.LastWatered.UTC(),
		}
	}
	return p
}

// Mutations write only the fields they change. Documents may carry fields this
// service does not model, and those must survive an update.

func profilePatchUpdates(patch profile.Patch, p *profile.Profile) []fs.Update {
	var updates []fs.Update
	if patch.DisplayName != nil {
		updates = append(updates, fs.Update{Path: "displayName", Value: p.DisplayName})
	}
	if patch.PhotoURL != nil {
		updates = append(updates, fs.Update{Path: "photoURL", Value: p.PhotoURL})
	}
	if patch.Location != nil {
		updates = append(updates, fs.Update{Path: "location", Value: p.Location})
	}
	if patch.ExperienceLevel != nil {
		updates = append(updates, fs.Update{Path: "experienceLevel", Value: string(p.ExperienceLevel)})
	}
	if patch.PreferredPlants != nil {
		preferred := p.PreferredPlants
		if preferred == nil {
			preferred = []string{}
		}
		updates = append(updates, fs.Update{Path: "preferredPlants", Value: preferred})
	}
	if patch.CompletedOnboarding != nil {
		updates = append(updates, fs.Update{Path: "completedOnboarding", Value: p.CompletedOnboarding})
	}
	return append(updates, fs.Update{Path: "updatedAt", Value: p.UpdatedAt})
}

// plantPatchUpdates reads the new values from p, the plant after patch was applied.
// hadSchedule reports whether the stored document already held a schedule map.
func plantPatchUpdates(patch plant.Patch, p *plant.Plant, hadSchedule bool) []fs.Update {
	var updates []fs.Update
	if patch.CommonName != nil {
		updates = append(updates, fs.Update{Path: "commonName", Value: p.CommonName})
	}
	if patch.Species != nil {
		updates = append(updates, fs.Update{Path: "species", Value: p.Species})
	}
	if patch.Photo != nil {
		updates = append(updates, fs.Update{Path: "photo", Value: p.Photo})
	}
	if patch.Location != nil {
		updates = append(updates, fs.Update{Path: "location", Value: string(p.Location)})
	}
	if patch.HealthStatus != nil {
		updates = append(updates, fs.Update{Path: "healthStatus", Value: string(p.HealthStatus)})
	}
	if patch.Notes != nil {
		updates = append(updates, fs.Update{Path: "notes", Value: p.Notes})
	}
	if patch.WateringSchedule != nil {
		updates = append(updates, scheduleUpdates(p.WateringSchedule, hadSchedule, true)...)
	}
	return append(updates, fs.Update{Path: "updatedAt", Value: p.UpdatedAt})
}

func wateringUpdates(p *plant.Plant, hadSchedule bool) []fs.Update {
	return append(scheduleUpdates(p.WateringSchedule, hadSchedule, false),
		fs.Update{Path: "updatedAt", Value: p.UpdatedAt})
}

// scheduleUpdates sets nested paths when the schedule map exists, so unknown
// keys inside it are kept, and writes the whole map otherwise
func scheduleUpdates(ws *plant.WateringSchedule, hadSchedule, withFrequency bool) []fs.Update {
	if !hadSchedule {
		return []fs.Update{{
			Path:  "wateringSchedule",
			Value: &scheduleDoc{Frequency: ws.FrequencyDays, LastWatered: ws.LastWatered},
		}}
	}

	updates := []fs.Update{{Path: "wateringSchedule.lastWatered", Value: ws.LastWatered}}
	if withFrequency {
		updates = append(updates, fs.Update{Path: "wateringSchedule.frequency", Value: ws.FrequencyDays})
	}
	return updates
}
