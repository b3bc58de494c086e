package profile

import (
	"slices"
	"strings"
	"time"

	"github.com/redmonkez12/plantopia/internal/session"
	"github.com/redmonkez12/plantopia/internal/store"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExpert       ExperienceLevel = "expert"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceExpert:
		return true
	}
	return false
}

// Profile is the durable user record, keyed by the identity provider's uid.
type Profile struct {
	UID                 string          `json:"uid"`
	Email               string          `json:"email"`
	DisplayName         string          `json:"displayName"`
	PhotoURL            string          `json:"photoURL,omitempty"`
	Location            string          `json:"location,omitempty"`
	ExperienceLevel     ExperienceLevel `json:"experienceLevel,omitempty"`
	PreferredPlants     []string        `json:"preferredPlants,omitempty"`
	CompletedOnboarding bool            `json:"completedOnboarding"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// Hint returns the cookie snapshot of this profile
func (p *Profile) Hint() session.ProfileHint {
	return session.ProfileHint{
		UID:                 p.UID,
		Email:               p.Email,
		DisplayName:         p.DisplayName,
		PhotoURL:            p.PhotoURL,
		CompletedOnboarding: p.CompletedOnboarding,
	}
}

// Seed carries the identity fields used to create a profile on first login
type Seed struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Patch is a typed partial update. Only non-nil fields are applied.
type Patch struct {
	DisplayName         *string          `json:"displayName,omitempty"`
	PhotoURL            *string          `json:"photoURL,omitempty"`
	Location            *string          `json:"location,omitempty"`
	ExperienceLevel     *ExperienceLevel `json:"experienceLevel,omitempty"`
	PreferredPlants     *[]string        `json:"preferredPlants,omitempty"`
	CompletedOnboarding *bool            `json:"completedOnboarding,omitempty"`
}

func (p Patch) Validate() error {
	if p.DisplayName != nil && strings.TrimSpace(*p.DisplayName) == "" {
		return store.Invalid("displayName must not be empty")
	}
	if p.ExperienceLevel != nil && *p.ExperienceLevel != "" && !p.ExperienceLevel.Valid() {
		return store.Invalid("experienceLevel %q is not one of beginner, intermediate, expert", *p.ExperienceLevel)
	}
	if p.PreferredPlants != nil {
		for _, plant := range *p.PreferredPlants {
			if strings.TrimSpace(plant) == "" {
				return store.Invalid("preferredPlants must not contain empty entries")
			}
		}
	}
	return nil
}

// Apply merges the patch into p and stamps UpdatedAt
func (p Patch) Apply(profile *Profile, now time.Time) {
	if p.DisplayName != nil {
		profile.DisplayName = *p.DisplayName
	}
	if p.PhotoURL != nil {
		profile.PhotoURL = *p.PhotoURL
	}
	if p.Location != nil {
		profile.Location = *p.Location
	}
	if p.ExperienceLevel != nil {
		profile.ExperienceLevel = *p.ExperienceLevel
	}
	if p.PreferredPlants != nil {
		profile.PreferredPlants = slices.Clone(*p.PreferredPlants)
	}
	if p.CompletedOnboarding != nil {
		profile.CompletedOnboarding = *p.CompletedOnboarding
	}
	profile.UpdatedAt = now
}

// OnboardingInput is the form submitted on the onboarding page
type OnboardingInput struct {
	Location        string          `json:"location"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	PreferredPlants []string        `json:"preferredPlants"`
}

func (in OnboardingInput) Validate() error {
	if strings.TrimSpace(in.Location) == "" {
		return store.Invalid("location is required")
	}
	if !in.ExperienceLevel.Valid() {
		return store.Invalid("please select your experience level")
	}
	if len(in.PreferredPlants) == 0 {
		return store.Invalid("select at least one plant type")
	}
	return nil
}

// Patch converts the form into a profile patch that also marks onboarding done
func (in OnboardingInput) Patch() Patch {
	location := strings.TrimSpace(in.Location)
	level := in.ExperienceLevel
	plants := slices.Clone(in.PreferredPlants)
	done := true
	return Patch{
		Location:            &location,
		ExperienceLevel:     &level,
		PreferredPlants:     &plants,
		CompletedOnboarding: &done,
	}
}
