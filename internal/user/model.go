package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	Tagline     string    `json:"tagline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SkillOffered is a skill the user teaches, shown on their public profile.
type SkillOffered struct {
	Name               string `json:"name"`
	Level              string `json:"level"`
	ExchangesCompleted int    `json:"exchanges_completed"`
}

// SkillWanted is a skill the user wants to learn.
type SkillWanted struct {
	Name     string `json:"name"`
	Priority string `json:"priority"`
}

// Exchange is a past or ongoing skill exchange shown on the profile.
type Exchange struct {
	PartnerName string `json:"partner_name"`
	Teaching    string `json:"teaching"`
	Learning    string `json:"learning"`
	Status      string `json:"status"`
}

// Profile is the public profile read model.
type Profile struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Tagline       string         `json:"tagline"`
	SkillsOffered []SkillOffered `json:"skills_offered"`
	SkillsWanted  []SkillWanted  `json:"skills_wanted"`
	Exchanges     []Exchange     `json:"exchanges"`
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged"; nil slices mean "leave the list as is".
type ProfileUpdate struct {
	Name          *string
	Tagline       *string
	SkillsOffered []SkillOffered
	SkillsWanted  []SkillWanted
}
