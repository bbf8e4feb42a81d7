package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the users table row.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email       string    `bun:"email,notnull"`
	DisplayName string    `bun:"display_name,notnull"`
	Tagline     string    `bun:"tagline,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	SkillsOffered []*UserSkillOffered `bun:"rel:has-many,join:id=user_id"`
	SkillsWanted  []*UserSkillWanted  `bun:"rel:has-many,join:id=user_id"`
	Exchanges     []*Exchange         `bun:"rel:has-many,join:id=user_id"`
}

// UserSkillOffered is a skill a user teaches, shown on the profile.
type UserSkillOffered struct {
	bun.BaseModel `bun:"table:user_skills_offered"`

	ID                 int64     `bun:"id,pk,autoincrement"`
	UserID             uuid.UUID `bun:"user_id,type:uuid,notnull"`
	Name               string    `bun:"name,notnull"`
	Level              string    `bun:"level,notnull"`
	ExchangesCompleted int       `bun:"exchanges_completed,notnull"`
}

// UserSkillWanted is a skill a user wants to learn, shown on the profile.
type UserSkillWanted struct {
	bun.BaseModel `bun:"table:user_skills_wanted"`

	ID       int64     `bun:"id,pk,autoincrement"`
	UserID   uuid.UUID `bun:"user_id,type:uuid,notnull"`
	Name     string    `bun:"name,notnull"`
	Priority string    `bun:"priority,notnull"`
}

// Exchange is a completed or in-progress skill exchange shown on the profile.
type Exchange struct {
	bun.BaseModel `bun:"table:exchanges"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      uuid.UUID `bun:"user_id,type:uuid,notnull"`
	PartnerName string    `bun:"partner_name,notnull"`
	Teaching    string    `bun:"teaching,notnull"`
	Learning    string    `bun:"learning,notnull"`
	Status      string    `bun:"status,notnull"`
}

// Skill is a marketplace listing. Listings are append-only: there is no
// update or delete path.
type Skill struct {
	bun.BaseModel `bun:"table:skills"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Offering    string    `bun:"offering,notnull"`
	Wanting     string    `bun:"wanting,notnull"`
	Description string    `bun:"description"`
	Category    string    `bun:"category"`
	Tags        []string  `bun:"tags,array"`
	OwnerEmail  string    `bun:"owner_email,notnull"`
	Rating      int       `bun:"rating,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Message is a direct message between two users, addressed by email.
type Message struct {
	bun.BaseModel `bun:"table:messages"`

	ID            int64     `bun:"id,pk,autoincrement"`
	SenderEmail   string    `bun:"sender_email,notnull"`
	ReceiverEmail string    `bun:"receiver_email,notnull"`
	Content       string    `bun:"content,notnull"`
	Type          string    `bun:"type,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ScheduledSession is a proposed teaching session between two users.
type ScheduledSession struct {
	bun.BaseModel `bun:"table:sessions"`

	ID            int64     `bun:"id,pk,autoincrement"`
	RequesterID   uuid.UUID `bun:"requester_id,type:uuid,notnull"`
	RecipientID   uuid.UUID `bun:"recipient_id,type:uuid,notnull"`
	ScheduledTime time.Time `bun:"scheduled_time,notnull"`
	Message       string    `bun:"message,notnull"`
	Status        string    `bun:"status,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
