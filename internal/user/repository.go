package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/skillswap/skillswap-api/internal/database"
)

var ErrNotFound = errors.New("user not found")

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetOrCreate returns the user for the given email, creating the record on
// first login. The insert uses ON CONFLICT DO NOTHING so concurrent first
// logins for the same email cannot create duplicates; the unique constraint
// on email is the arbiter, not an application-level check.
func (r *Repository) GetOrCreate(ctx context.Context, email, displayNameHint string) (*User, error) {
	displayName := strings.TrimSpace(displayNameHint)
	if displayName == "" {
		displayName = localPart(email)
	}

	dbUser := &database.User{
		Email:       email,
		DisplayName: displayName,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// Re-read regardless of whether the insert won the race.
	return r.GetByEmail(ctx, email)
}

// GetProfileByName loads the public profile for a display name, including
// offered/wanted skills and past exchanges.
func (r *Repository) GetProfileByName(ctx context.Context, name string) (*Profile, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Relation("SkillsOffered").
		Relation("SkillsWanted").
		Relation("Exchanges").
		Where("display_name = ?", name).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile := &Profile{
		Name:          dbUser.DisplayName,
		Email:         dbUser.Email,
		Tagline:       dbUser.Tagline,
		SkillsOffered: make([]SkillOffered, 0, len(dbUser.SkillsOffered)),
		SkillsWanted:  make([]SkillWanted, 0, len(dbUser.SkillsWanted)),
		Exchanges:     make([]Exchange, 0, len(dbUser.Exchanges)),
	}
	for _, s := range dbUser.SkillsOffered {
		profile.SkillsOffered = append(profile.SkillsOffered, SkillOffered{
			Name:               s.Name,
			Level:              s.Level,
			ExchangesCompleted: s.ExchangesCompleted,
		})
	}
	for _, s := range dbUser.SkillsWanted {
		profile.SkillsWanted = append(profile.SkillsWanted, SkillWanted{
			Name:     s.Name,
			Priority: s.Priority,
		})
	}
	for _, ex := range dbUser.Exchanges {
		profile.Exchanges = append(profile.Exchanges, Exchange{
			PartnerName: ex.PartnerName,
			Teaching:    ex.Teaching,
			Learning:    ex.Learning,
			Status:      ex.Status,
		})
	}

	return profile, nil
}

// UpdateProfile applies the supplied profile fields in one transaction.
// Skill lists, when present, replace the stored lists wholesale.
func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().
			Model((*database.User)(nil)).
			Set("updated_at = NOW()").
			Where("id = ?", userID)

		if update.Name != nil {
			q = q.Set("display_name = ?", *update.Name)
		}
		if update.Tagline != nil {
			q = q.Set("tagline = ?", *update.Tagline)
		}

		result, err := q.Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		if update.SkillsOffered != nil {
			if err := replaceSkillsOffered(ctx, tx, userID, update.SkillsOffered); err != nil {
				return err
			}
		}
		if update.SkillsWanted != nil {
			if err := replaceSkillsWanted(ctx, tx, userID, update.SkillsWanted); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

func replaceSkillsOffered(ctx context.Context, tx bun.Tx, userID uuid.UUID, skills []SkillOffered) error {
	_, err := tx.NewDelete().
		Model((*database.UserSkillOffered)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear offered skills: %w", err)
	}

	if len(skills) == 0 {
		return nil
	}

	rows := make([]*database.UserSkillOffered, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, &database.UserSkillOffered{
			UserID:             userID,
			Name:               s.Name,
			Level:              s.Level,
			ExchangesCompleted: s.ExchangesCompleted,
		})
	}

	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert offered skills: %w", err)
	}
	return nil
}

func replaceSkillsWanted(ctx context.Context, tx bun.Tx, userID uuid.UUID, skills []SkillWanted) error {
	_, err := tx.NewDelete().
		Model((*database.UserSkillWanted)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear wanted skills: %w", err)
	}

	if len(skills) == 0 {
		return nil
	}

	rows := make([]*database.UserSkillWanted, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, &database.UserSkillWanted{
			UserID:   userID,
			Name:     s.Name,
			Priority: s.Priority,
		})
	}

	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert wanted skills: %w", err)
	}
	return nil
}

// localPart returns the part of an email address before the '@', used as the
// display-name fallback for first logins without a name hint.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:          dbu.ID,
		Email:       dbu.Email,
		DisplayName: dbu.DisplayName,
		Tagline:     dbu.Tagline,
		CreatedAt:   dbu.CreatedAt,
		UpdatedAt:   dbu.UpdatedAt,
	}
}
