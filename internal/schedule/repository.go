package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/skillswap/skillswap-api/internal/database"
)

var ErrNotFound = errors.New("session not found")

// Repository handles scheduled-session persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new session in pending state. The insert commits before
// the session is returned.
func (r *Repository) Create(ctx context.Context, requesterID, recipientID uuid.UUID, scheduledTime time.Time, note string) (*Session, error) {
	row := &database.ScheduledSession{
		RequesterID:   requesterID,
		RecipientID:   recipientID,
		ScheduledTime: scheduledTime,
		Message:       note,
		Status:        StatusPending,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session := mapDBSessionToModel(row)
	return &session, nil
}

// ListForUser returns sessions where the user is requester or recipient,
// latest scheduled time first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Session, error) {
	var rows []database.ScheduledSession

	err := r.db.NewSelect().
		Model(&rows).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("requester_id = ?", userID).
				WhereOr("recipient_id = ?", userID)
		}).
		Order("scheduled_time DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, mapDBSessionToModel(&rows[i]))
	}
	return sessions, nil
}

// UpdateStatus sets the status of an existing session.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.NewUpdate().
		Model((*database.ScheduledSession)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func mapDBSessionToModel(row *database.ScheduledSession) Session {
	return Session{
		ID:            row.ID,
		RequesterID:   row.RequesterID,
		RecipientID:   row.RecipientID,
		ScheduledTime: row.ScheduledTime,
		Message:       row.Message,
		Status:        row.Status,
	}
}
