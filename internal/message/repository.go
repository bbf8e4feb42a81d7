package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/skillswap/skillswap-api/internal/database"
)

var (
	ErrMissingFields = errors.New("receiver_email and content are required")
	ErrInvalidType   = errors.New("type must be message or swap_request")
)

// Repository handles message persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Send stores a message from sender to receiver. The type defaults to a
// plain message when absent.
func (r *Repository) Send(ctx context.Context, senderEmail string, input SendInput) (*Message, error) {
	if input.ReceiverEmail == "" || input.Content == "" {
		return nil, ErrMissingFields
	}

	msgType := input.Type
	if msgType == "" {
		msgType = TypeMessage
	}
	if msgType != TypeMessage && msgType != TypeSwapRequest {
		return nil, ErrInvalidType
	}

	row := &database.Message{
		SenderEmail:   senderEmail,
		ReceiverEmail: input.ReceiverEmail,
		Content:       input.Content,
		Type:          msgType,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	msg := mapDBMessageToModel(row)
	return &msg, nil
}

// ListForUser returns all messages the user sent or received, newest first.
func (r *Repository) ListForUser(ctx context.Context, email string) ([]Message, error) {
	var rows []database.Message

	err := r.db.NewSelect().
		Model(&rows).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("sender_email = ?", email).
				WhereOr("receiver_email = ?", email)
		}).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, mapDBMessageToModel(&rows[i]))
	}
	return messages, nil
}

func mapDBMessageToModel(row *database.Message) Message {
	return Message{
		ID:        row.ID,
		Sender:    row.SenderEmail,
		Receiver:  row.ReceiverEmail,
		Content:   row.Content,
		Type:      row.Type,
		Timestamp: row.CreatedAt,
	}
}
