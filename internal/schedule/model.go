package schedule

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is an allowed session status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Session is a proposed teaching session between two users.
type Session struct {
	ID            int64     `json:"id"`
	RequesterID   uuid.UUID `json:"requester_id"`
	RecipientID   uuid.UUID `json:"recipient_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
}

// ScheduleInput is the payload for scheduling a session.
type ScheduleInput struct {
	RecipientEmail string `json:"recipient_email"`
	ScheduledTime  string `json:"scheduled_time"`
	Message        string `json:"message"`
}

// StatusInput is the payload for a status update.
type StatusInput struct {
	Status string `json:"status"`
}
