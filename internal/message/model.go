package message

import "time"

const (
	// TypeMessage is a plain direct message.
	TypeMessage = "message"
	// TypeSwapRequest marks a message that proposes a skill swap.
	TypeSwapRequest = "swap_request"
)

// Message is a direct message between two users.
type Message struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// SendInput is the payload for sending a message.
type SendInput struct {
	ReceiverEmail string `json:"receiver_email"`
	Content       string `json:"content"`
	Type          string `json:"type"`
}
