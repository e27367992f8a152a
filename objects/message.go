package objects

import (
	"time"

	"github.com/google/uuid"
)

// Message is a chat message attached to an exchange thread. Append-only.
type Message struct {
	ID         string
	ExchangeID string
	SenderID   string
	Content    string
	CreatedAt  time.Time
}

// NewMessage creates a new message on an exchange thread
func NewMessage(exchangeID, senderID, content string) *Message {
	return &Message{
		ID:         uuid.NewString(),
		ExchangeID: exchangeID,
		SenderID:   senderID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}
