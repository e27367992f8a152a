package objects

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Exchange represents a barter negotiation between a requester and the
// owner of the target item. OfferedItemID is nil for a pure ask.
type Exchange struct {
	ID                 string
	RequesterID        string
	OwnerID            string
	TargetItemID       string
	OfferedItemID      *string
	Status             string
	Message            string
	MeetupLocationID   *int // set when the owner accepts
	RequesterConfirmed bool
	OwnerConfirmed     bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Exchange status constants
const (
	ExchangeStatusPending   = "PENDING"
	ExchangeStatusAccepted  = "ACCEPTED"
	ExchangeStatusRejected  = "REJECTED"
	ExchangeStatusCompleted = "COMPLETED"
	ExchangeStatusCancelled = "CANCELLED"
)

// NewExchange creates a new exchange request with initial values
func NewExchange(requesterID, ownerID, targetItemID string, offeredItemID *string, message string) *Exchange {
	now := time.Now().UTC()
	return &Exchange{
		ID:            uuid.NewString(),
		RequesterID:   requesterID,
		OwnerID:       ownerID,
		TargetItemID:  targetItemID,
		OfferedItemID: offeredItemID,
		Status:        ExchangeStatusPending,
		Message:       message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsTerminal reports whether the exchange can take no further transitions
func (e *Exchange) IsTerminal() bool {
	switch e.Status {
	case ExchangeStatusRejected, ExchangeStatusCompleted, ExchangeStatusCancelled:
		return true
	}
	return false
}

// IsParty reports whether the user is one of the two negotiating parties
func (e *Exchange) IsParty(userID string) bool {
	return userID == e.RequesterID || userID == e.OwnerID
}

// ValidateExchangeStatus checks a status string loaded from storage against
// the closed set of exchange statuses
func ValidateExchangeStatus(status string) error {
	switch status {
	case ExchangeStatusPending, ExchangeStatusAccepted, ExchangeStatusRejected,
		ExchangeStatusCompleted, ExchangeStatusCancelled:
		return nil
	}
	return fmt.Errorf("unknown exchange status %q", status)
}
