package engine

import (
	"log"
	"strings"

	"campusbarter/apperr"
	"campusbarter/objects"
)

// SendMessage appends a message to an exchange thread. Only the two
// negotiating parties may write.
func (eng *Engine) SendMessage(actorID, exchangeID, content string) (*objects.Message, error) {
	log.Printf("[ENGINE] Sending message on exchange %s from user %s", exchangeID, actorID)

	exchange, err := eng.store.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, apperr.E(apperr.NotFound, "exchange not found")
	}
	if !exchange.IsParty(actorID) {
		return nil, apperr.E(apperr.PermissionDenied, "only the requester or the owner can send messages")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.E(apperr.InvalidInput, "message content is required")
	}

	message := objects.NewMessage(exchangeID, actorID, content)
	if err := eng.store.CreateMessage(message); err != nil {
		return nil, err
	}
	return message, nil
}

// Messages returns the exchange thread oldest-first. Only the two
// negotiating parties may read.
func (eng *Engine) Messages(actorID, exchangeID string) ([]*objects.Message, error) {
	exchange, err := eng.store.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, apperr.E(apperr.NotFound, "exchange not found")
	}
	if !exchange.IsParty(actorID) {
		return nil, apperr.E(apperr.PermissionDenied, "only the requester or the owner can read messages")
	}
	return eng.store.FindMessagesByExchange(exchangeID)
}
