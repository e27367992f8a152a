package repository

import (
	"log"

	"campusbarter/objects"
)

// CreateMessage appends a message to an exchange thread
func (repo *Repository) CreateMessage(message *objects.Message) error {
	log.Printf("[REPOSITORY] Creating message on exchange %s from sender %s",
		message.ExchangeID, message.SenderID)

	_, err := repo.db.Exec(
		`INSERT INTO messages (id, exchange_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		message.ID, message.ExchangeID, message.SenderID, message.Content, message.CreatedAt,
	)
	if err != nil {
		log.Printf("[REPOSITORY] Error creating message: %v", err)
		return err
	}

	log.Printf("[REPOSITORY] Message %s created successfully", message.ID)
	return nil
}

// FindMessagesByExchange retrieves the thread of an exchange oldest-first
func (repo *Repository) FindMessagesByExchange(exchangeID string) ([]*objects.Message, error) {
	log.Printf("[REPOSITORY] Getting messages for exchange: %s", exchangeID)

	rows, err := repo.db.Query(
		`SELECT id, exchange_id, sender_id, content, created_at
		FROM messages
		WHERE exchange_id = $1
		ORDER BY created_at ASC`,
		exchangeID,
	)
	if err != nil {
		log.Printf("[REPOSITORY] Error getting messages for exchange %s: %v", exchangeID, err)
		return nil, err
	}
	defer rows.Close()

	var messages []*objects.Message
	for rows.Next() {
		message := &objects.Message{}
		err := rows.Scan(&message.ID, &message.ExchangeID, &message.SenderID,
			&message.Content, &message.CreatedAt)
		if err != nil {
			log.Printf("[REPOSITORY] Error scanning message row: %v", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	log.Printf("[REPOSITORY] Found %d messages for exchange %s", len(messages), exchangeID)
	return messages, rows.Err()
}
