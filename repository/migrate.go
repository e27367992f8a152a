package repository

import (
	"database/sql"
	"log"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so running at every startup is safe.
func Migrate(db *sql.DB) error {
	log.Println("[REPOSITORY] Running schema migration")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			nickname TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id CHAR(36) PRIMARY KEY,
			owner_id CHAR(36) NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS items_owner_idx ON items (owner_id)`,
		`CREATE INDEX IF NOT EXISTS items_status_idx ON items (status)`,
		`CREATE TABLE IF NOT EXISTS exchanges (
			id CHAR(36) PRIMARY KEY,
			requester_id CHAR(36) NOT NULL REFERENCES users(id),
			owner_id CHAR(36) NOT NULL REFERENCES users(id),
			target_item_id CHAR(36) NOT NULL REFERENCES items(id),
			offered_item_id CHAR(36) REFERENCES items(id),
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			meetup_location_id INTEGER,
			requester_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			owner_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS exchanges_requester_idx ON exchanges (requester_id)`,
		`CREATE INDEX IF NOT EXISTS exchanges_owner_idx ON exchanges (owner_id)`,
		`CREATE INDEX IF NOT EXISTS exchanges_target_item_idx ON exchanges (target_item_id)`,
		`CREATE INDEX IF NOT EXISTS exchanges_offered_item_idx ON exchanges (offered_item_id)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id CHAR(36) PRIMARY KEY,
			exchange_id CHAR(36) NOT NULL REFERENCES exchanges(id),
			sender_id CHAR(36) NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS messages_exchange_idx ON messages (exchange_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("[REPOSITORY] Migration statement failed: %v", err)
			return err
		}
	}

	log.Println("[REPOSITORY] Schema migration completed")
	return nil
}
