package repository

import (
	"database/sql"
	"log"

	"campusbarter/apperr"
	"campusbarter/engine"
	"campusbarter/objects"
)

const exchangeColumns = `id, requester_id, owner_id, target_item_id, offered_item_id, status,
	message, meetup_location_id, requester_confirmed, owner_confirmed, created_at, updated_at`

func scanExchange(row interface {
	Scan(dest ...interface{}) error
}) (*objects.Exchange, error) {
	exchange := &objects.Exchange{}
	var offeredItemID sql.NullString
	var meetupLocationID sql.NullInt64

	err := row.Scan(&exchange.ID, &exchange.RequesterID, &exchange.OwnerID,
		&exchange.TargetItemID, &offeredItemID, &exchange.Status,
		&exchange.Message, &meetupLocationID,
		&exchange.RequesterConfirmed, &exchange.OwnerConfirmed,
		&exchange.CreatedAt, &exchange.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if offeredItemID.Valid {
		id := offeredItemID.String
		exchange.OfferedItemID = &id
	}
	if meetupLocationID.Valid {
		locID := int(meetupLocationID.Int64)
		exchange.MeetupLocationID = &locID
	}

	// Unknown status strings must not pass through silently
	if err := objects.ValidateExchangeStatus(exchange.Status); err != nil {
		return nil, apperr.Wrap(apperr.CorruptState, "exchange "+exchange.ID, err)
	}
	return exchange, nil
}

func nullableID(id *string) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *id, Valid: true}
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// GetExchange retrieves an exchange by id, (nil, nil) when absent
func (repo *Repository) GetExchange(id string) (*objects.Exchange, error) {
	log.Printf("[REPOSITORY] Getting exchange by ID: %s", id)

	exchange, err := scanExchange(repo.db.QueryRow(
		`SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[REPOSITORY] Exchange %s not found", id)
			return nil, nil
		}
		log.Printf("[REPOSITORY] Error getting exchange %s: %v", id, err)
		return nil, err
	}
	return exchange, nil
}

// FindExchangesByUser retrieves all exchanges where the user holds the given
// role (requester or owner), newest first
func (repo *Repository) FindExchangesByUser(userID, role string) ([]*objects.Exchange, error) {
	log.Printf("[REPOSITORY] Getting exchanges for user %s as %s", userID, role)

	column := "requester_id"
	if role == engine.RoleOwner {
		column = "owner_id"
	}

	rows, err := repo.db.Query(
		`SELECT `+exchangeColumns+` FROM exchanges
		WHERE `+column+` = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		log.Printf("[REPOSITORY] Error getting exchanges for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var exchanges []*objects.Exchange
	for rows.Next() {
		exchange, err := scanExchange(rows)
		if err != nil {
			log.Printf("[REPOSITORY] Error scanning exchange row: %v", err)
			return nil, err
		}
		exchanges = append(exchanges, exchange)
	}

	log.Printf("[REPOSITORY] Found %d exchanges for user %s as %s", len(exchanges), userID, role)
	return exchanges, rows.Err()
}

// CreateExchange inserts a new exchange inside the transaction
func (t *Tx) CreateExchange(exchange *objects.Exchange) error {
	log.Printf("[REPOSITORY] Creating exchange %s (requester: %s, target item: %s)",
		exchange.ID, exchange.RequesterID, exchange.TargetItemID)

	_, err := t.tx.Exec(
		`INSERT INTO exchanges (id, requester_id, owner_id, target_item_id, offered_item_id,
			status, message, meetup_location_id, requester_confirmed, owner_confirmed,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		exchange.ID, exchange.RequesterID, exchange.OwnerID, exchange.TargetItemID,
		nullableID(exchange.OfferedItemID), exchange.Status, exchange.Message,
		nullableInt(exchange.MeetupLocationID),
		exchange.RequesterConfirmed, exchange.OwnerConfirmed,
		exchange.CreatedAt, exchange.UpdatedAt,
	)
	if err != nil {
		log.Printf("[REPOSITORY] Error creating exchange: %v", err)
		return err
	}

	log.Printf("[REPOSITORY] Exchange %s created successfully", exchange.ID)
	return nil
}

// GetExchangeForUpdate retrieves an exchange inside the transaction with a
// row lock, (nil, nil) when absent
func (t *Tx) GetExchangeForUpdate(id string) (*objects.Exchange, error) {
	exchange, err := scanExchange(t.tx.QueryRow(
		`SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1 FOR UPDATE`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[REPOSITORY] Error locking exchange %s: %v", id, err)
		return nil, err
	}
	return exchange, nil
}

// UpdateExchange writes an exchange's mutable fields inside the transaction
func (t *Tx) UpdateExchange(exchange *objects.Exchange) error {
	log.Printf("[REPOSITORY] Updating exchange %s to status %s", exchange.ID, exchange.Status)

	_, err := t.tx.Exec(
		`UPDATE exchanges
		SET status = $2, message = $3, meetup_location_id = $4,
		    requester_confirmed = $5, owner_confirmed = $6, updated_at = $7
		WHERE id = $1`,
		exchange.ID, exchange.Status, exchange.Message,
		nullableInt(exchange.MeetupLocationID),
		exchange.RequesterConfirmed, exchange.OwnerConfirmed, exchange.UpdatedAt,
	)
	if err != nil {
		log.Printf("[REPOSITORY] Error updating exchange %s: %v", exchange.ID, err)
	}
	return err
}

// HasDuplicatePending checks for an existing PENDING exchange with the same
// (requester, target item, offered item or null) tuple. The pure-ask case
// (no offered item) matches only other pure asks.
func (t *Tx) HasDuplicatePending(requesterID, targetItemID string, offeredItemID *string) (bool, error) {
	var count int
	var err error

	if offeredItemID != nil {
		err = t.tx.QueryRow(
			`SELECT COUNT(*) FROM exchanges
			WHERE requester_id = $1 AND target_item_id = $2
			  AND offered_item_id = $3 AND status = $4`,
			requesterID, targetItemID, *offeredItemID, objects.ExchangeStatusPending,
		).Scan(&count)
	} else {
		err = t.tx.QueryRow(
			`SELECT COUNT(*) FROM exchanges
			WHERE requester_id = $1 AND target_item_id = $2
			  AND offered_item_id IS NULL AND status = $3`,
			requesterID, targetItemID, objects.ExchangeStatusPending,
		).Scan(&count)
	}

	if err != nil {
		log.Printf("[REPOSITORY] Error checking duplicate pending exchange: %v", err)
		return false, err
	}
	return count > 0, nil
}

// FindPendingByTargetItem returns all locked PENDING exchanges targeting the
// item, excluding the given exchange
func (t *Tx) FindPendingByTargetItem(targetItemID, excludeExchangeID string) ([]*objects.Exchange, error) {
	return t.findPending(
		`SELECT `+exchangeColumns+` FROM exchanges
		WHERE target_item_id = $1 AND id <> $2 AND status = $3
		ORDER BY created_at
		FOR UPDATE`,
		targetItemID, excludeExchangeID,
	)
}

// FindPendingReferencingItem returns all locked PENDING exchanges that use
// the item as target or offered item, excluding the given exchange
func (t *Tx) FindPendingReferencingItem(itemID, excludeExchangeID string) ([]*objects.Exchange, error) {
	return t.findPending(
		`SELECT `+exchangeColumns+` FROM exchanges
		WHERE (target_item_id = $1 OR offered_item_id = $1) AND id <> $2 AND status = $3
		ORDER BY created_at
		FOR UPDATE`,
		itemID, excludeExchangeID,
	)
}

func (t *Tx) findPending(query, itemID, excludeExchangeID string) ([]*objects.Exchange, error) {
	rows, err := t.tx.Query(query, itemID, excludeExchangeID, objects.ExchangeStatusPending)
	if err != nil {
		log.Printf("[REPOSITORY] Error finding pending exchanges for item %s: %v", itemID, err)
		return nil, err
	}
	defer rows.Close()

	var exchanges []*objects.Exchange
	for rows.Next() {
		exchange, err := scanExchange(rows)
		if err != nil {
			log.Printf("[REPOSITORY] Error scanning pending exchange row: %v", err)
			return nil, err
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, rows.Err()
}
