package repository

import (
	"database/sql"
	"log"

	"campusbarter/apperr"
	"campusbarter/objects"
)

const itemColumns = `id, owner_id, title, description, category, status, image_url, created_at`

func scanItem(row interface {
	Scan(dest ...interface{}) error
}) (*objects.Item, error) {
	item := &objects.Item{}
	err := row.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Description,
		&item.Category, &item.Status, &item.ImageURL, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	// Unknown status strings must not pass through silently
	if err := objects.ValidateItemStatus(item.Status); err != nil {
		return nil, apperr.Wrap(apperr.CorruptState, "item "+item.ID, err)
	}
	return item, nil
}

// SaveItem inserts or updates an item listing
func (repo *Repository) SaveItem(item *objects.Item) error {
	log.Printf("[REPOSITORY] Saving item %s (owner: %s, status: %s)", item.ID, item.OwnerID, item.Status)

	_, err := repo.db.Exec(
		`INSERT INTO items (id, owner_id, title, description, category, status, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
			SET title = $3,
			    description = $4,
			    category = $5,
			    status = $6,
			    image_url = $7`,
		item.ID, item.OwnerID, item.Title, item.Description,
		item.Category, item.Status, item.ImageURL, item.CreatedAt,
	)

	if err != nil {
		log.Printf("[REPOSITORY] Error saving item %s: %v", item.ID, err)
		return err
	}

	log.Printf("[REPOSITORY] Item %s saved successfully", item.ID)
	return nil
}

// GetItem retrieves an item by id, (nil, nil) when absent
func (repo *Repository) GetItem(id string) (*objects.Item, error) {
	log.Printf("[REPOSITORY] Getting item by ID: %s", id)

	item, err := scanItem(repo.db.QueryRow(
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[REPOSITORY] Item %s not found", id)
			return nil, nil
		}
		log.Printf("[REPOSITORY] Error getting item %s: %v", id, err)
		return nil, err
	}
	return item, nil
}

// FindItemsByOwner retrieves all items listed by a user, newest first
func (repo *Repository) FindItemsByOwner(ownerID string) ([]*objects.Item, error) {
	log.Printf("[REPOSITORY] Getting items for owner: %s", ownerID)

	rows, err := repo.db.Query(
		`SELECT `+itemColumns+` FROM items
		WHERE owner_id = $1
		ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		log.Printf("[REPOSITORY] Error getting items for owner %s: %v", ownerID, err)
		return nil, err
	}
	defer rows.Close()

	var items []*objects.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Printf("[REPOSITORY] Error scanning item row: %v", err)
			return nil, err
		}
		items = append(items, item)
	}

	log.Printf("[REPOSITORY] Found %d items for owner %s", len(items), ownerID)
	return items, rows.Err()
}

// SearchItems finds AVAILABLE items, optionally filtered by a title keyword
// and a category
func (repo *Repository) SearchItems(keyword, category string) ([]*objects.Item, error) {
	log.Printf("[REPOSITORY] Searching items: keyword=%q, category=%q", keyword, category)

	query := `SELECT ` + itemColumns + ` FROM items WHERE status = $1`
	args := []interface{}{objects.ItemStatusAvailable}

	if category != "" {
		args = append(args, category)
		query += ` AND category = $2`
	}
	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		if category != "" {
			query += ` AND title ILIKE $3`
		} else {
			query += ` AND title ILIKE $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := repo.db.Query(query, args...)
	if err != nil {
		log.Printf("[REPOSITORY] Error searching items: %v", err)
		return nil, err
	}
	defer rows.Close()

	var items []*objects.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Printf("[REPOSITORY] Error scanning item row: %v", err)
			return nil, err
		}
		items = append(items, item)
	}

	log.Printf("[REPOSITORY] Search found %d items", len(items))
	return items, rows.Err()
}

// GetItemForUpdate retrieves an item inside the transaction with a row lock
func (t *Tx) GetItemForUpdate(id string) (*objects.Item, error) {
	item, err := scanItem(t.tx.QueryRow(
		`SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[REPOSITORY] Error locking item %s: %v", id, err)
		return nil, err
	}
	return item, nil
}

// UpdateItem writes an item's mutable fields inside the transaction
func (t *Tx) UpdateItem(item *objects.Item) error {
	log.Printf("[REPOSITORY] Updating item %s to status %s", item.ID, item.Status)

	_, err := t.tx.Exec(
		`UPDATE items
		SET title = $2, description = $3, category = $4, status = $5, image_url = $6
		WHERE id = $1`,
		item.ID, item.Title, item.Description, item.Category, item.Status, item.ImageURL,
	)
	if err != nil {
		log.Printf("[REPOSITORY] Error updating item %s: %v", item.ID, err)
	}
	return err
}
