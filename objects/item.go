package objects

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item represents a listed item that can be offered or requested in an exchange
type Item struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	Status      string
	ImageURL    string // empty when the listing has no image
	CreatedAt   time.Time
}

// Item status constants
const (
	ItemStatusAvailable = "AVAILABLE"
	ItemStatusTrading   = "TRADING"
	ItemStatusTraded    = "TRADED"
	ItemStatusHidden    = "HIDDEN"
)

// Item category constants
const (
	CategoryTextbook    = "TEXTBOOK"
	CategoryElectronics = "ELECTRONICS"
	CategoryDailyUse    = "DAILY_USE"
	CategoryFoodstuff   = "FOODSTUFF"
	CategoryFurniture   = "FURNITURE"
	CategoryOther       = "OTHER"
)

// NewItem creates a new item listing, always starting as AVAILABLE
func NewItem(ownerID, title, description, category, imageURL string) *Item {
	return &Item{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Category:    category,
		Status:      ItemStatusAvailable,
		ImageURL:    imageURL,
		CreatedAt:   time.Now().UTC(),
	}
}

// ValidateItemStatus checks a status string loaded from storage against the
// closed set of item statuses. Unknown values mean the row is corrupt.
func ValidateItemStatus(status string) error {
	switch status {
	case ItemStatusAvailable, ItemStatusTrading, ItemStatusTraded, ItemStatusHidden:
		return nil
	}
	return fmt.Errorf("unknown item status %q", status)
}

// ValidateCategory checks a category string against the closed category set
func ValidateCategory(category string) error {
	switch category {
	case CategoryTextbook, CategoryElectronics, CategoryDailyUse,
		CategoryFoodstuff, CategoryFurniture, CategoryOther:
		return nil
	}
	return fmt.Errorf("unknown item category %q", category)
}
