package objects

import (
	"testing"
)

func TestNewItem(t *testing.T) {
	item := NewItem("owner-1", "Calculus Textbook", "3rd edition", CategoryTextbook, "")

	if item.ID == "" {
		t.Error("NewItem() should assign an id")
	}
	if item.Status != ItemStatusAvailable {
		t.Errorf("NewItem() status = %v, want %v", item.Status, ItemStatusAvailable)
	}
	if item.OwnerID != "owner-1" {
		t.Errorf("NewItem() owner = %v, want owner-1", item.OwnerID)
	}
	if item.CreatedAt.IsZero() {
		t.Error("NewItem() should set CreatedAt")
	}
}

func TestValidateItemStatus(t *testing.T) {
	valid := []string{ItemStatusAvailable, ItemStatusTrading, ItemStatusTraded, ItemStatusHidden}
	for _, status := range valid {
		if err := ValidateItemStatus(status); err != nil {
			t.Errorf("ValidateItemStatus(%s) = %v, want nil", status, err)
		}
	}

	for _, status := range []string{"available", "SOLD", ""} {
		if err := ValidateItemStatus(status); err == nil {
			t.Errorf("ValidateItemStatus(%q) should fail", status)
		}
	}
}

func TestValidateCategory(t *testing.T) {
	valid := []string{
		CategoryTextbook, CategoryElectronics, CategoryDailyUse,
		CategoryFoodstuff, CategoryFurniture, CategoryOther,
	}
	for _, category := range valid {
		if err := ValidateCategory(category); err != nil {
			t.Errorf("ValidateCategory(%s) = %v, want nil", category, err)
		}
	}

	for _, category := range []string{"textbook", "PETS", ""} {
		if err := ValidateCategory(category); err == nil {
			t.Errorf("ValidateCategory(%q) should fail", category)
		}
	}
}

func TestLocations(t *testing.T) {
	locations := Locations()
	if len(locations) != 3 {
		t.Fatalf("Locations() returned %d entries, want 3", len(locations))
	}
	if locations[0].ID != 1 || locations[0].Name != "Main Gate Roundabout" {
		t.Errorf("Locations()[0] = %+v, want id 1 Main Gate Roundabout", locations[0])
	}

	// Mutating the returned slice must not leak into the table
	locations[0].Name = "tampered"
	if fresh := Locations(); fresh[0].Name != "Main Gate Roundabout" {
		t.Error("Locations() should return a copy of the table")
	}
}

func TestLocationName(t *testing.T) {
	name, ok := LocationName(2)
	if !ok || name != "North Dorm Convenience Store" {
		t.Errorf("LocationName(2) = %q, %v", name, ok)
	}

	if _, ok := LocationName(99); ok {
		t.Error("LocationName(99) should not resolve")
	}
}
