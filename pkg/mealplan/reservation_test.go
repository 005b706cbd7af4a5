package mealplan

import (
	"testing"

	"smartfud/domain"
	"smartfud/entities"

	"github.com/google/uuid"
)

func testItem(name string, quantity, reserved int, status string) *entities.InventoryItem {
	return &entities.InventoryItem{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     name,
		Quantity: quantity,
		Reserved: reserved,
		Status:   status,
	}
}

func TestComputeReservationsAggregatesAcrossSlots(t *testing.T) {
	eggs := testItem("Eggs", 6, 0, domain.InventoryStatusActive)

	slots := map[string]entities.MealSlot{
		"2030-01-07:breakfast": {
			Title:       "Omelette",
			Ingredients: []entities.IngredientLine{{ItemID: eggs.ID.String(), Name: "Eggs", Quantity: 2}},
		},
		"2030-01-08:lunch": {
			Title:       "Fried rice",
			Ingredients: []entities.IngredientLine{{ItemID: eggs.ID.String(), Quantity: 3}},
		},
	}

	result := computeReservations(slots, []*entities.InventoryItem{eggs})
	if len(result.Shortfalls) != 0 {
		t.Fatalf("unexpected shortfalls: %+v", result.Shortfalls)
	}
	if len(result.Writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(result.Writes))
	}
	write := result.Writes[0]
	if write.Reserved != 5 {
		t.Errorf("reserved = %d, want 5", write.Reserved)
	}
	if write.Status != domain.InventoryStatusPlanned {
		t.Errorf("status = %q, want planned", write.Status)
	}
}

func TestComputeReservationsNameFallback(t *testing.T) {
	milk := testItem("Milk", 2, 0, domain.InventoryStatusActive)

	slots := map[string]entities.MealSlot{
		"2030-01-07:breakfast": {
			Title:       "Cereal",
			Ingredients: []entities.IngredientLine{{Name: "  MILK ", Quantity: 1}},
		},
	}

	result := computeReservations(slots, []*entities.InventoryItem{milk})
	if len(result.Writes) != 1 || result.Writes[0].Reserved != 1 {
		t.Fatalf("name-matched line did not reserve: %+v", result.Writes)
	}
}

func TestComputeReservationsUnresolvableLineSkipped(t *testing.T) {
	bread := testItem("Bread", 4, 0, domain.InventoryStatusActive)

	slots := map[string]entities.MealSlot{
		"2030-01-07:lunch": {
			Title:       "Mystery dish",
			Ingredients: []entities.IngredientLine{{Name: "unicorn meat", Quantity: 2}},
		},
	}

	result := computeReservations(slots, []*entities.InventoryItem{bread})
	if len(result.Writes) != 0 {
		t.Fatalf("unresolvable line produced writes: %+v", result.Writes)
	}
	if len(result.Shortfalls) != 0 {
		t.Fatalf("unresolvable line produced shortfalls: %+v", result.Shortfalls)
	}
}

func TestComputeReservationsEmptySlotIgnored(t *testing.T) {
	eggs := testItem("Eggs", 6, 0, domain.InventoryStatusActive)

	slots := map[string]entities.MealSlot{
		"2030-01-07:dinner": {
			Title:       "   ",
			Ingredients: []entities.IngredientLine{{ItemID: eggs.ID.String(), Quantity: 4}},
		},
	}

	result := computeReservations(slots, []*entities.InventoryItem{eggs})
	if len(result.Writes) != 0 {
		t.Fatalf("titleless slot reserved inventory: %+v", result.Writes)
	}
}

func TestComputeReservationsShortfall(t *testing.T) {
	eggs := testItem("Eggs", 6, 0, domain.InventoryStatusActive)

	slots := map[string]entities.MealSlot{
		"2030-01-07:breakfast": {
			Title:       "Omelette",
			Ingredients: []entities.IngredientLine{{ItemID: eggs.ID.String(), Quantity: 5}},
		},
		"2030-01-08:dinner": {
			Title:       "Frittata",
			Ingredients: []entities.IngredientLine{{ItemID: eggs.ID.String(), Quantity: 3}},
		},
	}

	result := computeReservations(slots, []*entities.InventoryItem{eggs})
	if len(result.Shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %+v", result.Shortfalls)
	}
	s := result.Shortfalls[0]
	if s.Name != "Eggs" || s.Wanted != 8 || s.Available != 6 {
		t.Errorf("shortfall = %+v, want Eggs wanted=8 available=6", s)
	}
}

func TestComputeReservationsReleasesPlannedItem(t *testing.T) {
	eggs := testItem("Eggs", 6, 5, domain.InventoryStatusPlanned)

	result := computeReservations(map[string]entities.MealSlot{}, []*entities.InventoryItem{eggs})
	if len(result.Writes) != 1 {
		t.Fatalf("expected release write, got %+v", result.Writes)
	}
	write := result.Writes[0]
	if write.Reserved != 0 || write.Status != domain.InventoryStatusActive {
		t.Errorf("release write = reserved %d status %q, want 0/active", write.Reserved, write.Status)
	}
}

func TestComputeReservationsBound(t *testing.T) {
	items := []*entities.InventoryItem{
		testItem("Rice", 3, 0, domain.InventoryStatusActive),
		testItem("Beans", 1, 1, domain.InventoryStatusPlanned),
		testItem("Oil", 10, 2, domain.InventoryStatusPlanned),
	}

	slots := map[string]entities.MealSlot{
		"2030-01-07:dinner": {
			Title: "Rice and beans",
			Ingredients: []entities.IngredientLine{
				{ItemID: items[0].ID.String(), Quantity: 2},
				{ItemID: items[1].ID.String(), Quantity: 1},
			},
		},
	}

	result := computeReservations(slots, items)
	for _, write := range result.Writes {
		if write.Reserved < 0 || write.Reserved > write.Item.Quantity {
			t.Errorf("item %s reserved %d outside [0, %d]",
				write.Item.Name, write.Reserved, write.Item.Quantity)
		}
		if write.Reserved > 0 && write.Status != domain.InventoryStatusPlanned {
			t.Errorf("item %s reserved %d but status %q", write.Item.Name, write.Reserved, write.Status)
		}
		if write.Reserved == 0 && write.Status == domain.InventoryStatusPlanned {
			t.Errorf("item %s released but still planned", write.Item.Name)
		}
	}
}

func TestComputeReservationsSkipsUnchangedItems(t *testing.T) {
	eggs := testItem("Eggs", 6, 2, domain.InventoryStatusPlanned)

	slots := map[string]entities.MealSlot{
		"2030-01-07:breakfast": {
			Title:       "Omelette",
			Ingredients: []entities.IngredientLine{{ItemID: eggs.ID.String(), Quantity: 2}},
		},
	}

	result := computeReservations(slots, []*entities.InventoryItem{eggs})
	if len(result.Writes) != 0 {
		t.Fatalf("unchanged item scheduled for write: %+v", result.Writes)
	}
}
