package mealplan

import (
	"strings"

	"smartfud/domain"
	"smartfud/entities"
)

// itemReservation is one inventory write the plan commit must perform.
type itemReservation struct {
	Item     *entities.InventoryItem
	Reserved int
	Status   string
}

// reservationResult is the full outcome of running the engine over one plan:
// either a consistent set of inventory writes, or the shortfall list that
// blocks the commit.
type reservationResult struct {
	Writes     []itemReservation
	Shortfalls []domain.ReservationShortfall
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// computeReservations aggregates every ingredient line in the plan into a
// per-item wanted total, then reconciles against on-hand quantity.
//
// Lines are matched by item id first; a line with no id falls back to a
// case-insensitive name match, so hand-typed ingredient rows still reserve
// stock when the name happens to line up. Lines that resolve to nothing are
// kept in the plan for display but reserve nothing.
func computeReservations(slots map[string]entities.MealSlot, items []*entities.InventoryItem) reservationResult {
	byID := make(map[string]*entities.InventoryItem, len(items))
	byName := make(map[string]*entities.InventoryItem, len(items))
	for _, item := range items {
		byID[item.ID.String()] = item
		key := normalizeName(item.Name)
		if _, taken := byName[key]; !taken {
			byName[key] = item
		}
	}

	totals := make(map[string]int)
	for _, slot := range slots {
		if strings.TrimSpace(slot.Title) == "" {
			continue
		}
		for _, line := range slot.Ingredients {
			if line.Quantity <= 0 {
				continue
			}
			var item *entities.InventoryItem
			if line.ItemID != "" {
				item = byID[line.ItemID]
			}
			if item == nil {
				item = byName[normalizeName(line.Name)]
			}
			if item == nil {
				continue
			}
			totals[item.ID.String()] += line.Quantity
		}
	}

	var result reservationResult
	for _, item := range items {
		wanted := totals[item.ID.String()]
		if wanted > item.Quantity {
			result.Shortfalls = append(result.Shortfalls, domain.ReservationShortfall{
				ItemID:    item.ID.String(),
				Name:      item.Name,
				Wanted:    wanted,
				Available: item.Quantity,
			})
		}

		clamped := wanted
		if clamped > item.Quantity {
			clamped = item.Quantity
		}

		status := item.Status
		if clamped > 0 {
			status = domain.InventoryStatusPlanned
		} else if item.Status == domain.InventoryStatusPlanned {
			status = domain.InventoryStatusActive
		}

		// Skip items the commit would not change.
		if clamped == item.Reserved && status == item.Status {
			continue
		}

		result.Writes = append(result.Writes, itemReservation{
			Item:     item,
			Reserved: clamped,
			Status:   status,
		})
	}

	return result
}
