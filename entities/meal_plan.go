package entities

import (
	"time"

	"github.com/google/uuid"
)

// IngredientLine is one ingredient row inside a meal slot. ItemID is empty for
// rows typed by hand that were never bound to a concrete inventory item; those
// are resolved by name when reservations are computed.
type IngredientLine struct {
	ItemID   string `json:"item_id,omitempty"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// MealSlot is the content of one "<date>:<slot>" cell in the weekly grid. A
// slot without a title is treated as empty.
type MealSlot struct {
	Title       string           `json:"title"`
	Note        string           `json:"note,omitempty"`
	Ingredients []IngredientLine `json:"ingredients,omitempty"`
}

// MealPlan holds one user's plan for one ISO week. WeekKey is derived from the
// week's Monday ("2025-34" style ISO numbering).
type MealPlan struct {
	UserID    uuid.UUID           `gorm:"type:uuid;primaryKey" json:"user_id"`
	WeekKey   string              `gorm:"primaryKey" json:"week_key"`
	WeekStart time.Time           `json:"week_start"`
	Slots     map[string]MealSlot `gorm:"serializer:json" json:"slots"`

	Timestamp
}
