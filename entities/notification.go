package entities

import (
	"time"

	"github.com/google/uuid"
)

// Notification ids are deterministic for reminders ("meal_<date>_<slot>",
// "expiry_<itemId>") so that re-running the producing operation upserts
// instead of duplicating; ad hoc notifications get a random uuid string.
// Ids are only unique per user, hence the composite primary key.
type Notification struct {
	ID     string    `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Type   string    `json:"type"` // meal, expiry, donation_redeemed
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	Read   bool      `json:"read"`

	TargetRoute  string            `json:"target_route,omitempty"`
	TargetParams map[string]string `gorm:"serializer:json" json:"target_params,omitempty"`

	// Meal reminder fields.
	WeekKey    string     `gorm:"index" json:"week_key,omitempty"`
	Slot       string     `json:"slot,omitempty"`
	Date       string     `json:"date,omitempty"`
	ReminderAt *time.Time `json:"reminder_at,omitempty"`

	// Donation redemption fields.
	DonationID *uuid.UUID `json:"donation_id,omitempty"`
	RedeemedBy *uuid.UUID `json:"redeemed_by,omitempty"`

	Timestamp
}
