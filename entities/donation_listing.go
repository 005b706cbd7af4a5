package entities

import (
	"time"

	"github.com/google/uuid"
)

type DonationListing struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID  `gorm:"index" json:"user_id"`
	OwnerFullName  string     `json:"owner_full_name"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	Category       string     `json:"category"`
	Expiry         *time.Time `json:"expiry,omitempty"`
	PickupLocation string     `json:"pickup_location"`
	Availability   string     `json:"availability"`
	Status         string     `json:"status"` // active, redeemed
	RedeemedBy     *uuid.UUID `json:"redeemed_by,omitempty"`
	RedeemedAt     *time.Time `json:"redeemed_at,omitempty"`

	// Inventory item the listing was converted from, for audit.
	SourceItemID *uuid.UUID `json:"source_item_id,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
