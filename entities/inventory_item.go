package entities

import (
	"time"

	"github.com/google/uuid"
)

type InventoryItem struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID  `gorm:"index" json:"user_id"`
	Name     string     `json:"name"`
	Quantity int        `json:"quantity"`
	Reserved int        `json:"reserved"`
	Category string     `json:"category"`
	Location string     `json:"location,omitempty"`
	Expiry   *time.Time `json:"expiry,omitempty"`
	Status   string     `json:"status"` // active, planned, used, donated
	Notes    string     `json:"notes,omitempty"`
	ImageURL string     `json:"image_url,omitempty"`

	// Provenance, set when the item was gained through a donation redemption.
	FromDonationID *uuid.UUID `json:"from_donation_id,omitempty"`
	FromUserID     *uuid.UUID `json:"from_user_id,omitempty"`

	UsedAt *time.Time `json:"used_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
