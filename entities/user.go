package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FullName   string     `json:"full_name"`
	Email      string     `gorm:"uniqueIndex" json:"email"`
	Password   string     `json:"-"`
	Role       string     `json:"role"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	Timestamp
}
