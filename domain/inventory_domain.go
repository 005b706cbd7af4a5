package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	InventoryStatusActive  = "active"
	InventoryStatusPlanned = "planned"
	InventoryStatusUsed    = "used"
	InventoryStatusDonated = "donated"
)

var (
	MessageSuccessAddInventoryItem    = "inventory item added successfully"
	MessageSuccessUpdateInventoryItem = "inventory item updated successfully"
	MessageSuccessDeleteInventoryItem = "inventory item deleted successfully"
	MessageSuccessGetInventoryItems   = "inventory items retrieved successfully"
	MessageSuccessMarkAsUsed          = "inventory item marked as used"
	MessageSuccessUploadItemImage     = "item image uploaded successfully"
	MessageSuccessGetDashboardStats   = "dashboard statistics retrieved successfully"

	MessageFailedAddInventoryItem    = "failed to add inventory item"
	MessageFailedUpdateInventoryItem = "failed to update inventory item"
	MessageFailedDeleteInventoryItem = "failed to delete inventory item"
	MessageFailedGetInventoryItems   = "failed to retrieve inventory items"
	MessageFailedMarkAsUsed          = "failed to mark inventory item as used"
	MessageFailedUploadItemImage     = "failed to upload item image"
	MessageFailedGetDashboardStats   = "failed to retrieve dashboard statistics"

	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrUnauthorizedAccess    = errors.New("unauthorized access to inventory item")
	ErrInvalidExpiryDate     = errors.New("invalid expiry date")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInvalidStatus         = errors.New("invalid inventory status")
	ErrItemReserved          = errors.New("item has reserved quantity committed to a meal plan")
)

type (
	AddInventoryItemRequest struct {
		Name     string `json:"name" validate:"required"`
		Quantity int    `json:"quantity" validate:"required,min=1"`
		Category string `json:"category" validate:"required"`
		Location string `json:"location" validate:"omitempty"`
		Expiry   string `json:"expiry" validate:"omitempty"`
		Notes    string `json:"notes" validate:"omitempty"`
	}

	UpdateInventoryItemRequest struct {
		Name     string `json:"name" validate:"omitempty"`
		Quantity *int   `json:"quantity" validate:"omitempty,min=0"`
		Category string `json:"category" validate:"omitempty"`
		Location string `json:"location" validate:"omitempty"`
		Expiry   string `json:"expiry" validate:"omitempty"`
		Notes    string `json:"notes" validate:"omitempty"`
	}

	UploadItemImageRequest struct {
		ItemID string                `json:"item_id" form:"item_id" validate:"required,uuid"`
		Image  *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	InventoryItemResponse struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		Quantity       int        `json:"quantity"`
		Reserved       int        `json:"reserved"`
		Available      int        `json:"available"`
		Category       string     `json:"category"`
		Location       string     `json:"location,omitempty"`
		Expiry         *time.Time `json:"expiry,omitempty"`
		Status         string     `json:"status"`
		Notes          string     `json:"notes,omitempty"`
		ImageURL       string     `json:"image_url,omitempty"`
		FromDonationID string     `json:"from_donation_id,omitempty"`
		CreatedAt      time.Time  `json:"created_at"`
	}

	InventoryDashboardResponse struct {
		TotalItems    int64 `json:"total_items"`
		ActiveItems   int64 `json:"active_items"`
		PlannedItems  int64 `json:"planned_items"`
		UsedItems     int64 `json:"used_items"`
		DonatedItems  int64 `json:"donated_items"`
		ExpiringSoon  int64 `json:"expiring_soon"`
		TotalReserved int64 `json:"total_reserved"`
	}
)
