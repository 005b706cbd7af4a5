package domain

import (
	"errors"
	"time"
)

const (
	DonationStatusActive   = "active"
	DonationStatusRedeemed = "redeemed"
)

var (
	MessageSuccessGetDonations    = "donations retrieved successfully"
	MessageSuccessGetAllDonations = "all donations retrieved successfully"
	MessageSuccessUpdateDonation  = "donation updated successfully"
	MessageSuccessDeleteDonation  = "donation deleted successfully"
	MessageSuccessConvertDonation = "item converted to donation successfully"
	MessageSuccessRedeemDonation  = "donation redeemed successfully"

	MessageFailedGetDonations    = "failed to retrieve donations"
	MessageFailedGetAllDonations = "failed to retrieve all donations"
	MessageFailedUpdateDonation  = "failed to update donation"
	MessageFailedDeleteDonation  = "failed to delete donation"
	MessageFailedConvertDonation = "failed to convert item to donation"
	MessageFailedRedeemDonation  = "failed to redeem donation"

	ErrDonationNotFound           = errors.New("donation not found")
	ErrUnauthorizedDonationAccess = errors.New("unauthorized access to donation")
	ErrSelfRedemption             = errors.New("cannot redeem your own donation")
	ErrAlreadyRedeemed            = errors.New("donation already redeemed")
	ErrListingExpired             = errors.New("donation listing has expired")
	ErrRedeemedImmutable          = errors.New("redeemed donation cannot be modified")
)

type (
	ConvertDonationRequest struct {
		ItemID         string `json:"item_id" validate:"required,uuid"`
		PickupLocation string `json:"pickup_location" validate:"required"`
		Availability   string `json:"availability" validate:"required"`
	}

	UpdateDonationRequest struct {
		Name           string `json:"name" validate:"omitempty"`
		Quantity       *int   `json:"quantity" validate:"omitempty,min=1"`
		Expiry         string `json:"expiry" validate:"omitempty"`
		PickupLocation string `json:"pickup_location" validate:"omitempty"`
		Availability   string `json:"availability" validate:"omitempty"`
	}

	RedeemDonationRequest struct {
		OwnerID    string `json:"owner_id" validate:"required,uuid"`
		DonationID string `json:"donation_id" validate:"required,uuid"`
	}

	DonationResponse struct {
		ID             string     `json:"id"`
		UserID         string     `json:"user_id"`
		OwnerFullName  string     `json:"owner_full_name,omitempty"`
		Name           string     `json:"name"`
		Quantity       int        `json:"quantity"`
		Category       string     `json:"category"`
		Expiry         *time.Time `json:"expiry,omitempty"`
		PickupLocation string     `json:"pickup_location"`
		Availability   string     `json:"availability"`
		Status         string     `json:"status"`
		RedeemedBy     string     `json:"redeemed_by,omitempty"`
		RedeemedAt     *time.Time `json:"redeemed_at,omitempty"`
		CreatedAt      time.Time  `json:"created_at"`
	}

	RedeemDonationResponse struct {
		InventoryItemID string `json:"inventory_item_id"`
		DonationID      string `json:"donation_id"`
	}
)
