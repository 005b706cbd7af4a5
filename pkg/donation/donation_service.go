package donation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/internal/ws"
	"smartfud/pkg/inventory"
	"smartfud/pkg/notification"
	"smartfud/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DonationService interface {
		GetUserDonations(ctx context.Context, userID string) ([]domain.DonationResponse, error)
		GetAllDonations(ctx context.Context) ([]domain.DonationResponse, error)
		UpdateDonation(ctx context.Context, id string, req domain.UpdateDonationRequest, userID string) error
		DeleteDonation(ctx context.Context, id string, userID string) error
		ConvertFromInventory(ctx context.Context, req domain.ConvertDonationRequest, userID string) (domain.DonationResponse, error)
		RedeemDonation(ctx context.Context, req domain.RedeemDonationRequest, userID string) (domain.RedeemDonationResponse, error)
	}

	donationService struct {
		db                     *gorm.DB
		donationRepository     DonationRepository
		inventoryRepository    inventory.InventoryRepository
		userRepository         user.UserRepository
		notificationRepository notification.NotificationRepository
		events                 ws.Publisher
	}
)

func NewDonationService(
	db *gorm.DB,
	donationRepository DonationRepository,
	inventoryRepository inventory.InventoryRepository,
	userRepository user.UserRepository,
	notificationRepository notification.NotificationRepository,
	events ws.Publisher,
) DonationService {
	return &donationService{
		db:                     db,
		donationRepository:     donationRepository,
		inventoryRepository:    inventoryRepository,
		userRepository:         userRepository,
		notificationRepository: notificationRepository,
		events:                 events,
	}
}

func toDonationResponse(d *entities.DonationListing) domain.DonationResponse {
	res := domain.DonationResponse{
		ID:             d.ID.String(),
		UserID:         d.UserID.String(),
		OwnerFullName:  d.OwnerFullName,
		Name:           d.Name,
		Quantity:       d.Quantity,
		Category:       d.Category,
		Expiry:         d.Expiry,
		PickupLocation: d.PickupLocation,
		Availability:   d.Availability,
		Status:         d.Status,
		RedeemedAt:     d.RedeemedAt,
		CreatedAt:      d.CreatedAt,
	}
	if d.RedeemedBy != nil {
		res.RedeemedBy = d.RedeemedBy.String()
	}
	return res
}

func (s *donationService) GetUserDonations(ctx context.Context, userID string) ([]domain.DonationResponse, error) {
	donations, err := s.donationRepository.GetDonationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.DonationResponse, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDonationResponse(d))
	}
	return result, nil
}

func (s *donationService) GetAllDonations(ctx context.Context) ([]domain.DonationResponse, error) {
	donations, err := s.donationRepository.GetAllDonations(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.DonationResponse, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDonationResponse(d))
	}
	return result, nil
}

func (s *donationService) ownedDonation(ctx context.Context, id string, userID string) (*entities.DonationListing, error) {
	donation, err := s.donationRepository.GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}
	if donation.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedDonationAccess
	}
	return donation, nil
}

func (s *donationService) UpdateDonation(ctx context.Context, id string, req domain.UpdateDonationRequest, userID string) error {
	donation, err := s.ownedDonation(ctx, id, userID)
	if err != nil {
		return err
	}

	if donation.Status == domain.DonationStatusRedeemed {
		return domain.ErrRedeemedImmutable
	}

	if req.Name != "" {
		donation.Name = req.Name
	}
	if req.Quantity != nil {
		donation.Quantity = *req.Quantity
	}
	if req.Expiry != "" {
		expiry, err := time.Parse("2006-01-02", req.Expiry)
		if err != nil {
			return domain.ErrInvalidExpiryDate
		}
		donation.Expiry = &expiry
	}
	if req.PickupLocation != "" {
		donation.PickupLocation = req.PickupLocation
	}
	if req.Availability != "" {
		donation.Availability = req.Availability
	}

	if err := s.donationRepository.UpdateDonation(ctx, donation); err != nil {
		return err
	}

	s.events.DonationFeedChanged()
	return nil
}

func (s *donationService) DeleteDonation(ctx context.Context, id string, userID string) error {
	if _, err := s.ownedDonation(ctx, id, userID); err != nil {
		return err
	}

	if err := s.donationRepository.DeleteDonation(ctx, id); err != nil {
		return err
	}

	s.events.DonationFeedChanged()
	return nil
}

// ConvertFromInventory turns an inventory item into a public listing. The
// listing insert and the item delete commit together so the food is never
// visible in both places, and never lost from both.
func (s *donationService) ConvertFromInventory(ctx context.Context, req domain.ConvertDonationRequest, userID string) (domain.DonationResponse, error) {
	item, err := s.inventoryRepository.GetItemByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DonationResponse{}, domain.ErrInventoryItemNotFound
		}
		return domain.DonationResponse{}, err
	}
	if item.UserID.String() != userID {
		return domain.DonationResponse{}, domain.ErrUnauthorizedAccess
	}
	if item.Reserved > 0 {
		return domain.DonationResponse{}, domain.ErrItemReserved
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.DonationResponse{}, err
	}

	sourceID := item.ID
	listing := &entities.DonationListing{
		ID:             uuid.New(),
		UserID:         item.UserID,
		OwnerFullName:  owner.FullName,
		Name:           item.Name,
		Quantity:       item.Quantity,
		Category:       item.Category,
		Expiry:         item.Expiry,
		PickupLocation: req.PickupLocation,
		Availability:   req.Availability,
		Status:         domain.DonationStatusActive,
		SourceItemID:   &sourceID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.donationRepository.WithTx(tx).CreateDonation(ctx, listing); err != nil {
			return err
		}
		return s.inventoryRepository.WithTx(tx).DeleteItem(ctx, item.ID.String())
	})
	if err != nil {
		return domain.DonationResponse{}, err
	}

	s.events.InventoryChanged(userID)
	s.events.DonationFeedChanged()
	return toDonationResponse(listing), nil
}

// RedeemDonation moves a listing into the redeemer's inventory. The new item
// and the listing's redeemed marker commit atomically. Exclusivity against a
// concurrent redeemer does not rely on the precondition read: the final
// UPDATE carries a status guard, and zero rows affected rolls the whole
// transaction back as ErrAlreadyRedeemed.
func (s *donationService) RedeemDonation(ctx context.Context, req domain.RedeemDonationRequest, userID string) (domain.RedeemDonationResponse, error) {
	if req.OwnerID == userID {
		return domain.RedeemDonationResponse{}, domain.ErrSelfRedemption
	}

	redeemerUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RedeemDonationResponse{}, domain.ErrParseUUID
	}

	now := time.Now()
	var newItem *entities.InventoryItem
	var donation *entities.DonationListing

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donationRepo := s.donationRepository.WithTx(tx)

		var txErr error
		donation, txErr = donationRepo.GetDonationByID(ctx, req.DonationID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return domain.ErrDonationNotFound
			}
			return txErr
		}
		if donation.UserID.String() != req.OwnerID {
			return domain.ErrDonationNotFound
		}
		if donation.Status == domain.DonationStatusRedeemed {
			return domain.ErrAlreadyRedeemed
		}
		if donation.Expiry != nil && donation.Expiry.Before(now.Truncate(24*time.Hour)) {
			return domain.ErrListingExpired
		}

		donationID := donation.ID
		newItem = &entities.InventoryItem{
			ID:             uuid.New(),
			UserID:         redeemerUUID,
			Name:           donation.Name,
			Quantity:       donation.Quantity,
			Reserved:       0,
			Category:       donation.Category,
			Expiry:         donation.Expiry,
			Status:         domain.InventoryStatusActive,
			FromDonationID: &donationID,
			FromUserID:     &donation.UserID,
		}
		if txErr := s.inventoryRepository.WithTx(tx).AddItem(ctx, newItem); txErr != nil {
			return txErr
		}

		affected, txErr := donationRepo.RedeemDonation(ctx, donation.ID.String(), map[string]interface{}{
			"status":      domain.DonationStatusRedeemed,
			"redeemed_by": redeemerUUID,
			"redeemed_at": now,
		})
		if txErr != nil {
			return txErr
		}
		if affected == 0 {
			return domain.ErrAlreadyRedeemed
		}
		return nil
	})
	if err != nil {
		return domain.RedeemDonationResponse{}, err
	}

	// Donor notification is best-effort after commit; a failure here must not
	// unwind an already-successful redemption.
	redeemer, lookupErr := s.userRepository.GetUserByID(ctx, userID)
	redeemerName := "Someone"
	if lookupErr == nil {
		redeemerName = redeemer.FullName
	}

	donationID := donation.ID
	notif := &entities.Notification{
		ID:         fmt.Sprintf("redeem_%s", donation.ID.String()),
		UserID:     donation.UserID,
		Type:       domain.NotificationTypeDonationRedeemed,
		Title:      "Donation redeemed",
		Body:       fmt.Sprintf("%s picked up your donation %q", redeemerName, donation.Name),
		DonationID: &donationID,
		RedeemedBy: &redeemerUUID,
	}
	if notifErr := s.notificationRepository.CreateNotification(ctx, notif); notifErr != nil {
		log.Printf("donation: failed to notify donor %s about redemption of %s: %v",
			donation.UserID, donation.ID, notifErr)
	} else {
		s.events.NotificationChanged(donation.UserID.String())
	}

	s.events.InventoryChanged(userID)
	s.events.DonationFeedChanged()

	return domain.RedeemDonationResponse{
		InventoryItemID: newItem.ID.String(),
		DonationID:      donation.ID.String(),
	}, nil
}
