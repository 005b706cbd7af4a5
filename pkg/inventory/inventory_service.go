package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/internal/utils/storage"
	"smartfud/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	InventoryService interface {
		AddItem(ctx context.Context, req domain.AddInventoryItemRequest, userID string) (domain.InventoryItemResponse, error)
		UpdateItem(ctx context.Context, id string, req domain.UpdateInventoryItemRequest, userID string) error
		DeleteItem(ctx context.Context, id string, userID string) error
		GetItems(ctx context.Context, userID string, status string, page, limit int) ([]domain.InventoryItemResponse, int64, error)
		GetItemByID(ctx context.Context, id string, userID string) (domain.InventoryItemResponse, error)
		MarkAsUsed(ctx context.Context, id string, userID string) error
		UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest, userID string) error
		GetDashboardStats(ctx context.Context, userID string) (domain.InventoryDashboardResponse, error)
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		s3                  storage.AwsS3
		events              ws.Publisher
	}
)

func NewInventoryService(inventoryRepository InventoryRepository, s3 storage.AwsS3, events ws.Publisher) InventoryService {
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		s3:                  s3,
		events:              events,
	}
}

func parseExpiry(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	expiry, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, domain.ErrInvalidExpiryDate
	}
	return &expiry, nil
}

func toItemResponse(item *entities.InventoryItem) domain.InventoryItemResponse {
	res := domain.InventoryItemResponse{
		ID:        item.ID.String(),
		Name:      item.Name,
		Quantity:  item.Quantity,
		Reserved:  item.Reserved,
		Available: item.Quantity - item.Reserved,
		Category:  item.Category,
		Location:  item.Location,
		Expiry:    item.Expiry,
		Status:    item.Status,
		Notes:     item.Notes,
		ImageURL:  item.ImageURL,
		CreatedAt: item.CreatedAt,
	}
	if item.FromDonationID != nil {
		res.FromDonationID = item.FromDonationID.String()
	}
	return res
}

func (s *inventoryService) AddItem(ctx context.Context, req domain.AddInventoryItemRequest, userID string) (domain.InventoryItemResponse, error) {
	expiry, err := parseExpiry(req.Expiry)
	if err != nil {
		return domain.InventoryItemResponse{}, err
	}

	if req.Quantity <= 0 {
		return domain.InventoryItemResponse{}, domain.ErrInvalidQuantity
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.InventoryItemResponse{}, domain.ErrParseUUID
	}

	item := &entities.InventoryItem{
		ID:       uuid.New(),
		UserID:   userUUID,
		Name:     req.Name,
		Quantity: req.Quantity,
		Reserved: 0,
		Category: req.Category,
		Location: req.Location,
		Expiry:   expiry,
		Status:   domain.InventoryStatusActive,
		Notes:    req.Notes,
	}

	if err := s.inventoryRepository.AddItem(ctx, item); err != nil {
		return domain.InventoryItemResponse{}, err
	}

	s.events.InventoryChanged(userID)
	return toItemResponse(item), nil
}

func (s *inventoryService) ownedItem(ctx context.Context, id string, userID string) (*entities.InventoryItem, error) {
	item, err := s.inventoryRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInventoryItemNotFound
		}
		return nil, err
	}
	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id string, req domain.UpdateInventoryItemRequest, userID string) error {
	item, err := s.ownedItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Quantity != nil {
		// Quantity can never drop below what a committed meal plan holds.
		if *req.Quantity < item.Reserved {
			return domain.ErrItemReserved
		}
		item.Quantity = *req.Quantity
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Location != "" {
		item.Location = req.Location
	}
	if req.Expiry != "" {
		expiry, err := parseExpiry(req.Expiry)
		if err != nil {
			return err
		}
		item.Expiry = expiry
	}
	if req.Notes != "" {
		item.Notes = req.Notes
	}

	if err := s.inventoryRepository.UpdateItem(ctx, item); err != nil {
		return err
	}

	s.events.InventoryChanged(userID)
	return nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id string, userID string) error {
	item, err := s.ownedItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if item.Reserved > 0 {
		return domain.ErrItemReserved
	}

	if item.ImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(item.ImageURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}

	if err := s.inventoryRepository.DeleteItem(ctx, id); err != nil {
		return err
	}

	s.events.InventoryChanged(userID)
	return nil
}

func (s *inventoryService) GetItems(ctx context.Context, userID string, status string, page, limit int) ([]domain.InventoryItemResponse, int64, error) {
	items, count, err := s.inventoryRepository.GetItems(ctx, userID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toItemResponse(item))
	}
	return response, count, nil
}

func (s *inventoryService) GetItemByID(ctx context.Context, id string, userID string) (domain.InventoryItemResponse, error) {
	item, err := s.ownedItem(ctx, id, userID)
	if err != nil {
		return domain.InventoryItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (s *inventoryService) MarkAsUsed(ctx context.Context, id string, userID string) error {
	item, err := s.ownedItem(ctx, id, userID)
	if err != nil {
		return err
	}

	// used is terminal; refuse while a meal plan still holds units.
	if item.Reserved > 0 {
		return domain.ErrItemReserved
	}
	if item.Status == domain.InventoryStatusUsed || item.Status == domain.InventoryStatusDonated {
		return domain.ErrInvalidStatus
	}

	now := time.Now()
	item.Status = domain.InventoryStatusUsed
	item.UsedAt = &now

	if err := s.inventoryRepository.UpdateItem(ctx, item); err != nil {
		return err
	}

	s.events.InventoryChanged(userID)
	return nil
}

func (s *inventoryService) UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest, userID string) error {
	item, err := s.ownedItem(ctx, req.ItemID, userID)
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("inventory-item-%s", item.ID.String())
	var objectKey string
	var uploadErr error

	if item.ImageURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(item.ImageURL)
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "inventory-items", storage.AllowImage...)
		}
	} else {
		objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "inventory-items", storage.AllowImage...)
	}

	if uploadErr != nil {
		return uploadErr
	}

	item.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.inventoryRepository.UpdateItem(ctx, item); err != nil {
		return err
	}

	s.events.InventoryChanged(userID)
	return nil
}

func (s *inventoryService) GetDashboardStats(ctx context.Context, userID string) (domain.InventoryDashboardResponse, error) {
	stats, err := s.inventoryRepository.GetDashboardStats(ctx, userID)
	if err != nil {
		return domain.InventoryDashboardResponse{}, err
	}
	return *stats, nil
}
