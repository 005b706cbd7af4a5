package inventory

import (
	"context"
	"time"

	"smartfud/domain"
	"smartfud/entities"

	"gorm.io/gorm"
)

type (
	InventoryRepository interface {
		AddItem(ctx context.Context, item *entities.InventoryItem) error
		GetItemByID(ctx context.Context, id string) (*entities.InventoryItem, error)
		UpdateItem(ctx context.Context, item *entities.InventoryItem) error
		DeleteItem(ctx context.Context, id string) error
		GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.InventoryItem, int64, error)
		GetPlannableItems(ctx context.Context, userID string) ([]*entities.InventoryItem, error)
		GetExpiringItems(ctx context.Context, userID string, within time.Duration) ([]*entities.InventoryItem, error)
		GetAllExpiringItems(ctx context.Context, within time.Duration) ([]*entities.InventoryItem, error)
		UpdateReservation(ctx context.Context, id string, reserved int, status string) error
		GetDashboardStats(ctx context.Context, userID string) (*domain.InventoryDashboardResponse, error)

		// WithTx returns a repository bound to tx so reservation writes can
		// join the plan commit transaction.
		WithTx(tx *gorm.DB) InventoryRepository
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: tx}
}

func (r *inventoryRepository) AddItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) GetItemByID(ctx context.Context, id string) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) UpdateItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *inventoryRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.InventoryItem{}).Error
}

func (r *inventoryRepository) GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.InventoryItem, int64, error) {
	var items []*entities.InventoryItem
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "all" && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Model(&entities.InventoryItem{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("expiry asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

// GetPlannableItems returns the items the reservation engine works against:
// everything still on hand (active or planned), soonest expiry first.
func (r *inventoryRepository) GetPlannableItems(ctx context.Context, userID string) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []string{domain.InventoryStatusActive, domain.InventoryStatusPlanned}).
		Order("expiry asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) GetExpiringItems(ctx context.Context, userID string, within time.Duration) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	now := time.Now()
	threshold := now.Add(within)

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND expiry IS NOT NULL AND expiry BETWEEN ? AND ?",
			userID, domain.InventoryStatusActive, now, threshold).
		Order("expiry asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetAllExpiringItems is the cross-user variant used by the expiry scanner.
func (r *inventoryRepository) GetAllExpiringItems(ctx context.Context, within time.Duration) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	now := time.Now()
	threshold := now.Add(within)

	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ? AND expiry IS NOT NULL AND expiry BETWEEN ? AND ?",
			domain.InventoryStatusActive, now, threshold).
		Order("expiry asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) UpdateReservation(ctx context.Context, id string, reserved int, status string) error {
	return r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"reserved": reserved, "status": status}).Error
}

func (r *inventoryRepository) GetDashboardStats(ctx context.Context, userID string) (*domain.InventoryDashboardResponse, error) {
	stats := &domain.InventoryDashboardResponse{}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&entities.InventoryItem{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.InventoryStatusActive).Count(&stats.ActiveItems).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.InventoryStatusPlanned).Count(&stats.PlannedItems).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.InventoryStatusUsed).Count(&stats.UsedItems).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.InventoryStatusDonated).Count(&stats.DonatedItems).Error; err != nil {
		return nil, err
	}

	threshold := time.Now().AddDate(0, 0, 3)
	if err := base().
		Where("status IN ? AND expiry IS NOT NULL AND expiry <= ?",
			[]string{domain.InventoryStatusActive, domain.InventoryStatusPlanned}, threshold).
		Count(&stats.ExpiringSoon).Error; err != nil {
		return nil, err
	}

	var result struct {
		TotalReserved int64
	}
	if err := base().
		Select("COALESCE(SUM(reserved), 0) as total_reserved").
		Scan(&result).Error; err != nil {
		return nil, err
	}
	stats.TotalReserved = result.TotalReserved

	return stats, nil
}
