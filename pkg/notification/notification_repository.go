package notification

import (
	"context"

	"smartfud/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	NotificationRepository interface {
		GetNotifications(ctx context.Context, userID string, limit int) ([]*entities.Notification, error)
		GetNotificationByID(ctx context.Context, userID string, id string) (*entities.Notification, error)
		CreateNotification(ctx context.Context, notification *entities.Notification) error
		UpsertNotification(ctx context.Context, notification *entities.Notification) error
		DeleteNotification(ctx context.Context, userID string, id string) error
		DeleteNotifications(ctx context.Context, userID string, ids []string) error
		MarkRead(ctx context.Context, userID string, id string) error
		MarkAllRead(ctx context.Context, userID string) (int64, error)
		GetMealNotificationsByWeek(ctx context.Context, userID string, weekKey string) ([]*entities.Notification, error)
		CountUnread(ctx context.Context, userID string) (int64, error)
		WithTx(tx *gorm.DB) NotificationRepository
	}

	notificationRepository struct {
		db *gorm.DB
	}
)

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) GetNotifications(ctx context.Context, userID string, limit int) ([]*entities.Notification, error) {
	var notifications []*entities.Notification
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Notification ids are only unique per user, so every by-id operation is
// scoped to its owner.
func (r *notificationRepository) GetNotificationByID(ctx context.Context, userID string, id string) (*entities.Notification, error) {
	var notification entities.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Take(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *entities.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// UpsertNotification refreshes the payload columns of an existing row while
// leaving read state and created_at untouched, so a re-saved meal plan never
// resurrects or duplicates a reminder the user already saw.
func (r *notificationRepository) UpsertNotification(ctx context.Context, notification *entities.Notification) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "body", "target_route", "target_params",
			"week_key", "slot", "date", "reminder_at", "updated_at",
		}),
	}).Create(notification).Error
}

func (r *notificationRepository) DeleteNotification(ctx context.Context, userID string, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&entities.Notification{}).Error
}

func (r *notificationRepository) DeleteNotifications(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&entities.Notification{}).Error
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID string, id string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) GetMealNotificationsByWeek(ctx context.Context, userID string, weekKey string) ([]*entities.Notification, error) {
	var notifications []*entities.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND week_key = ?", userID, "meal", weekKey).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
