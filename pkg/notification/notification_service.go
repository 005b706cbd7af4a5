package notification

import (
	"context"
	"errors"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/internal/ws"

	"gorm.io/gorm"
)

type (
	NotificationService interface {
		GetNotifications(ctx context.Context, userID string, limit int) (domain.NotificationListResponse, error)
		MarkRead(ctx context.Context, id string, userID string) error
		MarkAllRead(ctx context.Context, userID string) (int64, error)
		DeleteNotification(ctx context.Context, id string, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
		events                 ws.Publisher
	}
)

func NewNotificationService(notificationRepository NotificationRepository, events ws.Publisher) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		events:                 events,
	}
}

func toNotificationResponse(n *entities.Notification) domain.NotificationResponse {
	res := domain.NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Title:        n.Title,
		Body:         n.Body,
		Read:         n.Read,
		TargetRoute:  n.TargetRoute,
		TargetParams: n.TargetParams,
		WeekKey:      n.WeekKey,
		Slot:         n.Slot,
		Date:         n.Date,
		ReminderAt:   n.ReminderAt,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
	if n.DonationID != nil {
		res.DonationID = n.DonationID.String()
	}
	return res
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, limit int) (domain.NotificationListResponse, error) {
	notifications, err := s.notificationRepository.GetNotifications(ctx, userID, limit)
	if err != nil {
		return domain.NotificationListResponse{}, err
	}

	unread, err := s.notificationRepository.CountUnread(ctx, userID)
	if err != nil {
		return domain.NotificationListResponse{}, err
	}

	items := make([]domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toNotificationResponse(n))
	}

	return domain.NotificationListResponse{Items: items, UnreadCount: unread}, nil
}

// ownedNotification resolves an id within the caller's own notifications;
// another user's notification with the same id is simply not found.
func (s *notificationService) ownedNotification(ctx context.Context, id string, userID string) (*entities.Notification, error) {
	notification, err := s.notificationRepository.GetNotificationByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string, userID string) error {
	if _, err := s.ownedNotification(ctx, id, userID); err != nil {
		return err
	}
	if err := s.notificationRepository.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	s.events.NotificationChanged(userID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	affected, err := s.notificationRepository.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.events.NotificationChanged(userID)
	}
	return affected, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, id string, userID string) error {
	if _, err := s.ownedNotification(ctx, id, userID); err != nil {
		return err
	}
	if err := s.notificationRepository.DeleteNotification(ctx, userID, id); err != nil {
		return err
	}
	s.events.NotificationChanged(userID)
	return nil
}
