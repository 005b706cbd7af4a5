package domain

import (
	"errors"
	"time"
)

const (
	NotificationTypeMeal             = "meal"
	NotificationTypeExpiry           = "expiry"
	NotificationTypeDonationRedeemed = "donation_redeemed"
)

var (
	MessageSuccessGetNotifications   = "notifications retrieved successfully"
	MessageSuccessMarkRead           = "notification marked as read"
	MessageSuccessMarkAllRead        = "all notifications marked as read"
	MessageSuccessDeleteNotification = "notification deleted successfully"

	MessageFailedGetNotifications   = "failed to retrieve notifications"
	MessageFailedMarkRead           = "failed to mark notification as read"
	MessageFailedMarkAllRead        = "failed to mark all notifications as read"
	MessageFailedDeleteNotification = "failed to delete notification"

	ErrNotificationNotFound = errors.New("notification not found")
)

type (
	NotificationResponse struct {
		ID          string            `json:"id"`
		Type        string            `json:"type"`
		Title       string            `json:"title"`
		Body        string            `json:"body"`
		Read        bool              `json:"read"`
		TargetRoute string            `json:"target_route,omitempty"`
		TargetParams map[string]string `json:"target_params,omitempty"`
		WeekKey     string            `json:"week_key,omitempty"`
		Slot        string            `json:"slot,omitempty"`
		Date        string            `json:"date,omitempty"`
		ReminderAt  *time.Time        `json:"reminder_at,omitempty"`
		DonationID  string            `json:"donation_id,omitempty"`
		CreatedAt   time.Time         `json:"created_at"`
		UpdatedAt   time.Time         `json:"updated_at"`
	}

	NotificationListResponse struct {
		Items       []NotificationResponse `json:"items"`
		UnreadCount int64                  `json:"unread_count"`
	}
)
