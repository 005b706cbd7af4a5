package alerts

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/internal/utils/mailing"
	"smartfud/internal/ws"
	"smartfud/pkg/inventory"
	"smartfud/pkg/notification"

	"github.com/robfig/cron/v3"
)

// expiryWindow is how far ahead the scanner looks for items about to go bad.
const expiryWindow = 3 * 24 * time.Hour

// ExpiryScanner runs a periodic sweep over active inventory and upserts one
// expiry notification per item inside the window. Notification ids are
// derived from the item id so repeated sweeps refresh rather than duplicate.
type ExpiryScanner struct {
	cron                   *cron.Cron
	inventoryRepository    inventory.InventoryRepository
	notificationRepository notification.NotificationRepository
	events                 ws.Publisher
	spec                   string
	sendDigest             bool
}

func NewExpiryScanner(
	inventoryRepository inventory.InventoryRepository,
	notificationRepository notification.NotificationRepository,
	events ws.Publisher,
	spec string,
	sendDigest bool,
) *ExpiryScanner {
	if spec == "" {
		spec = "0 7 * * *"
	}
	return &ExpiryScanner{
		cron:                   cron.New(),
		inventoryRepository:    inventoryRepository,
		notificationRepository: notificationRepository,
		events:                 events,
		spec:                   spec,
		sendDigest:             sendDigest,
	}
}

func (s *ExpiryScanner) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.Scan(ctx); err != nil {
			log.Printf("alerts: expiry scan failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("alerts: expiry scanner scheduled (%s)", s.spec)
	return nil
}

func (s *ExpiryScanner) Stop() {
	s.cron.Stop()
}

// Scan performs one sweep. Exposed so tests and startup can trigger it
// directly without waiting for the schedule.
func (s *ExpiryScanner) Scan(ctx context.Context) error {
	items, err := s.inventoryRepository.GetAllExpiringItems(ctx, expiryWindow)
	if err != nil {
		return err
	}

	perUser := make(map[string][]*entities.InventoryItem)
	for _, item := range items {
		notif := &entities.Notification{
			ID:     fmt.Sprintf("expiry_%s", item.ID.String()),
			UserID: item.UserID,
			Type:   domain.NotificationTypeExpiry,
			Title:  fmt.Sprintf("%s expires soon", item.Name),
			Body: fmt.Sprintf("%s expires on %s. Use it or donate it before it goes to waste.",
				item.Name, item.Expiry.Format("2006-01-02")),
			TargetRoute: "/inventory",
			TargetParams: map[string]string{
				"itemId": item.ID.String(),
			},
		}
		if err := s.notificationRepository.UpsertNotification(ctx, notif); err != nil {
			log.Printf("alerts: failed to upsert expiry notification for item %s: %v", item.ID, err)
			continue
		}
		perUser[item.UserID.String()] = append(perUser[item.UserID.String()], item)
	}

	for userID, userItems := range perUser {
		s.events.NotificationChanged(userID)
		if s.sendDigest {
			s.sendDigestMail(userItems)
		}
	}
	return nil
}

func (s *ExpiryScanner) sendDigestMail(items []*entities.InventoryItem) {
	if len(items) == 0 || items[0].User == nil || items[0].User.Email == "" {
		return
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("<li>%s — expires %s</li>",
			item.Name, item.Expiry.Format("2006-01-02")))
	}
	body := fmt.Sprintf(
		"<p>These items in your inventory expire within the next 3 days:</p><ul>%s</ul><p>Plan a meal or donate them before they spoil.</p>",
		strings.Join(lines, ""))

	if err := mailing.SendMail(items[0].User.Email, "Items expiring soon", body); err != nil {
		log.Printf("alerts: failed to send expiry digest to %s: %v", items[0].User.Email, err)
	}
}
