package ws

import (
	"encoding/json"
	"log"
	"time"
)

const (
	EventInventoryChanged    = "inventory_changed"
	EventDonationFeedChanged = "donation_feed_changed"
	EventNotificationChanged = "notification_changed"
	EventMealPlanSaved       = "meal_plan_saved"
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Publisher is what the services see; a nil *EventBroadcaster is a valid
// no-op publisher so packages can be tested without a hub.
type Publisher interface {
	InventoryChanged(userID string)
	DonationFeedChanged()
	NotificationChanged(userID string)
	MealPlanSaved(userID, weekKey string)
}

type EventBroadcaster struct {
	hub *Hub
}

func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

func (b *EventBroadcaster) publish(userID string, event Event) {
	if b == nil || b.hub == nil {
		return
	}
	event.Timestamp = time.Now()
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal event %s: %v", event.Type, err)
		return
	}
	if userID == "" {
		b.hub.Broadcast(msg)
		return
	}
	b.hub.SendToUser(userID, msg)
}

func (b *EventBroadcaster) InventoryChanged(userID string) {
	b.publish(userID, Event{Type: EventInventoryChanged})
}

// DonationFeedChanged goes to everyone: the all-donations view is a cross-user
// read index.
func (b *EventBroadcaster) DonationFeedChanged() {
	b.publish("", Event{Type: EventDonationFeedChanged})
}

func (b *EventBroadcaster) NotificationChanged(userID string) {
	b.publish(userID, Event{Type: EventNotificationChanged})
}

func (b *EventBroadcaster) MealPlanSaved(userID, weekKey string) {
	b.publish(userID, Event{Type: EventMealPlanSaved, Payload: map[string]string{"week_key": weekKey}})
}
