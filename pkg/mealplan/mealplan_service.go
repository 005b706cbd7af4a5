package mealplan

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/internal/ws"
	"smartfud/pkg/inventory"
	"smartfud/pkg/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reminderHours maps each meal slot to its local reminder hour.
var reminderHours = map[string]int{
	"breakfast": 8,
	"lunch":     12,
	"dinner":    18,
	"snack":     16,
}

var weekKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type (
	MealPlanService interface {
		GetWeek(ctx context.Context, userID string, weekKey string) (domain.MealPlanResponse, error)
		SaveWeek(ctx context.Context, userID string, weekKey string, req domain.SaveMealPlanRequest) (domain.MealPlanResponse, error)
		GetSuggestions(ctx context.Context, userID string) ([]domain.MealSuggestion, error)
	}

	mealPlanService struct {
		db                     *gorm.DB
		mealPlanRepository     MealPlanRepository
		inventoryRepository    inventory.InventoryRepository
		notificationRepository notification.NotificationRepository
		events                 ws.Publisher
	}
)

func NewMealPlanService(
	db *gorm.DB,
	mealPlanRepository MealPlanRepository,
	inventoryRepository inventory.InventoryRepository,
	notificationRepository notification.NotificationRepository,
	events ws.Publisher,
) MealPlanService {
	return &mealPlanService{
		db:                     db,
		mealPlanRepository:     mealPlanRepository,
		inventoryRepository:    inventoryRepository,
		notificationRepository: notificationRepository,
		events:                 events,
	}
}

// weekKeyOf derives the "YYYY-WW" key for a week's Monday using ISO week
// numbering.
func weekKeyOf(weekStart time.Time) string {
	year, week := weekStart.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}

func slotEmpty(slot entities.MealSlot) bool {
	return strings.TrimSpace(slot.Title) == ""
}

func toMealPlanResponse(plan *entities.MealPlan) domain.MealPlanResponse {
	slots := plan.Slots
	if slots == nil {
		slots = map[string]entities.MealSlot{}
	}
	return domain.MealPlanResponse{
		WeekKey:   plan.WeekKey,
		WeekStart: plan.WeekStart,
		Slots:     slots,
		UpdatedAt: plan.UpdatedAt,
	}
}

func (s *mealPlanService) GetWeek(ctx context.Context, userID string, weekKey string) (domain.MealPlanResponse, error) {
	if !weekKeyPattern.MatchString(weekKey) {
		return domain.MealPlanResponse{}, domain.ErrInvalidWeekKey
	}

	plan, err := s.mealPlanRepository.GetPlan(ctx, userID, weekKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MealPlanResponse{}, domain.ErrMealPlanNotFound
		}
		return domain.MealPlanResponse{}, err
	}
	return toMealPlanResponse(plan), nil
}

// validateSlots checks every cell key is "<yyyy-mm-dd>:<slot>" with a date
// inside the plan's week and a slot from the fixed palette. Zero-quantity
// ingredient lines are pruned in place.
func validateSlots(slots map[string]entities.MealSlot, weekStart time.Time) error {
	weekEnd := weekStart.AddDate(0, 0, 7)
	for key, slot := range slots {
		datePart, slotPart, found := strings.Cut(key, ":")
		if !found {
			return domain.ErrInvalidSlotKey
		}
		date, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			return domain.ErrInvalidSlotKey
		}
		if date.Before(weekStart) || !date.Before(weekEnd) {
			return domain.ErrInvalidSlotKey
		}

		valid := false
		for _, name := range domain.MealSlotKeys {
			if slotPart == name {
				valid = true
				break
			}
		}
		if !valid {
			return domain.ErrInvalidSlotKey
		}

		kept := slot.Ingredients[:0]
		for _, line := range slot.Ingredients {
			if line.Quantity > 0 {
				kept = append(kept, line)
			}
		}
		slot.Ingredients = kept
		slots[key] = slot
	}
	return nil
}

// SaveWeek is the plan commit: the plan row, every affected inventory row,
// and the week's reminder notifications are written in one transaction, so a
// concurrent reader never sees reservations without the plan that caused
// them. Notification ids are deterministic per (date, slot), which makes a
// retried commit converge instead of duplicating reminders.
func (s *mealPlanService) SaveWeek(ctx context.Context, userID string, weekKey string, req domain.SaveMealPlanRequest) (domain.MealPlanResponse, error) {
	if !weekKeyPattern.MatchString(weekKey) {
		return domain.MealPlanResponse{}, domain.ErrInvalidWeekKey
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil || weekKeyOf(weekStart) != weekKey {
		return domain.MealPlanResponse{}, domain.ErrInvalidWeekKey
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.MealPlanResponse{}, domain.ErrParseUUID
	}

	slots := req.Slots
	if slots == nil {
		slots = map[string]entities.MealSlot{}
	}
	if err := validateSlots(slots, weekStart); err != nil {
		return domain.MealPlanResponse{}, err
	}

	items, err := s.inventoryRepository.GetPlannableItems(ctx, userID)
	if err != nil {
		return domain.MealPlanResponse{}, err
	}

	reservations := computeReservations(slots, items)
	if len(reservations.Shortfalls) > 0 {
		return domain.MealPlanResponse{}, &domain.OverReservedError{Shortfalls: reservations.Shortfalls}
	}

	// Prefetch existing reminders so an unchanged slot keeps its read state
	// and createdAt across re-saves.
	existing, err := s.notificationRepository.GetMealNotificationsByWeek(ctx, userID, weekKey)
	if err != nil {
		return domain.MealPlanResponse{}, err
	}
	existingByID := make(map[string]*entities.Notification, len(existing))
	for _, n := range existing {
		existingByID[n.ID] = n
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	plan := &entities.MealPlan{
		UserID:    userUUID,
		WeekKey:   weekKey,
		WeekStart: weekStart,
		Slots:     slots,
	}

	var upserts []*entities.Notification
	var deletions []string

	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		date := weekStart.AddDate(0, 0, dayOffset)
		dateStr := date.Format("2006-01-02")
		for _, slotName := range domain.MealSlotKeys {
			slotKey := dateStr + ":" + slotName
			notifID := fmt.Sprintf("meal_%s_%s", dateStr, slotName)
			slot, filled := slots[slotKey]

			if !filled || slotEmpty(slot) {
				if _, had := existingByID[notifID]; had {
					deletions = append(deletions, notifID)
				}
				continue
			}

			// Past meals get no new or refreshed reminders; an already
			// delivered one is left as the user saw it.
			if date.Before(today) {
				continue
			}

			reminderAt := time.Date(date.Year(), date.Month(), date.Day(),
				reminderHours[slotName], 0, 0, 0, now.Location())

			notif := &entities.Notification{
				ID:          notifID,
				UserID:      userUUID,
				Type:        domain.NotificationTypeMeal,
				Title:       fmt.Sprintf("Meal reminder: %s", slot.Title),
				Body:        fmt.Sprintf("%s planned for %s on %s", slot.Title, slotName, dateStr),
				TargetRoute: "/meal-planner",
				TargetParams: map[string]string{
					"weekKey": weekKey,
					"slot":    slotKey,
				},
				WeekKey:    weekKey,
				Slot:       slotName,
				Date:       dateStr,
				ReminderAt: &reminderAt,
			}
			upserts = append(upserts, notif)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.mealPlanRepository.WithTx(tx).UpsertPlan(ctx, plan); err != nil {
			return err
		}

		inventoryRepo := s.inventoryRepository.WithTx(tx)
		for _, write := range reservations.Writes {
			if err := inventoryRepo.UpdateReservation(ctx, write.Item.ID.String(), write.Reserved, write.Status); err != nil {
				return err
			}
		}

		notificationRepo := s.notificationRepository.WithTx(tx)
		for _, notif := range upserts {
			if err := notificationRepo.UpsertNotification(ctx, notif); err != nil {
				return err
			}
		}
		return notificationRepo.DeleteNotifications(ctx, userID, deletions)
	})
	if err != nil {
		return domain.MealPlanResponse{}, err
	}

	s.events.MealPlanSaved(userID, weekKey)
	s.events.InventoryChanged(userID)
	if len(upserts) > 0 || len(deletions) > 0 {
		s.events.NotificationChanged(userID)
	}

	plan.UpdatedAt = now
	return toMealPlanResponse(plan), nil
}

// GetSuggestions builds quick meal ideas from stock that is expiring within
// three days, padded with fresh items.
func (s *mealPlanService) GetSuggestions(ctx context.Context, userID string) ([]domain.MealSuggestion, error) {
	items, err := s.inventoryRepository.GetPlannableItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	soon := time.Now().AddDate(0, 0, 3)
	var expiring, fresh []*entities.InventoryItem
	for _, item := range items {
		if item.Status != domain.InventoryStatusActive || item.Quantity <= 0 {
			continue
		}
		if item.Expiry != nil && !item.Expiry.After(soon) {
			expiring = append(expiring, item)
		} else {
			fresh = append(fresh, item)
		}
	}
	pool := append(expiring, fresh...)

	line := func(item *entities.InventoryItem) entities.IngredientLine {
		return entities.IngredientLine{ItemID: item.ID.String(), Name: item.Name, Quantity: 1}
	}

	var suggestions []domain.MealSuggestion
	if len(pool) > 0 {
		suggestions = append(suggestions, domain.MealSuggestion{
			Title:       fmt.Sprintf("Use %s", pool[0].Name),
			Note:        "Quick dish to avoid waste",
			Ingredients: []entities.IngredientLine{line(pool[0])},
		})
	}
	if len(pool) > 1 {
		suggestions = append(suggestions, domain.MealSuggestion{
			Title:       fmt.Sprintf("%s sauté", pool[1].Name),
			Note:        "Simple stovetop",
			Ingredients: []entities.IngredientLine{line(pool[1])},
		})
	}
	if len(pool) > 2 {
		suggestions = append(suggestions, domain.MealSuggestion{
			Title:       fmt.Sprintf("%s & %s", pool[2].Name, pool[0].Name),
			Note:        "Two-ingredient combo",
			Ingredients: []entities.IngredientLine{line(pool[2]), line(pool[0])},
		})
	}

	suggestions = append(suggestions, basicRecipes()...)
	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}
	return suggestions, nil
}

func basicRecipes() []domain.MealSuggestion {
	return []domain.MealSuggestion{
		{
			Title: "Sandwich",
			Note:  "Simple sandwich with bread and jam.",
			Ingredients: []entities.IngredientLine{
				{Name: "bread", Quantity: 2},
				{Name: "jam", Quantity: 1},
			},
		},
		{
			Title: "Egg Fried Rice",
			Note:  "Fried rice with eggs and garlic.",
			Ingredients: []entities.IngredientLine{
				{Name: "rice", Quantity: 1},
				{Name: "egg", Quantity: 2},
				{Name: "garlic", Quantity: 1},
			},
		},
		{
			Title: "Pasta with Tomato",
			Note:  "Simple pasta with tomato sauce.",
			Ingredients: []entities.IngredientLine{
				{Name: "pasta", Quantity: 1},
				{Name: "tomato", Quantity: 2},
			},
		},
	}
}
