package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smartfud/entities"
)

var (
	MessageSuccessGetMealPlan     = "meal plan retrieved successfully"
	MessageSuccessSaveMealPlan    = "meal plan saved successfully"
	MessageSuccessGetSuggestions  = "meal suggestions retrieved successfully"

	MessageFailedGetMealPlan    = "failed to retrieve meal plan"
	MessageFailedSaveMealPlan   = "failed to save meal plan"
	MessageFailedGetSuggestions = "failed to retrieve meal suggestions"

	ErrMealPlanNotFound  = errors.New("meal plan not found")
	ErrInvalidWeekKey    = errors.New("invalid week key")
	ErrInvalidSlotKey    = errors.New("invalid slot key")
	ErrPlanOverReserved  = errors.New("plan reserves more than available inventory")
)

// MealSlotKeys is the fixed slot palette; every plan cell key is
// "<yyyy-mm-dd>:<slot>" with slot drawn from this set.
var MealSlotKeys = []string{"breakfast", "lunch", "dinner", "snack"}

// ReservationShortfall reports one over-reserved item so the user can correct
// the whole plan in a single pass.
type ReservationShortfall struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Wanted    int    `json:"wanted"`
	Available int    `json:"available"`
}

// OverReservedError carries the full shortfall list; it wraps
// ErrPlanOverReserved so callers can match with errors.Is.
type OverReservedError struct {
	Shortfalls []ReservationShortfall
}

func (e *OverReservedError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (wanted %d, available %d)", s.Name, s.Wanted, s.Available))
	}
	return "plan over-reserves inventory: " + strings.Join(parts, ", ")
}

func (e *OverReservedError) Unwrap() error { return ErrPlanOverReserved }

type (
	SaveMealPlanRequest struct {
		WeekStart string                       `json:"week_start" validate:"required"`
		Slots     map[string]entities.MealSlot `json:"slots" validate:"required"`
	}

	MealPlanResponse struct {
		WeekKey   string                       `json:"week_key"`
		WeekStart time.Time                    `json:"week_start"`
		Slots     map[string]entities.MealSlot `json:"slots"`
		UpdatedAt time.Time                    `json:"updated_at"`
	}

	MealSuggestion struct {
		Title       string                    `json:"title"`
		Note        string                    `json:"note"`
		Ingredients []entities.IngredientLine `json:"ingredients"`
	}
)
