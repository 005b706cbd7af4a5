package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"smartfud/domain"
	"smartfud/internal/api/presenters"
	"smartfud/pkg/mealplan"
)

type (
	MealPlanHandler interface {
		GetWeek(c *fiber.Ctx) error
		SaveWeek(c *fiber.Ctx) error
		GetSuggestions(c *fiber.Ctx) error
	}

	mealPlanHandler struct {
		mealPlanService mealplan.MealPlanService
		validator       *validator.Validate
	}
)

func NewMealPlanHandler(mealPlanService mealplan.MealPlanService, validator *validator.Validate) MealPlanHandler {
	return &mealPlanHandler{
		mealPlanService: mealPlanService,
		validator:       validator,
	}
}

func (h *mealPlanHandler) GetWeek(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	weekKey := c.Params("weekKey")

	plan, err := h.mealPlanService.GetWeek(c.Context(), userID, weekKey)
	if err != nil {
		code := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrMealPlanNotFound) {
			code = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, code, domain.MessageFailedGetMealPlan, err)
	}

	return presenters.SuccessResponse(c, plan, fiber.StatusOK, domain.MessageSuccessGetMealPlan)
}

func (h *mealPlanHandler) SaveWeek(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	weekKey := c.Params("weekKey")
	req := new(domain.SaveMealPlanRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveMealPlan, err)
	}

	plan, err := h.mealPlanService.SaveWeek(c.Context(), userID, weekKey, *req)
	if err != nil {
		// Over-reservation carries the full shortfall list so the user can
		// fix the plan in one pass.
		var overReserved *domain.OverReservedError
		if errors.As(err, &overReserved) {
			return presenters.ErrorResponseWithData(c, fiber.StatusConflict,
				domain.MessageFailedSaveMealPlan, err, fiber.Map{
					"shortfalls": overReserved.Shortfalls,
				})
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveMealPlan, err)
	}

	return presenters.SuccessResponse(c, plan, fiber.StatusOK, domain.MessageSuccessSaveMealPlan)
}

func (h *mealPlanHandler) GetSuggestions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	suggestions, err := h.mealPlanService.GetSuggestions(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSuggestions, err)
	}

	return presenters.SuccessResponse(c, suggestions, fiber.StatusOK, domain.MessageSuccessGetSuggestions)
}
