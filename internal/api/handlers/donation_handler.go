package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"smartfud/domain"
	"smartfud/internal/api/presenters"
	"smartfud/pkg/donation"
)

type (
	DonationHandler interface {
		GetMyDonations(c *fiber.Ctx) error
		GetAllDonations(c *fiber.Ctx) error
		UpdateDonation(c *fiber.Ctx) error
		DeleteDonation(c *fiber.Ctx) error
		ConvertFromInventory(c *fiber.Ctx) error
		RedeemDonation(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

func donationErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrDonationNotFound), errors.Is(err, domain.ErrInventoryItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedDonationAccess), errors.Is(err, domain.ErrUnauthorizedAccess):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyRedeemed),
		errors.Is(err, domain.ErrRedeemedImmutable),
		errors.Is(err, domain.ErrItemReserved):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func (h *donationHandler) GetMyDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	donations, err := h.donationService.GetUserDonations(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, donations, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetAllDonations(c *fiber.Ctx) error {
	donations, err := h.donationService.GetAllDonations(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAllDonations, err)
	}

	return presenters.SuccessResponse(c, donations, fiber.StatusOK, domain.MessageSuccessGetAllDonations)
}

func (h *donationHandler) UpdateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")
	req := new(domain.UpdateDonationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDonation, err)
	}

	if err := h.donationService.UpdateDonation(c.Context(), donationID, *req, userID); err != nil {
		return presenters.ErrorResponse(c, donationErrorStatus(err), domain.MessageFailedUpdateDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateDonation)
}

func (h *donationHandler) DeleteDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	if err := h.donationService.DeleteDonation(c.Context(), donationID, userID); err != nil {
		return presenters.ErrorResponse(c, donationErrorStatus(err), domain.MessageFailedDeleteDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDonation)
}

func (h *donationHandler) ConvertFromInventory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ConvertDonationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConvertDonation, err)
	}

	res, err := h.donationService.ConvertFromInventory(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, donationErrorStatus(err), domain.MessageFailedConvertDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessConvertDonation)
}

func (h *donationHandler) RedeemDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RedeemDonationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRedeemDonation, err)
	}

	res, err := h.donationService.RedeemDonation(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, donationErrorStatus(err), domain.MessageFailedRedeemDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRedeemDonation)
}
