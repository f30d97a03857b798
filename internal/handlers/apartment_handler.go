package handlers

import (
	"errors"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/middleware"
	"github.com/casaflow/casaflow-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ApartmentHandler struct {
	apartmentService *services.ApartmentService
}

func NewApartmentHandler(apartmentService *services.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{apartmentService: apartmentService}
}

func (h *ApartmentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateApartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	apartment, err := h.apartmentService.CreateApartment(c.UserContext(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUnitTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(apartment)
}

func (h *ApartmentHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	apartments, err := h.apartmentService.ListMine(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list apartments",
		})
	}
	return c.JSON(fiber.Map{"apartments": apartments})
}
