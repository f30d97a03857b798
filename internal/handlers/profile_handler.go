package handlers

import (
	"errors"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/middleware"
	"github.com/casaflow/casaflow-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ListTenants handles GET /profiles with optional gender and country filters.
func (h *ProfileHandler) ListTenants(c *fiber.Ctx) error {
	filter := dto.ProfileFilter{
		Gender:  c.Query("gender"),
		Country: c.Query("country"),
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	profiles, total, err := h.profileService.ListTenants(c.UserContext(), filter, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list profiles",
		})
	}

	return c.JSON(fiber.Map{"profiles": profiles, "total": total})
}

// ListNonTenants handles GET /profiles/non-tenants with an optional
// occupation filter.
func (h *ProfileHandler) ListNonTenants(c *fiber.Ctx) error {
	filter := dto.ProfileFilter{
		Occupation: c.Query("occupation"),
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	profiles, total, err := h.profileService.ListNonTenants(c.UserContext(), filter, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list profiles",
		})
	}

	return c.JSON(fiber.Map{"profiles": profiles, "total": total})
}

func (h *ProfileHandler) GetByUsername(c *fiber.Ctx) error {
	profile, err := h.profileService.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load profile",
		})
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) GetMine(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	profile, err := h.profileService.GetMine(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not found",
		})
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) UpdateMine(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	profile, err := h.profileService.UpdateMyProfile(c.UserContext(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Profile not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(profile)
}
