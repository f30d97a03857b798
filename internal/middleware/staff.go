package middleware

import (
	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StaffRequired verifies the authenticated user against the database rather
// than trusting the is_staff claim, so a demotion takes effect immediately.
func StaffRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !user.IsStaff && !user.IsSuperuser {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}
		return c.Next()
	}
}
