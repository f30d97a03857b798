package handlers

import (
	"errors"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/middleware"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/casaflow/casaflow-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IssueHandler struct {
	issueService *services.IssueService
	authService  *services.AuthService
}

func NewIssueHandler(issueService *services.IssueService, authService *services.AuthService) *IssueHandler {
	return &IssueHandler{issueService: issueService, authService: authService}
}

// currentUser resolves the authenticated user record from the JWT claims.
func (h *IssueHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return nil, err
	}
	return h.authService.GetUser(userID)
}

func (h *IssueHandler) Create(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	apartmentID, err := uuid.Parse(c.Params("apartment_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid apartment id",
		})
	}

	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	issue, err := h.issueService.CreateIssue(c.UserContext(), user, apartmentID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotApartmentTenant) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(issue)
}

func (h *IssueHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	issues, total, err := h.issueService.ListIssues(c.UserContext(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list issues",
		})
	}
	return c.JSON(fiber.Map{"issues": issues, "total": total})
}

func (h *IssueHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	issues, err := h.issueService.MyIssues(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list issues",
		})
	}
	return c.JSON(fiber.Map{"issues": issues})
}

func (h *IssueHandler) ListAssigned(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	issues, err := h.issueService.AssignedIssues(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list issues",
		})
	}
	return c.JSON(fiber.Map{"issues": issues})
}

func (h *IssueHandler) Get(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	issueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid issue id",
		})
	}

	ip := clientIP(c)
	resp, err := h.issueService.GetIssue(c.UserContext(), issueID, user, &ip)
	if err != nil {
		if errors.Is(err, services.ErrIssueNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Issue not found",
			})
		}
		if errors.Is(err, services.ErrIssueViewDenied) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load issue",
		})
	}
	return c.JSON(resp)
}

func (h *IssueHandler) Update(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	issueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid issue id",
		})
	}

	var req dto.UpdateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	issue, err := h.issueService.UpdateIssue(c.UserContext(), issueID, user, &req)
	if err != nil {
		if errors.Is(err, services.ErrIssueNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Issue not found",
			})
		}
		if errors.Is(err, services.ErrIssueUpdateDenied) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update issue",
		})
	}
	return c.JSON(issue)
}

func (h *IssueHandler) Delete(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	issueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid issue id",
		})
	}

	if err := h.issueService.DeleteIssue(c.UserContext(), issueID, user); err != nil {
		if errors.Is(err, services.ErrIssueNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Issue not found",
			})
		}
		if errors.Is(err, services.ErrIssueDeleteDenied) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete issue",
		})
	}
	return c.JSON(fiber.Map{"message": "Issue deleted successfully"})
}
