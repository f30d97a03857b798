package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/casaflow/casaflow-backend/internal/config"
	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/middleware"
	"github.com/casaflow/casaflow-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	h.setAuthCookies(c, resp)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAccountDisabled) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	h.setAuthCookies(c, resp)
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	// Browser clients carry the refresh token in the auth cookie.
	if req.RefreshToken == "" {
		req.RefreshToken = c.Cookies(middleware.RefreshCookie)
	}
	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Refresh token is required",
		})
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAccountDisabled) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	h.setAuthCookies(c, resp)
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.RefreshToken == "" {
		req.RefreshToken = c.Cookies(middleware.RefreshCookie)
	}

	if req.RefreshToken != "" {
		if err := h.authService.Logout(&req); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to logout",
			})
		}
	}

	h.clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	return c.JSON(dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName(),
		IsStaff:  user.IsStaff,
	})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.authService.DeleteAccount(userID, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Incorrect password. Please try again.",
			})
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		if strings.Contains(err.Error(), "password is required") {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Password is required",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete account",
		})
	}

	h.clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

// setAuthCookies mirrors the token pair into cookies. The token cookies are
// HttpOnly; logged_in is a plain flag the frontend reads to know a session
// exists.
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, resp *dto.AuthResponse) {
	now := time.Now()
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessCookie,
		Value:    resp.AccessToken,
		Expires:  now.Add(h.cfg.JWTAccessExpiry),
		Domain:   h.cfg.CookieDomain,
		Path:     "/",
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshCookie,
		Value:    resp.RefreshToken,
		Expires:  now.Add(h.cfg.JWTRefreshExpiry),
		Domain:   h.cfg.CookieDomain,
		Path:     "/",
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.LoggedInCookie,
		Value:    "true",
		Expires:  now.Add(h.cfg.JWTAccessExpiry),
		Domain:   h.cfg.CookieDomain,
		Path:     "/",
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{middleware.AccessCookie, middleware.RefreshCookie, middleware.LoggedInCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			Domain:   h.cfg.CookieDomain,
			Path:     "/",
			Secure:   h.cfg.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
