package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// clientIP returns the originating address: the first X-Forwarded-For entry
// when present, the peer address otherwise.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.IP()
}
