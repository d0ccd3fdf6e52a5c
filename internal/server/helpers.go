package server

import (
	"roomie/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseLimit extracts the limit query parameter. Out-of-range values are
// clamped rather than rejected.
func parseLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", service.DefaultListLimit)
	if limit <= 0 {
		limit = service.DefaultListLimit
	}
	if limit > service.MaxListLimit {
		limit = service.MaxListLimit
	}
	return limit
}
