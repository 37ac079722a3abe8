package handlers

import (
	"time"

	"twoknow/database"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports service liveness.
// GET /health
func HandleHealth(c *fiber.Ctx) error {
	store := "memory"
	if database.DB != nil {
		store = "postgres"
		if err := database.Users.Ping(c.UserContext()); err != nil {
			store = "unreachable"
		}
	}
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "2KNOW API",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  store,
	})
}
