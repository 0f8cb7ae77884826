package handlers

import (
	"context"
	"time"

	"scholarsync/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports whether the process and its datastore are up.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth always answers 200; the database field reflects a ping.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	if err := database.Ping(ctx, h.db); err != nil {
		dbStatus = "unreachable"
	}

	return c.JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"database": dbStatus,
	})
}
