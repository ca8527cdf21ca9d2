package handlers

import (
	"github.com/edumart/api/database"
	"github.com/edumart/api/utils/cache"
	"github.com/edumart/api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness of the API and its backing stores
type HealthHandler struct {
	store database.Storage
	cache *cache.RedisCache
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Storage, redisCache *cache.RedisCache) *HealthHandler {
	return &HealthHandler{store: store, cache: redisCache}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := fiber.Map{
		"api":      "ok",
		"database": "ok",
		"redis":    "disabled",
	}

	if err := h.store.HealthCheck(); err != nil {
		status["database"] = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"data":    status,
		})
	}

	if h.cache != nil {
		status["redis"] = "ok"
		if err := h.cache.GetClient().Ping(c.UserContext()).Err(); err != nil {
			// Redis is best-effort; a down cache degrades, it does not fail health
			status["redis"] = "unreachable"
		}
	}

	return response.Success(c, status)
}
