package handlers

import (
	"github.com/elevateacademy/portal-api/database"
	"github.com/elevateacademy/portal-api/utils/cache"
	"github.com/elevateacademy/portal-api/utils/response"
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

// Check handles GET /api/v1/health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "ok",
		"database": "ok",
	}

	if err := h.store.HealthCheck(); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		return response.Error(c, fiber.StatusServiceUnavailable, "Service degraded", "HEALTH_CHECK_FAILED")
	}

	// Redis is optional; the API runs without it, featured caches just miss.
	if h.cache != nil {
		if err := h.cache.GetClient().Ping(c.Context()).Err(); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	return response.Success(c, status)
}
