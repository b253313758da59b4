package admin

import (
	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the admin overview numbers
type DashboardHandler struct {
	stats *services.StatsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(stats *services.StatsService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Overview handles GET /api/v1/admin/dashboard. Each stats block degrades
// independently: a failed read comes back zeroed with partial=true rather
// than failing the whole dashboard.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	partial := false

	courseStats, err := h.stats.GetCourseStats(c.Context())
	if err != nil {
		partial = true
	}
	reviewStats, err := h.stats.GetReviewStats(c.Context())
	if err != nil {
		partial = true
	}
	userStats, err := h.stats.GetUserStats(c.Context())
	if err != nil {
		partial = true
	}

	return response.Success(c, fiber.Map{
		"courses": courseStats,
		"reviews": reviewStats,
		"users":   userStats,
		"partial": partial,
	})
}
