package admin

import (
	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// SettingHandler handles the admin settings surface
type SettingHandler struct {
	service   *services.SettingService
	validator *validation.Validator
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(service *services.SettingService) *SettingHandler {
	return &SettingHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// UpdateSettingRequest is the payload for changing one setting value.
type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// ListSettings handles GET /api/v1/admin/settings
func (h *SettingHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.service.All(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Settings retrieved successfully", settings)
}

// GetSetting handles GET /api/v1/admin/settings/:key
func (h *SettingHandler) GetSetting(c *fiber.Ctx) error {
	setting, err := h.service.Get(c.Context(), c.Params("key"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, setting)
}

// UpdateSetting handles PUT /api/v1/admin/settings/:key
func (h *SettingHandler) UpdateSetting(c *fiber.Ctx) error {
	var req UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	setting, err := h.service.Set(c.Context(), c.Params("key"), req.Value)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Setting updated successfully", setting)
}

// ListPublicSettings handles GET /api/v1/settings (public, no auth)
func (h *SettingHandler) ListPublicSettings(c *fiber.Ctx) error {
	settings, err := h.service.Public(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, settings)
}
