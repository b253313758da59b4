package auth

import (
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/middleware"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// getSession is a local alias so handlers in this package stay terse.
func getSession(c *fiber.Ctx) (*middleware.Session, bool) {
	return middleware.GetSession(c)
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"omitempty,min=2,max=100"`
}

// GetProfile retrieves the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	session, ok := getSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var user model.User
	if err := h.db.First(&user, session.UserID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, toUserResponse(&user))
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	session, ok := getSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	if req.FullName == "" {
		return response.BadRequest(c, "No fields to update")
	}

	var user model.User
	if err := h.db.First(&user, session.UserID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	user.FullName = validation.SanitizeString(req.FullName)
	user.UpdatedAt = time.Now()
	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", toUserResponse(&user))
}
