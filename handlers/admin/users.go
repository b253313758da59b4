package admin

import (
	"strconv"

	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/services/listview"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the admin member-management surface
type UserHandler struct {
	service   *services.UserService
	validator *validation.Validator
}

// NewUserHandler creates a new admin user handler
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// ResetPasswordRequest represents the request for admin password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// SetMembershipRequest moves a member between membership states.
type SetMembershipRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended expired"`
}

func userSpecFromQuery(c *fiber.Ctx) listview.Spec {
	spec := listview.Spec{
		Search:  c.Query("search", ""),
		Filters: map[string]string{},
		SortKey: c.Query("sort", "created_at"),
		SortDir: listview.SortDirection(c.Query("dir", "desc")),
	}
	for _, field := range []string{"role", "membership_status", "payment_status"} {
		if v := c.Query(field, ""); v != "" {
			spec.Filters[field] = v
		}
	}
	return spec
}

// ListUsers handles GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.All(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}

	view := listview.ApplyView(users, userSpecFromQuery(c), services.UserListAdapter())
	for i := range view {
		view[i].Sanitize()
	}

	return response.Success(c, fiber.Map{
		"users": view,
		"total": len(view),
	})
}

// GetUser handles GET /api/v1/admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	user, err := h.service.ByID(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	user.Sanitize()
	return response.Success(c, user)
}

// CreateUser handles POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	req.FullName = validation.SanitizeString(req.FullName)

	user, err := h.service.Create(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	user.Sanitize()
	return response.Created(c, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}

// ResetPassword handles PUT /api/v1/admin/users/:id/password
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.service.UpdatePassword(c.Context(), uint(id), req.NewPassword); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Password updated successfully", nil)
}

// SetMembership handles PUT /api/v1/admin/users/:id/membership
func (h *UserHandler) SetMembership(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req SetMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.service.SetMembershipStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	user.Sanitize()
	return response.SuccessWithMessage(c, "Membership updated successfully", user)
}

// GetUserByEmail handles GET /api/v1/admin/users/by-email?email=
func (h *UserHandler) GetUserByEmail(c *fiber.Ctx) error {
	email := c.Query("email", "")
	if !validation.ValidateEmail(email) {
		return response.BadRequest(c, "Invalid email")
	}

	user, err := h.service.ByEmail(c.Context(), email)
	if err != nil {
		return response.FromError(c, err)
	}
	user.Sanitize()
	return response.Success(c, user)
}
