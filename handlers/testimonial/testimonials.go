package testimonial

import (
	"strconv"

	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/services/listview"
	"github.com/elevateacademy/portal-api/utils/middleware"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// TestimonialHandler handles testimonial submission and moderation requests
type TestimonialHandler struct {
	service   *services.TestimonialService
	validator *validation.Validator
}

// NewTestimonialHandler creates a new testimonial handler
func NewTestimonialHandler(service *services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// SetStatusRequest is the admin moderation decision payload.
type SetStatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=pending approved rejected"`
	IsFeatured bool   `json:"is_featured"`
}

func specFromQuery(c *fiber.Ctx) listview.Spec {
	spec := listview.Spec{
		Search:  c.Query("search", ""),
		Filters: map[string]string{},
		SortKey: c.Query("sort", "created_at"),
		SortDir: listview.SortDirection(c.Query("dir", "desc")),
	}
	for _, field := range []string{"status", "rating"} {
		if v := c.Query(field, ""); v != "" {
			spec.Filters[field] = v
		}
	}
	return spec
}

// ListApproved handles GET /api/v1/testimonials (public)
func (h *TestimonialHandler) ListApproved(c *fiber.Ctx) error {
	testimonials, err := h.service.Approved(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"testimonials": testimonials})
}

// ListFeatured handles GET /api/v1/testimonials/featured
func (h *TestimonialHandler) ListFeatured(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "6"))
	testimonials, err := h.service.Featured(c.Context(), limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"testimonials": testimonials})
}

// GetOwn handles GET /api/v1/testimonials/me
func (h *TestimonialHandler) GetOwn(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	testimonial, err := h.service.ByUser(c.Context(), session.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, testimonial)
}

// Submit handles POST /api/v1/testimonials
func (h *TestimonialHandler) Submit(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req services.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	req.ReviewText = validation.SanitizeString(req.ReviewText)

	testimonial, err := h.service.Submit(c.Context(), session.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, testimonial)
}

// UpdateOwn handles PUT /api/v1/testimonials/me
func (h *TestimonialHandler) UpdateOwn(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req services.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	req.ReviewText = validation.SanitizeString(req.ReviewText)

	testimonial, err := h.service.UpdateOwn(c.Context(), session.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Testimonial updated successfully", testimonial)
}

// ListAll handles GET /api/v1/admin/testimonials (moderation queue)
func (h *TestimonialHandler) ListAll(c *fiber.Ctx) error {
	testimonials, err := h.service.All(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}

	view := listview.ApplyView(testimonials, specFromQuery(c), services.TestimonialListAdapter())
	return response.Success(c, fiber.Map{
		"testimonials": view,
		"total":        len(view),
	})
}

// SetStatus handles PUT /api/v1/admin/testimonials/:id/status
func (h *TestimonialHandler) SetStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid testimonial id")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	testimonial, err := h.service.SetStatus(c.Context(), uint(id), req.Status, req.IsFeatured)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Testimonial moderated successfully", testimonial)
}

// Delete handles DELETE /api/v1/admin/testimonials/:id
func (h *TestimonialHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid testimonial id")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Testimonial deleted successfully", nil)
}
