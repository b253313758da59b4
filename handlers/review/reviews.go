package review

import (
	"strconv"

	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/services/listview"
	"github.com/elevateacademy/portal-api/utils/middleware"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles review submission and moderation requests
type ReviewHandler struct {
	service   *services.ReviewService
	validator *validation.Validator
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
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

// ListApproved handles GET /api/v1/reviews (public)
func (h *ReviewHandler) ListApproved(c *fiber.Ctx) error {
	reviews, err := h.service.Approved(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"reviews": reviews})
}

// ListFeatured handles GET /api/v1/reviews/featured
func (h *ReviewHandler) ListFeatured(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "6"))
	reviews, err := h.service.Featured(c.Context(), limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"reviews": reviews})
}

// GetOwn handles GET /api/v1/reviews/me
func (h *ReviewHandler) GetOwn(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	review, err := h.service.ByUser(c.Context(), session.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, review)
}

// Submit handles POST /api/v1/reviews
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
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

	review, err := h.service.Submit(c.Context(), session.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, review)
}

// UpdateOwn handles PUT /api/v1/reviews/me
func (h *ReviewHandler) UpdateOwn(c *fiber.Ctx) error {
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

	review, err := h.service.UpdateOwn(c.Context(), session.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Review updated successfully", review)
}

// ListAll handles GET /api/v1/admin/reviews (moderation queue)
func (h *ReviewHandler) ListAll(c *fiber.Ctx) error {
	reviews, err := h.service.All(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}

	view := listview.ApplyView(reviews, specFromQuery(c), services.ReviewListAdapter())
	return response.Success(c, fiber.Map{
		"reviews": view,
		"total":   len(view),
	})
}

// SetStatus handles PUT /api/v1/admin/reviews/:id/status
func (h *ReviewHandler) SetStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid review id")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	review, err := h.service.SetStatus(c.Context(), uint(id), req.Status, req.IsFeatured)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Review moderated successfully", review)
}

// Delete handles DELETE /api/v1/admin/reviews/:id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid review id")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Review deleted successfully", nil)
}
