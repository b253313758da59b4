package admin

import (
	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/services/bulk"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// BulkHandler dispatches one admin action across a selection of records.
// Destructive actions must arrive with confirmed=true; the response carries
// the per-item outcome so the client can reload the table and clear its
// selection regardless of partial failures.
type BulkHandler struct {
	courses      *services.CourseService
	reviews      *services.ReviewService
	testimonials *services.TestimonialService
	users        *services.UserService
	validator    *validation.Validator
}

// NewBulkHandler creates a new bulk action handler
func NewBulkHandler(
	courses *services.CourseService,
	reviews *services.ReviewService,
	testimonials *services.TestimonialService,
	users *services.UserService,
) *BulkHandler {
	return &BulkHandler{
		courses:      courses,
		reviews:      reviews,
		testimonials: testimonials,
		users:        users,
		validator:    validation.NewValidator(),
	}
}

// BulkRequest is the shared payload for every bulk endpoint.
type BulkRequest struct {
	Action    string `json:"action" validate:"required"`
	IDs       []uint `json:"ids" validate:"required,min=1"`
	Confirmed bool   `json:"confirmed"`
}

func (h *BulkHandler) parseRequest(c *fiber.Ctx) (*BulkRequest, error) {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return nil, response.ValidationError(c, err)
	}
	return &req, nil
}

func bulkResult(c *fiber.Ctx, summary *bulk.Summary, exported interface{}) error {
	payload := fiber.Map{"summary": summary}
	if summary.Action == bulk.ActionExport {
		payload["exported"] = exported
	}
	return response.SuccessWithMessage(c, "Bulk action completed", payload)
}

// Courses handles POST /api/v1/admin/courses/bulk
func (h *BulkHandler) Courses(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	target := &services.CourseBulkTarget{Service: h.courses}
	summary, err := bulk.Run(c.Context(), bulk.Action(req.Action), req.IDs, target, req.Confirmed)
	if err != nil {
		return response.FromError(c, err)
	}
	return bulkResult(c, summary, target.Exported)
}

// Reviews handles POST /api/v1/admin/reviews/bulk
func (h *BulkHandler) Reviews(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	target := &services.ReviewBulkTarget{Service: h.reviews}
	summary, err := bulk.Run(c.Context(), bulk.Action(req.Action), req.IDs, target, req.Confirmed)
	if err != nil {
		return response.FromError(c, err)
	}
	return bulkResult(c, summary, target.Exported)
}

// Testimonials handles POST /api/v1/admin/testimonials/bulk
func (h *BulkHandler) Testimonials(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	target := &services.TestimonialBulkTarget{Service: h.testimonials}
	summary, err := bulk.Run(c.Context(), bulk.Action(req.Action), req.IDs, target, req.Confirmed)
	if err != nil {
		return response.FromError(c, err)
	}
	return bulkResult(c, summary, target.Exported)
}

// Users handles POST /api/v1/admin/users/bulk
func (h *BulkHandler) Users(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	target := &services.UserBulkTarget{Service: h.users}
	summary, err := bulk.Run(c.Context(), bulk.Action(req.Action), req.IDs, target, req.Confirmed)
	if err != nil {
		return response.FromError(c, err)
	}
	return bulkResult(c, summary, target.Exported)
}
