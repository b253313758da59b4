package course

import (
	"strconv"

	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/services/listview"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	service   *services.CourseService
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(service *services.CourseService) *CourseHandler {
	return &CourseHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string  `json:"description"`
	Level         *string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationWeeks *int     `json:"duration_weeks" validate:"omitempty,gt=0"`
	PriceNaira    *float64 `json:"price_naira" validate:"omitempty,gte=0"`
	Topics        []string `json:"topics"`
	ImageURL      *string  `json:"image_url"`
	Status        *string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsFeatured    *bool    `json:"is_featured"`
}

// specFromQuery builds the filter/sort spec from list query parameters.
// Filter values of "all" and empty strings mean no restriction.
func specFromQuery(c *fiber.Ctx) listview.Spec {
	spec := listview.Spec{
		Search:  c.Query("search", ""),
		Filters: map[string]string{},
		SortKey: c.Query("sort", "created_at"),
		SortDir: listview.SortDirection(c.Query("dir", "desc")),
	}
	for _, field := range []string{"status", "level", "instructor_id"} {
		if v := c.Query(field, ""); v != "" {
			spec.Filters[field] = v
		}
	}
	return spec
}

// ListPublished handles GET /api/v1/courses (public catalog)
func (h *CourseHandler) ListPublished(c *fiber.Ctx) error {
	courses, err := h.service.Published(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}

	spec := specFromQuery(c)
	spec.Filters["status"] = listview.All // catalog is already restricted to published
	view := listview.ApplyView(courses, spec, services.CourseListAdapter())

	return response.Success(c, fiber.Map{
		"courses": view,
		"total":   len(view),
	})
}

// ListFeatured handles GET /api/v1/courses/featured
func (h *CourseHandler) ListFeatured(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "6"))
	courses, err := h.service.Featured(c.Context(), limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"courses": courses})
}

// GetBySlug handles GET /api/v1/courses/:slug
func (h *CourseHandler) GetBySlug(c *fiber.Ctx) error {
	course, err := h.service.BySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, course)
}

// ListAll handles GET /api/v1/admin/courses. The admin table sees every
// course, filtered and sorted by the same engine the public list uses.
func (h *CourseHandler) ListAll(c *fiber.Ctx) error {
	courses, err := h.service.All(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}

	view := listview.ApplyView(courses, specFromQuery(c), services.CourseListAdapter())
	return response.Success(c, fiber.Map{
		"courses": view,
		"total":   len(view),
	})
}

// GetByID handles GET /api/v1/admin/courses/:id
func (h *CourseHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.service.ByID(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, course)
}

// Create handles POST /api/v1/admin/courses
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req services.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Title = validation.SanitizeString(req.Title)
	req.Description = validation.SanitizeString(req.Description)

	course, err := h.service.Create(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, course)
}

// Update handles PUT /api/v1/admin/courses/:id
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = validation.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = validation.SanitizeString(*req.Description)
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}
	if req.DurationWeeks != nil {
		fields["duration_weeks"] = *req.DurationWeeks
	}
	if req.PriceNaira != nil {
		fields["price_naira"] = *req.PriceNaira
	}
	if req.Topics != nil {
		fields["topics"] = req.Topics
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}
	if len(fields) == 0 {
		return response.BadRequest(c, "No fields to update")
	}

	course, err := h.service.Update(c.Context(), uint(id), fields)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Course updated successfully", course)
}

// Delete handles DELETE /api/v1/admin/courses/:id
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}

// Duplicate handles POST /api/v1/admin/courses/:id/duplicate
func (h *CourseHandler) Duplicate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.service.Duplicate(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, course)
}
