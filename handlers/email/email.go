package email

import (
	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// EmailHandler exposes outbound mail to admins
type EmailHandler struct {
	service   *services.EmailService
	validator *validation.Validator
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(service *services.EmailService) *EmailHandler {
	return &EmailHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// SendRequest is the payload for an outbound email.
type SendRequest struct {
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject" validate:"required,max=200"`
	HTML    string   `json:"html" validate:"required"`
	ReplyTo string   `json:"reply_to" validate:"omitempty,email"`
}

// Send handles POST /api/v1/admin/email/send
func (h *EmailHandler) Send(c *fiber.Ctx) error {
	if h.service == nil || !h.service.IsConfigured() {
		return response.ServiceUnavailable(c, "Email delivery is not configured")
	}

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.service.Send(req.To, req.Subject, req.HTML, req.ReplyTo); err != nil {
		return response.InternalServerError(c, "Failed to send email")
	}

	return response.SuccessWithMessage(c, "Email sent successfully", fiber.Map{
		"recipients": len(req.To),
	})
}
