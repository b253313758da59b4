package payment

import (
	"log"
	"strconv"

	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/utils/middleware"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/elevateacademy/portal-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment claims and admin verification
type PaymentHandler struct {
	service      *services.PaymentService
	userService  *services.UserService
	emailService *services.EmailService
	validator    *validation.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	service *services.PaymentService,
	userService *services.UserService,
	emailService *services.EmailService,
) *PaymentHandler {
	return &PaymentHandler{
		service:      service,
		userService:  userService,
		emailService: emailService,
		validator:    validation.NewValidator(),
	}
}

// RejectRequest carries the admin's reason for declining a claim.
type RejectRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// Submit handles POST /api/v1/payments (member payment claim)
func (h *PaymentHandler) Submit(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req services.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	req.Note = validation.SanitizeString(req.Note)

	payment, err := h.service.Submit(c.Context(), session.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, payment)
}

// ListOwn handles GET /api/v1/payments/me
func (h *PaymentHandler) ListOwn(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	payments, err := h.service.ByUser(c.Context(), session.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"payments": payments})
}

// ListAll handles GET /api/v1/admin/payments
func (h *PaymentHandler) ListAll(c *fiber.Ctx) error {
	payments, err := h.service.All(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"payments": payments})
}

// ListPending handles GET /api/v1/admin/payments/pending
func (h *PaymentHandler) ListPending(c *fiber.Ctx) error {
	payments, err := h.service.Pending(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"payments": payments})
}

// Verify handles POST /api/v1/admin/payments/:id/verify
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment id")
	}

	payment, err := h.service.Verify(c.Context(), uint(id), session.UserID)
	if err != nil {
		return response.FromError(c, err)
	}

	if h.emailService != nil && h.emailService.IsConfigured() {
		if user, err := h.userService.ByID(c.Context(), payment.UserID); err == nil {
			go func(email, name, memberID string) {
				if err := h.emailService.SendPaymentVerifiedEmail(email, name, memberID); err != nil {
					log.Printf("Failed to send payment verified email to %s: %v", email, err)
				}
			}(user.Email, user.FullName, user.MemberID)
		}
	}

	return response.SuccessWithMessage(c, "Payment verified successfully", payment)
}

// Reject handles POST /api/v1/admin/payments/:id/reject
func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment id")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	payment, err := h.service.Reject(c.Context(), uint(id), session.UserID, validation.SanitizeString(req.Note))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Payment rejected", payment)
}
