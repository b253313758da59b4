package auth

import (
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/services"
	authutil "github.com/elevateacademy/portal-api/utils/auth"
	"github.com/elevateacademy/portal-api/utils/middleware"
	"github.com/elevateacademy/portal-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	userService          *services.UserService
	emailService         *services.EmailService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	db *gorm.DB,
	jwtManager *authutil.JWTManager,
	userService *services.UserService,
	emailService *services.EmailService,
	bruteForceProtection *middleware.BruteForceProtection,
) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		userService:          userService,
		emailService:         emailService,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID               uint      `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	Role             string    `json:"role"`
	MembershipStatus string    `json:"membership_status"`
	PaymentStatus    string    `json:"payment_status"`
	MemberID         string    `json:"member_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		Role:             user.Role,
		MembershipStatus: user.MembershipStatus,
		PaymentStatus:    user.PaymentStatus,
		MemberID:         user.MemberID,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}
