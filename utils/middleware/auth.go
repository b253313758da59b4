package middleware

import (
	"strings"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/auth"
	"github.com/elevateacademy/portal-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Session is the authenticated caller, resolved once per request and passed
// explicitly to anything that needs it. Handlers never read auth state from
// anywhere else.
type Session struct {
	UserID uint
	Email  string
	Role   string
	User   *model.User
}

// IsAdmin reports whether the session belongs to an admin account.
func (s *Session) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

const sessionKey = "session"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// resolve validates the bearer token and loads the session user. The token
// version on the user record must match; bumping it invalidates every
// outstanding token.
func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*Session, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, auth.ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return nil, err
	}
	if claims.TokenType != auth.TokenTypeAccess {
		return nil, auth.ErrInvalidToken
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		return nil, auth.ErrInvalidToken
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, auth.ErrInvalidToken
	}

	return &Session{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		User:   &user,
	}, nil
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := m.resolve(c)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid or missing token")
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// Optional is middleware that allows requests with or without a token
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session, err := m.resolve(c); err == nil {
			c.Locals(sessionKey, session)
		}
		return c.Next()
	}
}

// RequireAdmin requires a valid token belonging to an admin account.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := m.resolve(c)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid or missing token")
		}

		if !session.IsAdmin() {
			return response.Forbidden(c, "Admin access required")
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// GetSession extracts the session from the request context.
func GetSession(c *fiber.Ctx) (*Session, bool) {
	session, ok := c.Locals(sessionKey).(*Session)
	return session, ok && session != nil
}
