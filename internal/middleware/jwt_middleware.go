package middleware

import (
	"strings"

	"erp/internal/models"
	"erp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Keys of the identity stored in fiber.Ctx locals by AuthRequired.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// TokenValidator turns a bearer token into claims. *services.AuthService satisfies it.
type TokenValidator interface {
	ValidateToken(token string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run after AuthRequired.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role := Identity(c)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not allowed to perform this action",
		})
	}
}

// StaffOnly admits admins and staff.
func StaffOnly() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleStaff)
}

// Identity returns the caller stored by AuthRequired.
func Identity(c *fiber.Ctx) (userID string, role models.Role) {
	userID, _ = c.Locals(LocalUserID).(string)
	role, _ = c.Locals(LocalRole).(models.Role)
	return userID, role
}

// CanActFor reports whether the caller may act on behalf of userID: staff for anyone,
// everybody else only for themselves.
func CanActFor(c *fiber.Ctx, userID string) bool {
	callerID, role := Identity(c)
	return role.IsStaff() || (callerID != "" && callerID == userID)
}
