package middleware

import (
	"Glacier/Models"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionDuration is the fixed lifetime of a login session.
const SessionDuration = 24 * time.Hour

func SecretKey() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("glacier-dev-secret")
}

// Verify authenticates the request from the jwt cookie and enforces the
// required role. Pass an empty string to accept any authenticated user.
// The token's jti must match a live Session row, so logout and account
// rejection revoke access immediately.
func Verify(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies("jwt")
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not logged in",
			})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return SecretKey(), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token claims",
			})
		}

		var session Models.Session
		if err := Models.DB.Where("token_id = ?", claims.ID).First(&session).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Session expired",
			})
		}
		if time.Now().After(session.ExpiresAt) {
			Models.DB.Delete(&session)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Session expired",
			})
		}

		var user Models.User
		if err := Models.DB.First(&user, session.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found",
			})
		}

		// Approval can be revoked after login; re-check every request.
		if !user.CanLogin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Account pending approval",
			})
		}

		c.Locals("user", user)

		if requiredRole == Models.RoleAdmin && user.Role != Models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Insufficient permissions to access this resource",
			})
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Verify.
func CurrentUser(c *fiber.Ctx) (Models.User, bool) {
	user, ok := c.Locals("user").(Models.User)
	return user, ok
}
