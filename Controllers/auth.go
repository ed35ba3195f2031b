package Controllers

import (
	"Glacier/Models"
	"Glacier/middleware"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a user and establishes a session.
// POST /api/login
func Login(c *fiber.Ctx) error {
	var req Models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	var user Models.User
	if err := Models.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		// Same message for unknown user and wrong password; no account enumeration.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Incorrect username or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Incorrect username or password",
		})
	}

	if !user.CanLogin() {
		// Generic message, machine-readable code so the client can hint
		// the user without confirming the account to outsiders.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Incorrect username or password",
			"code":    "pending_approval",
		})
	}

	session := Models.Session{
		TokenID:   uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(middleware.SessionDuration),
	}
	if err := Models.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to create session",
			"message": err.Error(),
		})
	}

	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatUint(uint64(user.ID), 10),
		ID:        session.TokenID,
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.SecretKey())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to sign token",
			"message": err.Error(),
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"message": "Logged in successfully",
		"user":    user,
	})
}

// Logout revokes the current session and clears the cookie.
// POST /api/logout
func Logout(c *fiber.Ctx) error {
	cookie := c.Cookies("jwt")
	if cookie != "" {
		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return middleware.SecretKey(), nil
		})
		if err == nil {
			if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok {
				Models.DB.Where("token_id = ?", claims.ID).Delete(&Models.Session{})
			}
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// User returns the authenticated user's record.
// GET /api/user
func User(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not logged in",
		})
	}
	return c.JSON(user)
}

// ValidateToken reports whether the caller holds a live session.
// GET /api/validate-token
func ValidateToken(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"valid": false,
		})
	}
	return c.JSON(fiber.Map{
		"valid": true,
		"user":  user,
	})
}
