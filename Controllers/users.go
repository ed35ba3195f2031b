package Controllers

import (
	"Glacier/Models"
	"Glacier/email"
	"Glacier/middleware"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an unapproved staff account pending admin sign-off.
// POST /api/register
func Register(c *fiber.Ctx) error {
	var req Models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	if fields := ValidateStruct(req); fields != nil {
		return ValidationFailed(c, fields)
	}

	user, err := createUser(req, Models.RoleStaff, false)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created. An administrator must approve it before you can log in.",
		"user":    user,
	})
}

// CreateStaffUser lets an admin create a pre-approved staff account.
// POST /api/users
func CreateStaffUser(c *fiber.Ctx) error {
	var req Models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	if fields := ValidateStruct(req); fields != nil {
		return ValidationFailed(c, fields)
	}

	user, err := createUser(req, Models.RoleStaff, true)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// createUser is shared by self-registration and admin staff creation.
// The returned error is already a rendered fiber response.
func createUser(req Models.RegisterRequest, role string, approved bool) (*Models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := Models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		FullName:     req.FullName,
		Role:         role,
		IsApproved:   approved,
	}

	if err := Models.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "Duplicate entry") {
			return nil, fiber.NewError(fiber.StatusConflict, "A user with this username already exists")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
	}

	return &user, nil
}

// FetchUsers lists all users.
// GET /api/users
func FetchUsers(c *fiber.Ctx) error {
	var users []Models.User
	if err := Models.DB.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve users",
		})
	}
	return c.JSON(users)
}

// GetPendingUsers lists accounts awaiting approval, in insertion order.
// GET /api/users/pending
func GetPendingUsers(c *fiber.Ctx) error {
	var users []Models.User
	if err := Models.DB.Where("is_approved = ? AND role <> ?", false, Models.RoleAdmin).
		Order("id ASC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve pending users",
		})
	}
	return c.JSON(users)
}

// ApproveUser marks a pending account as approved. Idempotent: approving an
// already-approved user succeeds without change.
// PATCH /api/users/:id/approve
func ApproveUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user Models.User
	if err := Models.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if !user.IsApproved {
		user.IsApproved = true
		if err := Models.DB.Save(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to approve user",
			})
		}
		notifyApproval(user)
	}

	return c.JSON(fiber.Map{
		"message": "User approved",
		"user":    user,
	})
}

// RejectUser removes a pending account permanently, along with any sessions.
// A rejected user's next login attempt fails as plain invalid credentials.
// DELETE /api/users/:id
func RejectUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user Models.User
	if err := Models.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	admin, _ := middleware.CurrentUser(c)
	if user.ID == admin.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot delete your own account",
		})
	}

	Models.DB.Where("user_id = ?", user.ID).Delete(&Models.Session{})
	if err := Models.DB.Unscoped().Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{
		"message": "User removed successfully",
	})
}

// notifyApproval emails the user that their account is ready. Best-effort:
// a missing SMTP config or send failure is logged, never surfaced.
func notifyApproval(user Models.User) {
	if user.Email == "" {
		return
	}

	profile, err := Models.LoadCompanyProfile(Models.DB)
	if err != nil {
		log.Printf("Could not load company profile for approval email: %v", err)
		return
	}
	config, ok := Models.EmailConfigFromSettings(profile.SMTP)
	if !ok {
		return
	}

	message := Models.EmailMessage{
		To:      []string{user.Email},
		Subject: "Your account has been approved",
		Body: fmt.Sprintf("Hi %s,\n\nYour %s account has been approved. You can now log in.\n",
			user.FullName, profile.CompanyName),
	}

	go func() {
		if err := email.SendEmail(config, message); err != nil {
			log.Printf("Failed to send approval email to %s: %v", user.Email, err)
		}
	}()
}
