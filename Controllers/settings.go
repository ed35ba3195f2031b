package Controllers

import (
	"Glacier/Models"

	"github.com/gofiber/fiber/v2"
)

// GetCompanyProfile returns the stored company profile, or the compiled-in
// default when none has been saved yet.
// GET /api/settings/company
func GetCompanyProfile(c *fiber.Ctx) error {
	profile, err := Models.LoadCompanyProfile(Models.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to load company profile",
			"message": err.Error(),
		})
	}
	return c.JSON(profile)
}

// UpdateCompanyProfile replaces the stored company profile document.
// PUT /api/settings/company
func UpdateCompanyProfile(c *fiber.Ctx) error {
	var profile Models.CompanyProfile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	if profile.CompanyName == "" {
		return ValidationFailed(c, []FieldError{
			{Field: "company_name", Message: "company_name is required"},
		})
	}

	if err := Models.SaveCompanyProfile(Models.DB, profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to save company profile",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Company profile updated successfully",
		"data":    profile,
	})
}
