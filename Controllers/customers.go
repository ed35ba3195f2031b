package Controllers

import (
	"strconv"
	"strings"

	"Glacier/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CustomerController handles customer-related API endpoints
type CustomerController struct {
	DB *gorm.DB
}

// NewCustomerController creates a new CustomerController
func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetCustomers retrieves all customers
func (c *CustomerController) GetCustomers(ctx *fiber.Ctx) error {
	var customers []Models.Customer
	if err := c.DB.Find(&customers).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customers"})
	}
	return ctx.JSON(customers)
}

// GetCustomer retrieves a single customer by ID
func (c *CustomerController) GetCustomer(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var customer Models.Customer
	if err := c.DB.First(&customer, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}
	return ctx.JSON(customer)
}

// CreateCustomer creates a new customer
func (c *CustomerController) CreateCustomer(ctx *fiber.Ctx) error {
	var req Models.CustomerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := ValidateStruct(req); fields != nil {
		return ValidationFailed(ctx, fields)
	}

	customer := Models.Customer{
		Name:    req.Name,
		Email:   strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := c.DB.Create(&customer).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create customer",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(customer)
}

// UpdateCustomer applies a partial update to an existing customer
func (c *CustomerController) UpdateCustomer(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var customer Models.Customer
	if err := c.DB.First(&customer, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	var input map[string]interface{}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"name", "email", "phone", "address", "notes"} {
		if value, ok := input[field]; ok {
			updates[field] = value
		}
	}

	if len(updates) > 0 {
		if err := c.DB.Model(&customer).Updates(updates).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update customer",
			})
		}
	}

	return ctx.JSON(customer)
}

// DeleteCustomer soft deletes a customer. Jobs and invoices keep their
// customer_id as a soft reference; nothing cascades.
func (c *CustomerController) DeleteCustomer(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var customer Models.Customer
	if err := c.DB.First(&customer, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	c.DB.Delete(&customer)

	return ctx.JSON(fiber.Map{"message": "Customer deleted successfully"})
}
