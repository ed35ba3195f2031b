package Controllers

import (
	"strconv"
	"strings"
	"time"

	"Glacier/Models"
	"Glacier/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobController handles blasting job API endpoints
type JobController struct {
	DB *gorm.DB
}

// NewJobController creates a new JobController
func NewJobController(db *gorm.DB) *JobController {
	return &JobController{DB: db}
}

// GetJobs retrieves jobs, optionally filtered by status and customer.
// GET /api/jobs?status=scheduled&customer_id=3
func (c *JobController) GetJobs(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.Job{})

	if status := ctx.Query("status"); status != "" {
		if !Models.ValidJobStatus(status) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job status"})
		}
		query = query.Where("status = ?", status)
	}
	if customerID := ctx.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var jobs []Models.Job
	if err := query.Order("start_date DESC").Find(&jobs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve jobs"})
	}
	return ctx.JSON(jobs)
}

// GetJob retrieves a single job by ID
func (c *JobController) GetJob(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	var job Models.Job
	if err := c.DB.First(&job, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}
	return ctx.JSON(job)
}

// CreateJob creates a new job
func (c *JobController) CreateJob(ctx *fiber.Ctx) error {
	var req Models.JobRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := ValidateStruct(req); fields != nil {
		return ValidationFailed(ctx, fields)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid date format",
			"message": "start_date must be in YYYY-MM-DD format",
		})
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid date format",
				"message": "end_date must be in YYYY-MM-DD format",
			})
		}
		endDate = &parsed
	}

	status := req.Status
	if status == "" {
		status = Models.JobStatusScheduled
	}
	if !Models.ValidJobStatus(status) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job status"})
	}

	jobCode := strings.TrimSpace(req.JobCode)
	if jobCode == "" {
		jobCode = "JOB-" + strings.ToUpper(uuid.NewString()[:8])
	}

	user, _ := middleware.CurrentUser(ctx)

	job := Models.Job{
		JobCode:     jobCode,
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      status,
		CreatedBy:   user.ID,
	}

	if err := c.DB.Create(&job).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A job with this code already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(job)
}

// UpdateJob applies a partial update to an existing job
func (c *JobController) UpdateJob(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	var job Models.Job
	if err := c.DB.First(&job, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}

	var input map[string]interface{}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"title", "description", "location"} {
		if value, ok := input[field]; ok {
			updates[field] = value
		}
	}
	if status, ok := input["status"].(string); ok {
		if !Models.ValidJobStatus(status) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job status"})
		}
		updates["status"] = status
	}
	if value, ok := input["customer_id"]; ok {
		updates["customer_id"] = value
	}
	if startDate, ok := input["start_date"].(string); ok {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid date format",
				"message": "start_date must be in YYYY-MM-DD format",
			})
		}
		updates["start_date"] = parsed
	}
	if endDate, ok := input["end_date"].(string); ok {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid date format",
				"message": "end_date must be in YYYY-MM-DD format",
			})
		}
		updates["end_date"] = parsed
	}

	if len(updates) > 0 {
		if err := c.DB.Model(&job).Updates(updates).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update job",
			})
		}
	}

	return ctx.JSON(job)
}

// DeleteJob soft deletes a job
func (c *JobController) DeleteJob(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	var job Models.Job
	if err := c.DB.First(&job, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}

	c.DB.Delete(&job)

	return ctx.JSON(fiber.Map{"message": "Job deleted successfully"})
}
