package Controllers

import (
	"bytes"
	"encoding/base64"
	"image/jpeg"
	"log"
	"strconv"
	"time"

	"Glacier/Models"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// thumbnailSize bounds the longest edge of generated photo thumbnails.
const thumbnailSize = 320

// CreateInspection creates a vehicle inspection with its photos.
// POST /api/inspections
func CreateInspection(c *fiber.Ctx) error {
	var req Models.InspectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	if fields := ValidateStruct(req); fields != nil {
		return ValidationFailed(c, fields)
	}

	var job Models.Job
	if err := Models.DB.First(&job, req.JobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Job not found",
				"message": "The specified job does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	inspectionDate := time.Now()
	if req.InspectionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.InspectionDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid date format",
				"message": "inspection_date must be in YYYY-MM-DD format",
			})
		}
		inspectionDate = parsed
	}

	inspection := &Models.VehicleInspection{
		JobID:              req.JobID,
		CustomerID:         req.CustomerID,
		VehicleMake:        req.VehicleMake,
		VehicleModel:       req.VehicleModel,
		RegistrationNumber: req.RegistrationNumber,
		Mileage:            req.Mileage,
		FuelLevel:          Models.ClampFuelLevel(req.FuelLevel),
		DamageDescription:  req.DamageDescription,
		CustomerName:       req.CustomerName,
		CustomerSignature:  req.CustomerSignature,
		InspectedBy:        req.InspectedBy,
		InspectionDate:     inspectionDate,
	}

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Transaction error",
			"message": tx.Error.Error(),
		})
	}

	if err := tx.Create(inspection).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to create inspection",
			"message": err.Error(),
		})
	}

	if err := createInspectionPhotos(tx, inspection.ID, req.Photos); err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to save inspection photos",
			"message": err.Error(),
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to commit transaction",
			"message": err.Error(),
		})
	}

	Models.DB.Preload("Photos").First(inspection, inspection.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Inspection created successfully",
		"data":    inspection,
	})
}

// GetInspection retrieves an inspection by ID with its photos.
// GET /api/inspections/:id
func GetInspection(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid ID",
			"message": "ID must be a valid number",
		})
	}

	var inspection Models.VehicleInspection
	if err := Models.DB.Preload("Photos").First(&inspection, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Inspection not found",
				"message": "The specified inspection does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Inspection retrieved successfully",
		"data":    inspection,
	})
}

// GetAllInspections lists inspections, optionally filtered by job.
// GET /api/inspections?job_id=5
func GetAllInspections(c *fiber.Ctx) error {
	query := Models.DB.Preload("Photos").Order("inspection_date DESC")
	if jobID := c.Query("job_id"); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var inspections []Models.VehicleInspection
	if err := query.Find(&inspections).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Inspections retrieved successfully",
		"data":    inspections,
		"count":   len(inspections),
	})
}

// UpdateInspection replaces an inspection's fields and photo set.
// PUT /api/inspections/:id
func UpdateInspection(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid ID",
			"message": "ID must be a valid number",
		})
	}

	var req Models.InspectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	var inspection Models.VehicleInspection
	if err := Models.DB.First(&inspection, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Inspection not found",
				"message": "The specified inspection does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	if req.InspectionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.InspectionDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid date format",
				"message": "inspection_date must be in YYYY-MM-DD format",
			})
		}
		inspection.InspectionDate = parsed
	}

	inspection.CustomerID = req.CustomerID
	inspection.VehicleMake = req.VehicleMake
	inspection.VehicleModel = req.VehicleModel
	inspection.RegistrationNumber = req.RegistrationNumber
	inspection.Mileage = req.Mileage
	inspection.FuelLevel = Models.ClampFuelLevel(req.FuelLevel)
	inspection.DamageDescription = req.DamageDescription
	inspection.CustomerName = req.CustomerName
	inspection.CustomerSignature = req.CustomerSignature
	inspection.InspectedBy = req.InspectedBy

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Transaction error",
			"message": tx.Error.Error(),
		})
	}

	if err := tx.Save(&inspection).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to update inspection",
			"message": err.Error(),
		})
	}

	// Replace the photo set wholesale
	if err := tx.Where("inspection_id = ?", inspection.ID).Delete(&Models.InspectionPhoto{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to delete existing photos",
			"message": err.Error(),
		})
	}
	if err := createInspectionPhotos(tx, inspection.ID, req.Photos); err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to save inspection photos",
			"message": err.Error(),
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to commit transaction",
			"message": err.Error(),
		})
	}

	Models.DB.Preload("Photos").First(&inspection, inspection.ID)

	return c.JSON(fiber.Map{
		"message": "Inspection updated successfully",
		"data":    inspection,
	})
}

// DeleteInspection deletes an inspection and its photos.
// DELETE /api/inspections/:id
func DeleteInspection(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid ID",
			"message": "ID must be a valid number",
		})
	}

	var inspection Models.VehicleInspection
	if err := Models.DB.First(&inspection, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Inspection not found",
				"message": "The specified inspection does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	Models.DB.Where("inspection_id = ?", inspection.ID).Delete(&Models.InspectionPhoto{})
	if err := Models.DB.Delete(&inspection).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to delete inspection",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Inspection deleted successfully",
	})
}

func createInspectionPhotos(tx *gorm.DB, inspectionID uint, photos []Models.PhotoUploadRequest) error {
	for _, upload := range photos {
		if upload.Data == "" {
			continue
		}
		photo := Models.InspectionPhoto{
			InspectionID: inspectionID,
			Filename:     upload.Filename,
			ContentType:  upload.ContentType,
			Data:         upload.Data,
			Thumbnail:    makeThumbnail(upload.Data),
		}
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
	}
	return nil
}

// makeThumbnail downscales a base64-encoded photo to a JPEG thumbnail.
// Returns an empty string when the payload is not a decodable image.
func makeThumbnail(encoded string) string {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Printf("Skipping thumbnail, invalid base64 photo data: %v", err)
		return ""
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Printf("Skipping thumbnail, could not decode image: %v", err)
		return ""
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		log.Printf("Skipping thumbnail, JPEG encode failed: %v", err)
		return ""
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
