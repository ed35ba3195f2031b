package Controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"Glacier/Models"
	"Glacier/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CreateInvoice creates a new invoice with its line items. Totals are always
// computed server-side from the submitted items; any client-supplied amounts
// are ignored. The invoice and its items are written in a single
// transaction: either everything lands or nothing does.
// POST /api/invoices
func CreateInvoice(c *fiber.Ctx) error {
	var req Models.InvoiceRequest
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

	var customer Models.Customer
	if err := Models.DB.First(&customer, req.CustomerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Customer not found",
				"message": "The specified customer does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	issueDate, dueDate, ok := parseInvoiceDates(c, req.IssueDate, req.DueDate)
	if !ok {
		return nil
	}

	items, ok := buildInvoiceItems(c, req.Items)
	if !ok {
		return nil
	}
	subtotal, tax, total := Models.ComputeTotals(items)

	status := req.Status
	if status == "" {
		status = Models.InvoiceStatusDraft
	}
	if !Models.ValidInvoiceStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice status",
		})
	}

	invoiceNumber := strings.TrimSpace(req.InvoiceNumber)
	if invoiceNumber == "" {
		invoiceNumber = "INV-" + strings.ToUpper(uuid.NewString()[:8])
	}

	user, _ := middleware.CurrentUser(c)

	invoice := &Models.Invoice{
		InvoiceNumber: invoiceNumber,
		JobID:         req.JobID,
		CustomerID:    req.CustomerID,
		Amount:        subtotal,
		Tax:           tax,
		Total:         total,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Notes:         req.Notes,
		PaymentTerms:  req.PaymentTerms,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		CreatedBy:     user.ID,
	}

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Transaction error",
			"message": tx.Error.Error(),
		})
	}

	if err := tx.Create(invoice).Error; err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "Duplicate entry") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "An invoice with this number already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to create invoice",
			"message": err.Error(),
		})
	}

	for i := range items {
		items[i].InvoiceID = invoice.ID
		if err := tx.Create(&items[i]).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create invoice items",
				"message": err.Error(),
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to commit transaction",
			"message": err.Error(),
		})
	}

	Models.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_order ASC")
	}).First(invoice, invoice.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Invoice created successfully",
		"data":    invoice,
	})
}

// GetInvoice retrieves an invoice by ID
// GET /api/invoices/:id
func GetInvoice(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid ID",
			"message": "ID must be a valid number",
		})
	}

	var invoice Models.Invoice
	err = Models.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_order ASC")
	}).First(&invoice, uint(id)).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Invoice not found",
				"message": "The specified invoice does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Invoice retrieved successfully",
		"data":    invoice,
	})
}

// GetAllInvoices lists invoices with pagination and optional filters.
// GET /api/invoices?page=1&limit=10&status=pending&customer_id=3&job_id=7
func GetAllInvoices(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := Models.DB.Model(&Models.Invoice{})
	if status := c.Query("status"); status != "" {
		if !Models.ValidInvoiceStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid invoice status",
			})
		}
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if jobID := c.Query("job_id"); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var total int64
	query.Count(&total)

	var invoices []Models.Invoice
	err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_order ASC")
	}).Order("issue_date DESC").Offset(offset).Limit(limit).Find(&invoices).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Invoices retrieved successfully",
		"data":    invoices,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// UpdateInvoice replaces an invoice's fields and line items. The item set is
// replaced wholesale (delete then insert) and totals recomputed, all inside
// one transaction so concurrent readers never observe a half-written set.
// PUT /api/invoices/:id
func UpdateInvoice(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid ID",
			"message": "ID must be a valid number",
		})
	}

	var req Models.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	var invoice Models.Invoice
	if err := Models.DB.First(&invoice, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Invoice not found",
				"message": "The specified invoice does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	issueDate, dueDate, ok := parseInvoiceDates(c, req.IssueDate, req.DueDate)
	if !ok {
		return nil
	}

	items, ok := buildInvoiceItems(c, req.Items)
	if !ok {
		return nil
	}
	subtotal, tax, total := Models.ComputeTotals(items)

	if req.Status != "" {
		if !Models.ValidInvoiceStatus(req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid invoice status",
			})
		}
		invoice.Status = req.Status
	}

	invoice.JobID = req.JobID
	invoice.CustomerID = req.CustomerID
	invoice.Amount = subtotal
	invoice.Tax = tax
	invoice.Total = total
	invoice.IssueDate = issueDate
	invoice.DueDate = dueDate
	invoice.Notes = req.Notes
	invoice.PaymentTerms = req.PaymentTerms
	invoice.PaymentMethod = req.PaymentMethod

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Transaction error",
			"message": tx.Error.Error(),
		})
	}

	if err := tx.Save(&invoice).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to update invoice",
			"message": err.Error(),
		})
	}

	// Delete existing line items then insert the replacement set
	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&Models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to delete existing invoice items",
			"message": err.Error(),
		})
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
		if err := tx.Create(&items[i]).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create invoice items",
				"message": err.Error(),
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to commit transaction",
			"message": err.Error(),
		})
	}

	Models.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_order ASC")
	}).First(&invoice, invoice.ID)

	return c.JSON(fiber.Map{
		"message": "Invoice updated successfully",
		"data":    invoice,
	})
}

// DeleteInvoice deletes an invoice and its line items.
// DELETE /api/invoices/:id
func DeleteInvoice(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid ID",
			"message": "ID must be a valid number",
		})
	}

	var invoice Models.Invoice
	if err := Models.DB.First(&invoice, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Invoice not found",
				"message": "The specified invoice does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	Models.DB.Where("invoice_id = ?", invoice.ID).Delete(&Models.InvoiceItem{})
	if err := Models.DB.Delete(&invoice).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to delete invoice",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Invoice deleted successfully",
	})
}

// ExportInvoices writes the invoice ledger as an Excel workbook.
// GET /api/invoices/export
func ExportInvoices(c *fiber.Ctx) error {
	var invoices []Models.Invoice
	if err := Models.DB.Order("issue_date ASC").Find(&invoices).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Invoices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Invoice Number", "Job ID", "Customer ID", "Issue Date", "Due Date", "Status", "Subtotal", "Tax", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, invoice := range invoices {
		values := []interface{}{
			invoice.InvoiceNumber,
			invoice.JobID,
			invoice.CustomerID,
			invoice.IssueDate.Format("2006-01-02"),
			invoice.DueDate.Format("2006-01-02"),
			invoice.Status,
			invoice.Amount,
			invoice.Tax,
			invoice.Total,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to generate export",
			"message": err.Error(),
		})
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// parseInvoiceDates validates the issue and due dates of a request. On
// failure the 400 response has already been written and ok is false.
func parseInvoiceDates(c *fiber.Ctx, issue, due string) (issueDate, dueDate time.Time, ok bool) {
	issueDate, err := time.Parse("2006-01-02", issue)
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid date format",
			"message": "issue_date must be in YYYY-MM-DD format",
		})
		return time.Time{}, time.Time{}, false
	}
	dueDate, err = time.Parse("2006-01-02", due)
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid date format",
			"message": "due_date must be in YYYY-MM-DD format",
		})
		return time.Time{}, time.Time{}, false
	}
	return issueDate, dueDate, true
}

// buildInvoiceItems normalizes submitted line items and drops blank rows.
// At least one item with a description must survive. On failure the 400
// response has already been written and ok is false.
func buildInvoiceItems(c *fiber.Ctx, reqItems []Models.InvoiceItemRequest) ([]Models.InvoiceItem, bool) {
	normalized := Models.NormalizeItems(reqItems)

	items := make([]Models.InvoiceItem, 0, len(normalized))
	for _, item := range normalized {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		item.ItemOrder = len(items) + 1
		items = append(items, item)
	}

	if len(items) == 0 {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "At least one line item with a description is required",
			"fields": []FieldError{
				{Field: "items", Message: "at least one line item with a non-empty description is required"},
			},
		})
		return nil, false
	}
	return items, true
}
