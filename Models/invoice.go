package Models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// TaxRate is the VAT surcharge applied to every invoice subtotal.
const TaxRate = 0.20

const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// ValidInvoiceStatus reports whether s is one of the invoice status values.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

type Invoice struct {
	gorm.Model
	InvoiceNumber string    `json:"invoice_number" gorm:"size:50;uniqueIndex;not null"`
	JobID         uint      `json:"job_id" gorm:"index;not null"`
	CustomerID    uint      `json:"customer_id" gorm:"index;not null"`
	Amount        float64   `json:"amount" gorm:"not null"` // subtotal before tax
	Tax           float64   `json:"tax" gorm:"not null"`
	Total         float64   `json:"total" gorm:"not null"`
	IssueDate     time.Time `json:"issue_date" gorm:"not null"`
	DueDate       time.Time `json:"due_date" gorm:"not null"`
	Notes         string    `json:"notes" gorm:"type:text"`
	PaymentTerms  string    `json:"payment_terms" gorm:"size:100"`
	PaymentMethod string    `json:"payment_method" gorm:"size:100"`
	Status        string    `json:"status" gorm:"size:20;not null;default:draft"`
	CreatedBy     uint      `json:"created_by"`

	Items []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

type InvoiceItem struct {
	gorm.Model
	InvoiceID   uint    `json:"invoice_id" gorm:"index;not null"`
	Description string  `json:"description" gorm:"size:500"`
	Quantity    int     `json:"quantity" gorm:"not null;default:1"`
	UnitPrice   float64 `json:"unit_price" gorm:"not null;default:0"`
	Total       float64 `json:"total" gorm:"not null"`
	ItemOrder   int     `json:"item_order" gorm:"not null;default:0"`
}

type InvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number"`
	JobID         uint                 `json:"job_id" validate:"required"`
	CustomerID    uint                 `json:"customer_id" validate:"required"`
	IssueDate     string               `json:"issue_date" validate:"required"`
	DueDate       string               `json:"due_date" validate:"required"`
	Notes         string               `json:"notes"`
	PaymentTerms  string               `json:"payment_terms"`
	PaymentMethod string               `json:"payment_method"`
	Status        string               `json:"status"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1"`
}

type InvoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// NormalizeItems applies the forgiving-input policy to raw line items:
// quantities below 1 are coerced to 1, unit prices that are negative or
// not finite are coerced to 0, and item totals and display order are
// recomputed. An empty list yields exactly one blank placeholder row so an
// invoice under edit never shows zero lines.
func NormalizeItems(items []InvoiceItemRequest) []InvoiceItem {
	if len(items) == 0 {
		items = []InvoiceItemRequest{{}}
	}

	normalized := make([]InvoiceItem, 0, len(items))
	for i, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		price := item.UnitPrice
		if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			price = 0
		}
		normalized = append(normalized, InvoiceItem{
			Description: item.Description,
			Quantity:    qty,
			UnitPrice:   price,
			Total:       float64(qty) * price,
			ItemOrder:   i + 1,
		})
	}
	return normalized
}

// ComputeTotals aggregates normalized line items into the invoice amounts.
func ComputeTotals(items []InvoiceItem) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}
	tax = subtotal * TaxRate
	total = subtotal + tax
	return subtotal, tax, total
}
