package Controllers_test

import (
	"fmt"
	"testing"

	"Glacier/Models"

	"github.com/gofiber/fiber/v2"
)

func TestCustomerCRUD(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	cookie := login(t, app, "worker", "secret123")

	resp := doJSON(t, app, "POST", "/api/customers", map[string]string{
		"name":  "Arctic Terminals",
		"email": "Billing@Arctic.example",
		"phone": "+47 55 12 34 56",
	}, cookie)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody(t, resp)
	if created["email"] != "billing@arctic.example" {
		t.Errorf("email not lowercased: %v", created["email"])
	}
	id := uint(created["ID"].(float64))

	resp = doJSON(t, app, "PATCH", fmt.Sprintf("/api/customers/%d", id), map[string]string{
		"phone": "+47 55 00 00 00",
		"notes": "prefers morning slots",
	}, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}

	var customer Models.Customer
	if err := Models.DB.First(&customer, id).Error; err != nil {
		t.Fatalf("customer lookup failed: %v", err)
	}
	if customer.Phone != "+47 55 00 00 00" || customer.Notes != "prefers morning slots" {
		t.Errorf("partial update not applied: %+v", customer)
	}
	if customer.Name != "Arctic Terminals" {
		t.Errorf("untouched field changed: %q", customer.Name)
	}

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/customers/%d", id), nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/customers/%d", id), nil, cookie)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestCustomerValidation(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	cookie := login(t, app, "worker", "secret123")

	resp := doJSON(t, app, "POST", "/api/customers", map[string]string{
		"email": "nobody@example.com",
	}, cookie)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/customers", map[string]string{
		"name":  "Valid Name",
		"email": "not-an-email",
	}, cookie)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad email: expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteCustomerLeavesJobsAndInvoices(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	customer := seedCustomer(t, "Vintervik")
	job := seedJob(t, customer.ID, "JOB-ORPHAN")
	cookie := login(t, app, "worker", "secret123")

	body := invoiceBody(job.ID, customer.ID, []map[string]interface{}{
		{"description": "Blasting", "quantity": 1, "unit_price": 150.0},
	})
	resp := doJSON(t, app, "POST", "/api/invoices", body, cookie)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("invoice create: expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/customers/%d", customer.ID), nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("customer delete: expected 200, got %d", resp.StatusCode)
	}

	// History survives the customer
	var jobCount, invoiceCount int64
	Models.DB.Model(&Models.Job{}).Where("customer_id = ?", customer.ID).Count(&jobCount)
	Models.DB.Model(&Models.Invoice{}).Where("customer_id = ?", customer.ID).Count(&invoiceCount)
	if jobCount != 1 || invoiceCount != 1 {
		t.Errorf("expected jobs and invoices untouched, got jobs=%d invoices=%d", jobCount, invoiceCount)
	}
}
