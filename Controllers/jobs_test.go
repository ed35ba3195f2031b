package Controllers_test

import (
	"fmt"
	"testing"

	"Glacier/Models"

	"github.com/gofiber/fiber/v2"
)

func TestCreateJobGeneratesCode(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	customer := seedCustomer(t, "Havnelager")
	cookie := login(t, app, "worker", "secret123")

	resp := doJSON(t, app, "POST", "/api/jobs", map[string]interface{}{
		"customer_id": customer.ID,
		"title":       "Quay crane cleaning",
		"start_date":  "2026-04-01",
	}, cookie)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	code, _ := body["job_code"].(string)
	if len(code) < 5 || code[:4] != "JOB-" {
		t.Errorf("generated job code %q does not carry the JOB- prefix", code)
	}
	if body["status"] != Models.JobStatusScheduled {
		t.Errorf("new job status = %v, want scheduled", body["status"])
	}
}

func TestCreateJobDuplicateCode(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	customer := seedCustomer(t, "Tankrens")
	seedJob(t, customer.ID, "JOB-DUP")
	cookie := login(t, app, "worker", "secret123")

	resp := doJSON(t, app, "POST", "/api/jobs", map[string]interface{}{
		"job_code":    "JOB-DUP",
		"customer_id": customer.ID,
		"title":       "Second booking",
		"start_date":  "2026-04-02",
	}, cookie)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCreateJobRejectsBadDates(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	customer := seedCustomer(t, "Moloveien")
	cookie := login(t, app, "worker", "secret123")

	resp := doJSON(t, app, "POST", "/api/jobs", map[string]interface{}{
		"customer_id": customer.ID,
		"title":       "Bad date",
		"start_date":  "01/04/2026",
	}, cookie)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateJobStatusTransition(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	customer := seedCustomer(t, "Slippen")
	job := seedJob(t, customer.ID, "JOB-STATUS")
	cookie := login(t, app, "worker", "secret123")

	path := fmt.Sprintf("/api/jobs/%d", job.ID)
	resp := doJSON(t, app, "PATCH", path, map[string]string{
		"status": Models.JobStatusInProgress,
	}, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if decodeBody(t, resp)["status"] != Models.JobStatusInProgress {
		t.Error("status transition not applied")
	}

	resp = doJSON(t, app, "PATCH", path, map[string]string{
		"status": "finished",
	}, cookie)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("unknown status: expected 400, got %d", resp.StatusCode)
	}
}

func TestGetJobsFiltering(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	first := seedCustomer(t, "Kundene AS")
	second := seedCustomer(t, "Andre AS")
	seedJob(t, first.ID, "JOB-A")
	seedJob(t, second.ID, "JOB-B")
	cookie := login(t, app, "worker", "secret123")

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/jobs?customer_id=%d", second.ID), nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var jobs []Models.Job
	decodeInto(t, resp, &jobs)
	if len(jobs) != 1 || jobs[0].JobCode != "JOB-B" {
		t.Errorf("customer filter returned %d jobs", len(jobs))
	}
}
