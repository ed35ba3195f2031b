package Controllers_test

import (
	"fmt"
	"testing"

	"Glacier/Models"

	"github.com/gofiber/fiber/v2"
)

func TestApproveIsIdempotent(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "boss", "admin-password", "admin", true)
	pending := seedUser(t, "carol", "secret123", "staff", false)
	cookie := login(t, app, "boss", "admin-password")

	path := fmt.Sprintf("/api/users/%d/approve", pending.ID)
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, "PATCH", path, nil, cookie)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("approve call %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	var user Models.User
	if err := Models.DB.First(&user, pending.ID).Error; err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if !user.IsApproved {
		t.Error("user should remain approved after double approve")
	}
}

func TestRejectRemovesUserPermanently(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "boss", "admin-password", "admin", true)
	pending := seedUser(t, "dave", "secret123", "staff", false)
	cookie := login(t, app, "boss", "admin-password")

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/users/%d", pending.ID), nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reject: expected 200, got %d", resp.StatusCode)
	}

	// Subsequent login fails as plain invalid credentials, not pending approval
	resp = doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "dave", "password": "secret123",
	}, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if _, hasCode := body["code"]; hasCode {
		t.Error("rejected user login must not report pending approval")
	}

	// Acting on the removed id again is a 404
	resp = doJSON(t, app, "PATCH", fmt.Sprintf("/api/users/%d/approve", pending.ID), nil, cookie)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("approve after reject: expected 404, got %d", resp.StatusCode)
	}
}

func TestPendingUsersInsertionOrder(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "boss", "admin-password", "admin", true)
	seedUser(t, "first", "secret123", "staff", false)
	seedUser(t, "second", "secret123", "staff", false)
	seedUser(t, "approved", "secret123", "staff", true)
	cookie := login(t, app, "boss", "admin-password")

	resp := doJSON(t, app, "GET", "/api/users/pending", nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var users []Models.User
	decodeInto(t, resp, &users)
	if len(users) != 2 {
		t.Fatalf("expected 2 pending users, got %d", len(users))
	}
	if users[0].Username != "first" || users[1].Username != "second" {
		t.Errorf("pending list out of insertion order: %s, %s", users[0].Username, users[1].Username)
	}
}

func TestApprovalEndpointsRequireAdmin(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "worker", "secret123", "staff", true)
	pending := seedUser(t, "erin", "secret123", "staff", false)
	cookie := login(t, app, "worker", "secret123")

	resp := doJSON(t, app, "GET", "/api/users/pending", nil, cookie)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("pending list as staff: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "PATCH", fmt.Sprintf("/api/users/%d/approve", pending.ID), nil, cookie)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("approve as staff: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/users/%d", pending.ID), nil, cookie)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("reject as staff: expected 403, got %d", resp.StatusCode)
	}
}

func TestAdminCreatedStaffIsPreApproved(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "boss", "admin-password", "admin", true)
	cookie := login(t, app, "boss", "admin-password")

	resp := doJSON(t, app, "POST", "/api/users", map[string]string{
		"username":  "frank",
		"password":  "secret123",
		"email":     "frank@example.com",
		"full_name": "Frank Field",
	}, cookie)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// No approval step needed
	resp = doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "frank", "password": "secret123",
	}, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin-created staff login: expected 200, got %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "taken", "secret123", "staff", true)

	resp := doJSON(t, app, "POST", "/api/register", map[string]string{
		"username":  "taken",
		"password":  "secret123",
		"email":     "other@example.com",
		"full_name": "Other Person",
	}, "")
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/register", map[string]string{
		"username":  "x",
		"password":  "short",
		"email":     "not-an-email",
		"full_name": "",
	}, "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	fields, ok := body["fields"].([]interface{})
	if !ok || len(fields) == 0 {
		t.Errorf("expected field-level validation detail, got %v", body)
	}
}
