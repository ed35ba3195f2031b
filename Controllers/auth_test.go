package Controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRegisterApproveLoginFlow(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "boss", "admin-password", "admin", true)

	// Register bob
	resp := doJSON(t, app, "POST", "/api/register", map[string]string{
		"username":  "bob",
		"password":  "secret123",
		"email":     "bob@example.com",
		"full_name": "Bob Builder",
	}, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// Login fails while pending, with the approval hint code
	resp = doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "bob", "password": "secret123",
	}, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("pending user login: expected 401, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["code"] != "pending_approval" {
		t.Errorf("expected pending_approval code, got %v", body["code"])
	}

	// Admin approves
	adminCookie := login(t, app, "boss", "admin-password")
	resp = doJSON(t, app, "PATCH", "/api/users/2/approve", nil, adminCookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("approve: expected 200, got %d", resp.StatusCode)
	}

	// Login now succeeds and returns the staff role
	resp = doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "bob", "password": "secret123",
	}, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("approved user login: expected 200, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object in login response, got %v", body)
	}
	if user["role"] != "staff" {
		t.Errorf("expected role staff, got %v", user["role"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("login response must not include the password hash")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "alice", "correct-horse", "staff", true)

	resp := doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "alice", "password": "wrong",
	}, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if _, hasCode := body["code"]; hasCode {
		t.Error("wrong password must not reveal approval state")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "ghost", "password": "whatever",
	}, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "alice", "correct-horse", "staff", true)
	cookie := login(t, app, "alice", "correct-horse")

	resp := doJSON(t, app, "GET", "/api/validate-token", nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected live session, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/logout", nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	// The old token is dead even though the JWT itself has not expired
	resp = doJSON(t, app, "GET", "/api/validate-token", nil, cookie)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestProtectedRouteRequiresLogin(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "GET", "/api/customers", nil, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
