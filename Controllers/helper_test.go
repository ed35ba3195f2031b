package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"Glacier/FiberConfig"
	"Glacier/Models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp wires an isolated in-memory database and a fresh app for a test.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	Models.DB = db

	app := fiber.New()
	FiberConfig.SetupRoutes(app, db)
	return app
}

// seedUser inserts a user directly, bypassing the registration endpoint.
func seedUser(t *testing.T, username, password, role string, approved bool) Models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := Models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        username + "@example.com",
		FullName:     username,
		Role:         role,
		IsApproved:   approved,
	}
	if err := Models.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

// doJSON performs a request against the app with an optional auth cookie.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, cookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "jwt", Value: cookie})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// decodeBody parses a JSON response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	defer resp.Body.Close()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// decodeInto parses a JSON response body into the given value.
func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// login authenticates and returns the jwt cookie value.
func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login as %s failed with status %d", username, resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "jwt" {
			return c.Value
		}
	}
	t.Fatal("login response did not set jwt cookie")
	return ""
}
