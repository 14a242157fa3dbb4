package handlers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/elementdb/internal/handlers"
	"github.com/localnerve/elementdb/internal/middleware"
)

// setupVersionApp wires the version middleware and global error handler the
// way cmd/server does
func setupVersionApp(serviceVersion string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(middleware.Version(serviceVersion))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestVersionHeaderStamped(t *testing.T) {
	app := setupVersionApp("1.2.0")

	req := httptest.NewRequest("GET", "/ping", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to test request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Api-Version"); got != "1.2.0" {
		t.Errorf("Expected X-Api-Version 1.2.0, got %q", got)
	}
}

func TestVersionShortFormAccepted(t *testing.T) {
	app := setupVersionApp("1.2.0")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Api-Version", "1.2")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to test request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200 for short-form version, got %d", resp.StatusCode)
	}
}

func TestVersionMajorMismatchRejected(t *testing.T) {
	app := setupVersionApp("1.2.0")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Api-Version", "9.0")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to test request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for major version mismatch, got %d", resp.StatusCode)
	}

	body := decodeJSON(t, resp.Body)
	if body["type"] != "version" {
		t.Errorf("Expected error type version, got %v", body["type"])
	}
	if body["ok"] != false {
		t.Errorf("Expected ok false, got %v", body["ok"])
	}
	detail, _ := body["detail"].(string)
	if detail == "" {
		t.Errorf("Expected detail in error envelope, got: %v", body)
	}
	if body["status"] != float64(400) {
		t.Errorf("Expected status 400 in envelope, got %v", body["status"])
	}
}

func TestErrorHandlerPlainError(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to test request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusTeapot {
		t.Errorf("Expected fiber error code to pass through, got %d", resp.StatusCode)
	}

	body := decodeJSON(t, resp.Body)
	if body["detail"] != "short and stout" {
		t.Errorf("Expected fiber error message as detail, got %v", body["detail"])
	}
	if body["type"] != "unknown" {
		t.Errorf("Expected error type unknown for plain errors, got %v", body["type"])
	}
}
