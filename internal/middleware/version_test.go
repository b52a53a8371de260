package middleware_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/openfra/fieldsync/internal/middleware"
	"github.com/openfra/fieldsync/internal/types"
)

func setupApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var customErr *types.CustomError
			if errors.As(err, &customErr) {
				return c.Status(customErr.Code).JSON(customErr)
			}
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
	})
	app.Use(middleware.VersionMiddleware())
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})
	return app
}

func TestVersionDefaultsAndAliases(t *testing.T) {
	app := setupApp()

	tests := []struct {
		header string
		want   string
	}{
		{"", "1.0.0"},
		{"1.0", "1.0.0"},
		{"1.2.3", "1.2.3"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/version", nil)
		if tt.header != "" {
			req.Header.Set("X-Api-Version", tt.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("Header %q: expected status 200, got %d", tt.header, resp.StatusCode)
		}
		buf := make([]byte, 32)
		n, _ := resp.Body.Read(buf)
		if got := string(buf[:n]); got != tt.want {
			t.Errorf("Header %q: expected version %s, got %s", tt.header, tt.want, got)
		}
	}
}

func TestVersionUnsupportedMajorRejected(t *testing.T) {
	app := setupApp()

	req := httptest.NewRequest("GET", "/version", nil)
	req.Header.Set("X-Api-Version", "2.0.0")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}
