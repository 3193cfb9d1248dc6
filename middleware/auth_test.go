package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newSessionApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	InitAuth()

	app := fiber.New()
	secured := app.Group("/", RequireAuth())
	secured.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  c.Locals("user_id"),
			"is_admin": c.Locals("is_admin"),
		})
	})
	admin := secured.Group("/admin", RequireAdmin())
	admin.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	return app
}

func TestSessionTokenRoundTrip(t *testing.T) {
	app := newSessionApp(t)

	token, err := GenerateToken("user-123", false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "user-123") {
		t.Errorf("Expected session user id in response, got %s", body)
	}
}

func TestSessionRejectsBadTokens(t *testing.T) {
	app := newSessionApp(t)

	tests := []struct {
		name   string
		header string
	}{
		{"Missing Header", ""},
		{"No Bearer Prefix", "just-a-token"},
		{"Garbage Token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if resp.StatusCode != 401 {
				t.Errorf("Expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestAdminGateHonorsTokenCapability(t *testing.T) {
	app := newSessionApp(t)

	playerToken, _ := GenerateToken("player-1", false)
	adminToken, _ := GenerateToken("admin-1", true)

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+playerToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected 403 for non-admin, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected 200 for admin, got %d", resp.StatusCode)
	}
}
