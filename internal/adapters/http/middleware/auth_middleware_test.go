package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-visitpass/internal/adapters/http/middleware"
	"campus-visitpass/internal/config"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", SessionDays: 7, Issuer: "campus-visitpass"},
	}
}

func testApp(cfg *config.Config, perm domain.Permission) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		middleware.AuthMiddleware(cfg),
		middleware.RequirePermission(perm),
		func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
	return app
}

func sessionToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := jwt.GenerateSessionToken(1, "user@iith.ac.in", "User", role, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionDays)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	return token
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	app := testApp(testConfig(), domain.PermReviewRequests)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareAcceptsCookie(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg, domain.PermReviewRequests)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: sessionToken(t, cfg, "admin")})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthMiddlewareAcceptsBearerFallback(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg, domain.PermReviewRequests)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, cfg, "admin"))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequirePermissionForbidsWrongRole(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg, domain.PermReviewRequests)

	// Authenticated student, but review needs an admin
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: sessionToken(t, cfg, "student")})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsTamperedToken(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg, domain.PermReviewRequests)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: sessionToken(t, cfg, "admin") + "x"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
