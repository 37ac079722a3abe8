package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"twoknow/config"
	"twoknow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: 7,
		Email:  "otieno@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newProtectedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"id": id, "email": c.Locals(LocalEmail)})
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := newProtectedApp()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"no bearer prefix", signToken(t, "test-secret", time.Now().Add(time.Hour)), fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", time.Now().Add(time.Hour)), fiber.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, "test-secret", time.Now().Add(-time.Hour)), fiber.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, "test-secret", time.Now().Add(time.Hour)), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestJWTMiddlewareSetsLocals(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := newProtectedApp()

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", time.Now().Add(time.Hour)))
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "otieno@example.com", body["email"])
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	req := httptest.NewRequest("GET", "/boom", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "short and stout", body["detail"])
}
