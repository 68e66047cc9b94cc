package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/shutterdesk/shutterdesk-api/internal/middleware"
)

const jwtTestSecret = "jwt-test-secret"

type boundIdentity struct {
	UserID   uint
	Username string
	Email    string
	Roles    []string
}

func newJWTApp(captured *boundIdentity) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		if id, ok := c.Locals(middleware.LocalsUserID).(uint); ok {
			captured.UserID = id
		}
		if username, ok := c.Locals(middleware.LocalsUsername).(string); ok {
			captured.Username = username
		}
		if email, ok := c.Locals(middleware.LocalsEmail).(string); ok {
			captured.Email = email
		}
		captured.Roles = middleware.RolesFromLocals(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTProtectedBindsIdentity(t *testing.T) {
	var captured boundIdentity
	app := newJWTApp(&captured)

	token := signToken(t, jwtTestSecret, jwt.MapClaims{
		"sub":      float64(7),
		"username": "lena",
		"email":    "lena@example.com",
		"roles":    []string{"Photographer", "admin"},
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), captured.UserID)
	require.Equal(t, "lena", captured.Username)
	require.Equal(t, "lena@example.com", captured.Email)
	require.Equal(t, []string{"photographer", "admin"}, captured.Roles)
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	var captured boundIdentity
	app := newJWTApp(&captured)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsWrongSignature(t *testing.T) {
	var captured boundIdentity
	app := newJWTApp(&captured)

	token := signToken(t, "another-secret", jwt.MapClaims{
		"sub": float64(7),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsExpiredToken(t *testing.T) {
	var captured boundIdentity
	app := newJWTApp(&captured)

	token := signToken(t, jwtTestSecret, jwt.MapClaims{
		"sub": float64(7),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsTokenWithoutSubject(t *testing.T) {
	var captured boundIdentity
	app := newJWTApp(&captured)

	token := signToken(t, jwtTestSecret, jwt.MapClaims{
		"username": "ghost",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
