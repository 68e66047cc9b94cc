package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/shutterdesk/shutterdesk-api/internal/middleware"
)

// authContext simulates an authenticated request by binding the locals the JWT
// middleware would set.
func authContext(userID uint, username string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsUserID, userID)
		c.Locals(middleware.LocalsUsername, username)
		c.Locals(middleware.LocalsEmail, username+"@example.com")
		c.Locals(middleware.LocalsUserRoles, roles)
		return c.Next()
	}
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
