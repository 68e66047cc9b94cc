package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// RequireRole ensures the authenticated user holds at least one of the
// allowed roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		for _, role := range RolesFromLocals(c) {
			if _, ok := allowed[role]; ok {
				return c.Next()
			}
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}

// RolesFromLocals returns the normalized role list bound by JWTProtected.
func RolesFromLocals(c *fiber.Ctx) []string {
	value := c.Locals(LocalsUserRoles)
	switch v := value.(type) {
	case []string:
		return v
	case string:
		role := strings.ToLower(strings.TrimSpace(v))
		if role == "" {
			return nil
		}
		return []string{role}
	default:
		return nil
	}
}
