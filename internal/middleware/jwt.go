package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// Locals keys populated by JWTProtected.
const (
	LocalsUserID    = "user_id"
	LocalsUsername  = "username"
	LocalsEmail     = "email"
	LocalsUserRoles = "user_roles"
)

// JWTProtected returns a middleware that validates JWT bearer tokens and
// binds the authenticated identity to the request.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		userID := extractUserIDFromClaims(claims)
		if userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token subject")
		}
		c.Locals(LocalsUserID, *userID)

		if username, ok := claims["username"].(string); ok {
			c.Locals(LocalsUsername, username)
		}
		if email, ok := claims["email"].(string); ok {
			c.Locals(LocalsEmail, email)
		}
		c.Locals(LocalsUserRoles, extractRolesFromClaims(claims))

		return c.Next()
	}
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func extractRolesFromClaims(claims jwt.MapClaims) []string {
	roles := make([]string, 0, 2)
	appendRole := func(value interface{}) {
		if str, ok := value.(string); ok {
			role := strings.ToLower(strings.TrimSpace(str))
			if role != "" {
				roles = append(roles, role)
			}
		}
	}

	switch value := claims["roles"].(type) {
	case []interface{}:
		for _, item := range value {
			appendRole(item)
		}
	case []string:
		for _, item := range value {
			appendRole(item)
		}
	case string:
		appendRole(value)
	}

	if len(roles) == 0 {
		appendRole(claims["role"])
	}

	return roles
}
