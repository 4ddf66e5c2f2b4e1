package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"decohogar/internal/domain"
	applog "decohogar/internal/log"
	"decohogar/internal/services"
)

const userKey = "user"

var errAuthRequired = &domain.Error{Kind: domain.KindInvalidCredentials, Message: "authentication required"}

// RequireUser accepts "Authorization: Bearer <access token>" and stores the
// user in Locals; anything else is rejected with 401.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			applog.Security(c, "access.denied", map[string]any{"reason": "missing_token"})
			return errAuthRequired
		}
		u, err := auth.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			applog.Security(c, "access.denied", map[string]any{"reason": "bad_token"})
			return err
		}
		c.Locals(userKey, u)
		c.Locals(applog.UserIDKey, u.ID)
		return c.Next()
	}
}

// currentUser is only valid behind RequireUser.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(userKey).(*domain.User)
	return u
}
