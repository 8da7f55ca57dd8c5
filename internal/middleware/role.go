package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cinebook/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// caller holds one of the given roles. It assumes JWTAuth ran earlier in
// the chain; a request without an identity or with a role outside the
// allowed set is rejected with 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok || !allowed[ident.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
