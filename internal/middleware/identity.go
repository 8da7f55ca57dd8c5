package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"cinebook/internal/model"
)

// CurrentIdentity returns the identity stored by JWTAuth. The second return
// is false when the request was not authenticated.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	v := c.Get(identityKey)
	ident, ok := v.(model.Identity)
	return ident, ok
}

// currentUserKey returns a stable per-caller string for rate limit keys.
// Unauthenticated requests fall back to "anon".
func currentUserKey(c echo.Context) string {
	if ident, ok := CurrentIdentity(c); ok {
		return strconv.FormatUint(ident.UserID, 10)
	}
	return "anon"
}
