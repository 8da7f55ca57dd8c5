package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"cinebook/internal/model"
)

// identityKey is the context key the authenticated identity is stored under.
const identityKey = "identity"

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// stores the caller's identity in the request context. The provided secret
// must match the one used when issuing tokens. Handlers behind this
// middleware retrieve the identity via CurrentIdentity.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 and our secret; reject any other signing method.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			ident, ok := identityFromClaims(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// identityFromClaims builds a typed identity from the token's subject and
// role claims. The subject may arrive as a JSON number or a string.
func identityFromClaims(claims jwt.MapClaims) (model.Identity, bool) {
	var ident model.Identity

	switch sub := claims["sub"].(type) {
	case float64:
		if sub <= 0 {
			return ident, false
		}
		ident.UserID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil || n == 0 {
			return ident, false
		}
		ident.UserID = n
	default:
		return ident, false
	}

	role, _ := claims["role"].(string)
	switch model.Role(role) {
	case model.RoleUser, model.RoleAdmin:
		ident.Role = model.Role(role)
	default:
		return ident, false
	}
	return ident, true
}
