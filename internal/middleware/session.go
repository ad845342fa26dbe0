package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/novamlm/referral-platform/internal/token"
)

// claimsKey is the context key the session guard stores verified claims
// under. Downstream code reads them through CurrentClaims rather than
// touching the key directly.
const claimsKey = "identity"

// SessionGuard returns an Echo middleware that authenticates requests with a
// bearer credential. The token must follow a literal "Bearer " prefix in the
// Authorization header; a missing prefix yields 401 "No token" and any
// verification failure, including expiry, yields 401 "Invalid token". On
// success the resolved claims are attached to the request context as a
// single immutable value for handlers to read.
func SessionGuard(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := tokens.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// CurrentClaims returns the claims attached by SessionGuard, or false when
// the request did not pass through the guard.
func CurrentClaims(c echo.Context) (token.Claims, bool) {
	claims, ok := c.Get(claimsKey).(token.Claims)
	return claims, ok
}
