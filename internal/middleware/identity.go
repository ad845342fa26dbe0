package middleware

// identity.go holds small helpers shared across middleware files.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// memberID returns the authenticated member's id as a string for use in
// rate-limit keys, or "guest" when the request is unauthenticated.
func memberID(c echo.Context) string {
	if claims, ok := CurrentClaims(c); ok && claims.ID != 0 {
		return strconv.FormatUint(claims.ID, 10)
	}
	return "guest"
}
