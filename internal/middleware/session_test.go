package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamlm/referral-platform/internal/token"
)

func newGuardedEcho(tokens *token.Service) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		claims, ok := CurrentClaims(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{"id": claims.ID, "email": claims.Email})
	}, SessionGuard(tokens))
	return e
}

func TestSessionGuardMissingHeader(t *testing.T) {
	tokens := token.New("secret", time.Hour)
	e := newGuardedEcho(tokens)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No token"}`, rec.Body.String())
}

func TestSessionGuardWrongScheme(t *testing.T) {
	tokens := token.New("secret", time.Hour)
	e := newGuardedEcho(tokens)

	raw, err := tokens.Issue(token.Claims{ID: 1, Email: "a@x.com", Role: "MEMBER"})
	require.NoError(t, err)

	// A valid token without the literal "Bearer " prefix is still rejected.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No token"}`, rec.Body.String())
}

func TestSessionGuardInvalidToken(t *testing.T) {
	tokens := token.New("secret", time.Hour)
	e := newGuardedEcho(tokens)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestSessionGuardExpiredToken(t *testing.T) {
	expired := token.New("secret", -time.Minute)
	raw, err := expired.Issue(token.Claims{ID: 1, Email: "a@x.com", Role: "MEMBER"})
	require.NoError(t, err)

	e := newGuardedEcho(token.New("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestSessionGuardAttachesClaims(t *testing.T) {
	tokens := token.New("secret", time.Hour)
	e := newGuardedEcho(tokens)

	raw, err := tokens.Issue(token.Claims{ID: 42, Email: "ann@x.com", Role: "MEMBER"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":42,"email":"ann@x.com"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	tokens := token.New("secret", time.Hour)
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, SessionGuard(tokens), RequireRole("ADMIN"))

	memberTok, err := tokens.Issue(token.Claims{ID: 1, Email: "a@x.com", Role: "MEMBER"})
	require.NoError(t, err)
	adminTok, err := tokens.Issue(token.Claims{ID: 2, Email: "b@x.com", Role: "ADMIN"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+memberTok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
