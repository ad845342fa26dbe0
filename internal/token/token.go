// Package token issues and verifies the signed bearer credentials used by
// the API. Credentials are stateless: nothing is persisted and there is no
// revocation list, so rotating the signing secret is the only way to
// invalidate tokens before they expire.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried inside a bearer credential.
type Claims struct {
	ID    uint64
	Email string
	Role  string
}

// Service signs and verifies HS256 JWTs. The secret is injected once at
// construction and held for the process lifetime; it is never read from the
// environment here.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New builds a Service from the configured signing secret and token
// lifetime.
func New(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

var errInvalidToken = errors.New("invalid token")

// Issue signs a credential embedding the claims plus exp/iat. Expiry is
// ttl from now (30 days in the default configuration).
func (s *Service) Issue(c Claims) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    c.ID,
		"email": c.Email,
		"role":  c.Role,
		"exp":   now.Add(s.ttl).Unix(),
		"iat":   now.Unix(),
	})
	return t.SignedString(s.secret)
}

// Verify parses and validates a credential, returning its claims. It fails
// for a bad signature, a non-HMAC signing method, a malformed token string
// and an expired token; callers map any failure to 401.
func (s *Service) Verify(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, errInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errInvalidToken
	}

	var c Claims
	// JWT numbers decode as float64.
	if id, ok := mc["id"].(float64); ok {
		c.ID = uint64(id)
	}
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	if c.ID == 0 {
		return Claims{}, errInvalidToken
	}
	return c, nil
}
