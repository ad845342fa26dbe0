package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novamlm/referral-platform/internal/middleware"
	"github.com/novamlm/referral-platform/internal/model"
	"github.com/novamlm/referral-platform/internal/repository"
	"github.com/novamlm/referral-platform/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the wire shape of a member. The password hash is deliberately
// absent from the struct so it can never leak into a response.
type userPayload struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ParentID     *uint64   `json:"parentId,omitempty"`
	ReferralCode string    `json:"referralCode"`
	CreatedAt    time.Time `json:"createdAt"`
}
type authResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func toUserPayload(m *model.Member) userPayload {
	return userPayload{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         m.Role,
		ParentID:     m.ParentID,
		ReferralCode: m.ReferralCode,
		CreatedAt:    m.CreatedAt,
	}
}

// Register creates a member, optionally under a referring parent, and
// returns a bearer token with the member.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Register(ctx, service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
		case errors.Is(err, service.ErrEmailInUse):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already in use"})
		default:
			c.Logger().Errorf("register failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
		}
	}

	return c.JSON(http.StatusOK, authResp{Token: res.Token, User: toUserPayload(res.Member)})
}

// Login verifies credentials and returns a fresh bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		default:
			c.Logger().Errorf("login failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
		}
	}

	return c.JSON(http.StatusOK, authResp{Token: res.Token, User: toUserPayload(res.Member)})
}

// Me returns the profile of the authenticated member. SessionGuard has
// already verified the credential and attached the claims.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Auth.Profile(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Member not found"})
		}
		c.Logger().Errorf("profile lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": toUserPayload(m)})
}
