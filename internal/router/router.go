// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/novamlm/referral-platform/internal/config"
	"github.com/novamlm/referral-platform/internal/handler"
	"github.com/novamlm/referral-platform/internal/middleware"
	"github.com/novamlm/referral-platform/internal/model"
	"github.com/novamlm/referral-platform/internal/token"
)

// RegisterRoutes wires all endpoints onto the Echo instance.
//
// The health check is cacheable (it carries no caller-specific data). The
// auth endpoints sit behind the Redis token bucket so password and
// referral-code guessing is throttled; both middlewares are pass-throughs
// when Redis is unavailable. The profile endpoint is gated by the session
// guard plus the role allow-list.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, tokens *token.Service, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	e.GET("/health", handler.Health, middleware.NewRedisCache(cacheCfg, rdb))

	auth := e.Group("/auth", middleware.NewTokenBucket(rlCfg, rdb))
	auth.POST("/register", a.Register)
	auth.POST("/login", a.Login)

	me := e.Group("",
		middleware.SessionGuard(tokens),
		middleware.RequireRole(model.RoleMember, model.RoleAdmin))
	me.GET("/me", a.Me)
}
