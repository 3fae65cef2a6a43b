// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cherio/cherio-api/internal/auth"
	"github.com/cherio/cherio-api/internal/config"
	"github.com/cherio/cherio-api/internal/handler"
	"github.com/cherio/cherio-api/internal/middleware"
)

// RegisterRoutes registers routes that need no dependencies. Currently
// that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login
// and SSO issuance are open; /v1/me sits behind the session middleware
// as the canonical example of a protected route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.Service) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Issues a fresh ticket on every call; the previous ticket stops
	// matching immediately.
	g.GET("/sso/:username", a.SSO)

	protected := e.Group("/v1")
	protected.Use(middleware.SessionAuth(tokens))
	protected.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated read endpoints. The
// heavier aggregate pages (leaderboard, news, staff) sit behind the
// Redis response cache; profile lookups stay uncached so balance
// changes show up immediately.
func RegisterPublic(e *echo.Echo, u *handler.UserHandler, l *handler.LeaderboardHandler,
	n *handler.NewsHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {

	cached := middleware.NewRedisCache(cacheCfg, rdb)

	e.GET("/v1/users/:username", u.Profile)
	e.GET("/v1/users/:username/friends", u.Friends)
	e.GET("/v1/users/online-count", u.OnlineCount)
	e.GET("/v1/staff", u.Staff, cached)

	e.GET("/v1/leaderboard", l.Leaderboard, cached)

	e.GET("/v1/news", n.List, cached)
	e.GET("/v1/news/:slug", n.Get)

	e.GET("/v1/shop", handler.Shop)
}

// RegisterEye registers the staff moderation panel. Authorization is
// enforced inside the handlers because every attempt, including denied
// ones, must be audited.
func RegisterEye(e *echo.Echo, eye *handler.EyeHandler) {
	g := e.Group("/v1/eye")
	g.GET("", eye.Panel)
	g.GET("/users", eye.ListUsers)
	g.GET("/users/:id", eye.GetUser)
	g.POST("/users/:id/update", eye.UpdateUser)
}
