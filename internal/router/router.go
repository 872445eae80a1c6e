// Package router registers the API routes on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account routes. Registration and login are
// public; reading the profile and refreshing a token go through authMW.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authMW echo.MiddlewareFunc) {
	e.POST("/api/user", a.Register)
	e.GET("/api/user", a.Me, authMW)

	g := e.Group("/api/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh, authMW)
}
