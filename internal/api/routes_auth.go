package api

import (
	"github.com/gin-gonic/gin"

	"github.com/avereen/studylog/internal/handlers"
)

type authRouteDeps struct {
	AuthHandler *handlers.AuthHandler
	// CodeLimiter throttles login-code requests independently of the global
	// limiter. It no-ops when rate limiting is not configured.
	CodeLimiter gin.HandlerFunc
}

func registerAuthRoutes(engine *gin.Engine, api *gin.RouterGroup, deps authRouteDeps) {
	auth := engine.Group("/api/auth")
	{
		auth.POST("/login", deps.CodeLimiter, deps.AuthHandler.RequestCode)
		auth.POST("/verify", deps.AuthHandler.Verify)
		auth.POST("/refresh", deps.AuthHandler.Refresh)
	}

	api.GET("/auth/me", deps.AuthHandler.Me)
	api.POST("/auth/logout", deps.AuthHandler.Logout)
}
