package router

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/handler"
	"squadup/internal/adapter/api/middleware"
	"squadup/internal/infrastructure/ratelimit"
	"squadup/internal/usecase"
)

func SetupAuthRouter(e *echo.Echo, limiter usecase.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register, middleware.RateLimit(limiter, ratelimit.ActionRegister))
	auth.POST("/login", authHandler.Login)
}
