package router

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/middleware"
	"squadup/internal/usecase"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter usecase.RateLimiter) {
	SetupAuthRouter(e, limiter)
	SetupUserRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupMatchRouter(e, authMiddleware)
	SetupStadiumRouter(e, authMiddleware)
	SetupWebSocketRouter(e)
	SetupHealthRouter(e)
}
