package router

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/handler"
	"squadup/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetCurrentUser)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.PUT("/me/avatar", userHandler.UploadAvatar)
}
