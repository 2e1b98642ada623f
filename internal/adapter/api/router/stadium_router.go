package router

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/handler"
	"squadup/internal/adapter/api/middleware"
)

func SetupStadiumRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	stadiumHandler := handler.GetStadiumHandler()

	stadiums := e.Group("/v1/stadiums")
	stadiums.Use(authMiddleware.Authenticate)

	stadiums.POST("", stadiumHandler.CreateStadium)
	stadiums.GET("", stadiumHandler.ListStadiums)
	stadiums.GET("/:id", stadiumHandler.GetStadium)
	stadiums.PATCH("/:id", stadiumHandler.UpdateStadium)
	stadiums.DELETE("/:id", stadiumHandler.DeleteStadium)
	stadiums.PUT("/:id/image", stadiumHandler.UploadImage)
}
