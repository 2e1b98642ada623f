package router

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/handler"
	"squadup/internal/adapter/api/middleware"
)

func SetupMatchRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	matchHandler := handler.GetMatchHandler()

	matches := e.Group("/v1/matches")
	matches.Use(authMiddleware.Authenticate)

	matches.POST("", matchHandler.CreateMatch)
	matches.GET("", matchHandler.ListMatches)
	matches.GET("/:id", matchHandler.GetMatch)
	matches.PATCH("/:id", matchHandler.UpdateMatch)
	matches.DELETE("/:id", matchHandler.DeleteMatch)

	matches.PATCH("/:id/participation", matchHandler.UpdateParticipation)
	matches.PATCH("/:id/payment", matchHandler.UpdatePayment)
	matches.POST("/:id/team", matchHandler.AddToTeam)
	matches.DELETE("/:id/team", matchHandler.RemoveFromTeam)
	matches.POST("/:id/cancel", matchHandler.CancelMatch)
}
