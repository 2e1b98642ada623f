package router

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the realtime endpoint. The handler
// authenticates from the query string.
func SetupWebSocketRouter(e *echo.Echo) {
	e.GET("/v1/ws", handler.GetWebSocketHandler().HandleWebSocket)
}
