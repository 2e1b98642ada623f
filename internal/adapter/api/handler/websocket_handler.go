package handler

import (
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "squadup/internal/infrastructure/websocket"
	"squadup/internal/usecase"
	"squadup/pkg/errors"
	"squadup/pkg/logger"
	"squadup/pkg/response"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	authUseCase *usecase.AuthUseCase
	upgrader    gorillaws.Upgrader
}

var webSocketHandler *WebSocketHandler

// NewWebSocketHandler accepts upgrades from the listed origins. An empty
// list or "*" accepts any origin.
func NewWebSocketHandler(wsManager *ws.Manager, authUseCase *usecase.AuthUseCase, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		authUseCase: authUseCase,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func SetupWebSocketHandler(wsManager *ws.Manager, authUseCase *usecase.AuthUseCase, allowedOrigins []string) {
	webSocketHandler = NewWebSocketHandler(wsManager, authUseCase, allowedOrigins)
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket authenticates with the token query parameter since
// browsers cannot set headers on the upgrade request.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("Token query parameter is required", nil))
	}

	principal, err := h.authUseCase.Authenticate(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("websocket upgrade failed for %s: %v", principal.UserID, err)
		return nil
	}

	client := ws.NewClient(principal.UserID, conn)
	if !h.wsManager.Join(client) {
		conn.Close()
		return nil
	}

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
