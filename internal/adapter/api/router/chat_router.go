package router

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/handler"
	"squadup/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.GetUserChats)
	chats.GET("/:id", chatHandler.GetChatByID)
	chats.DELETE("/:id", chatHandler.DeleteChat)

	chats.POST("/:id/members", chatHandler.AddMembers)
	chats.DELETE("/:id/members/:userId", chatHandler.RemoveMember)
	chats.POST("/:id/admins", chatHandler.PromoteAdmin)

	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.GET("/:id/messages", chatHandler.GetChatMessages)
	chats.GET("/:id/messages/latest", chatHandler.GetLatestMessage)
}
