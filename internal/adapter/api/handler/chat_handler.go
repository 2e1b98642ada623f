package handler

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/usecase"
	"squadup/pkg/response"
	"squadup/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	Name    string   `json:"name" validate:"required,max=100"`
	Members []string `json:"members" validate:"dive,required"`
}

type membersRequest struct {
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

type promoteRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *ChatHandler) CreateChat(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.CreateChat(c.Request().Context(), p, usecase.CreateChatInput{
		Name:    req.Name,
		Members: req.Members,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, chat)
}

func (h *ChatHandler) GetUserChats(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), p)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chats)
}

func (h *ChatHandler) GetChatByID(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.GetChatByID(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) AddMembers(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req membersRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.AddMembers(c.Request().Context(), p, c.Param("id"), req.Members)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) RemoveMember(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.RemoveMember(c.Request().Context(), p, c.Param("id"), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) PromoteAdmin(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req promoteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.PromoteAdmin(c.Request().Context(), p, c.Param("id"), req.UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) DeleteChat(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.DeleteChat(c.Request().Context(), p, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "Chat deleted",
	})
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), p, c.Param("id"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.chatUseCase.GetChatMessages(c.Request().Context(), p, c.Param("id"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

func (h *ChatHandler) GetLatestMessage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.LatestMessage(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, message)
}
