package handler

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/adapter/api/middleware"
	"squadup/internal/usecase"
	"squadup/pkg/errors"
)

var (
	authHandler    *AuthHandler
	userHandler    *UserHandler
	chatHandler    *ChatHandler
	matchHandler   *MatchHandler
	stadiumHandler *StadiumHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	chatUseCase *usecase.ChatUseCase,
	matchUseCase *usecase.MatchUseCase,
	stadiumUseCase *usecase.StadiumUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	matchHandler = NewMatchHandler(matchUseCase)
	stadiumHandler = NewStadiumHandler(stadiumUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetMatchHandler() *MatchHandler {
	return matchHandler
}

func GetStadiumHandler() *StadiumHandler {
	return stadiumHandler
}

func principal(c echo.Context) (usecase.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return usecase.Principal{}, errors.Unauthorized("Authentication required", nil)
	}
	return p, nil
}
