package handler

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/usecase"
	"squadup/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone" validate:"omitempty,e164"`
}

func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.GetProfile(c.Request().Context(), p)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), p, usecase.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UploadAvatar(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	data, contentType, err := readImage(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateAvatar(c.Request().Context(), p, data, contentType)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
