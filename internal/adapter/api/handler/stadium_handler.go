package handler

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/usecase"
	"squadup/pkg/response"
	"squadup/pkg/utils"
)

type StadiumHandler struct {
	stadiumUseCase *usecase.StadiumUseCase
}

func NewStadiumHandler(stadiumUseCase *usecase.StadiumUseCase) *StadiumHandler {
	return &StadiumHandler{
		stadiumUseCase: stadiumUseCase,
	}
}

type createStadiumRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city" validate:"required"`
	PricePerHour int64  `json:"price_per_hour" validate:"gte=0"`
}

type updateStadiumRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address      *string `json:"address" validate:"omitempty,min=1"`
	City         *string `json:"city" validate:"omitempty,min=1"`
	PricePerHour *int64  `json:"price_per_hour" validate:"omitempty,gte=0"`
}

func (h *StadiumHandler) CreateStadium(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createStadiumRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	stadium, err := h.stadiumUseCase.CreateStadium(c.Request().Context(), p, usecase.CreateStadiumInput{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, stadium)
}

func (h *StadiumHandler) ListStadiums(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	stadiums, total, err := h.stadiumUseCase.ListStadiums(c.Request().Context(), c.QueryParam("city"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, stadiums, total, params.Page, params.PageSize)
}

func (h *StadiumHandler) GetStadium(c echo.Context) error {
	stadium, err := h.stadiumUseCase.GetStadium(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stadium)
}

func (h *StadiumHandler) UpdateStadium(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateStadiumRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	stadium, err := h.stadiumUseCase.UpdateStadium(c.Request().Context(), p, c.Param("id"), usecase.UpdateStadiumInput{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stadium)
}

func (h *StadiumHandler) DeleteStadium(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.stadiumUseCase.DeleteStadium(c.Request().Context(), p, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "Stadium deleted",
	})
}

func (h *StadiumHandler) UploadImage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	data, contentType, err := readImage(c)
	if err != nil {
		return response.Error(c, err)
	}

	stadium, err := h.stadiumUseCase.UpdateImage(c.Request().Context(), p, c.Param("id"), data, contentType)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stadium)
}
