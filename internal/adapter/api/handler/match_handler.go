package handler

import (
	"github.com/labstack/echo/v4"

	"squadup/internal/domain/entity"
	"squadup/internal/usecase"
	"squadup/pkg/errors"
	"squadup/pkg/response"
)

type MatchHandler struct {
	matchUseCase *usecase.MatchUseCase
}

func NewMatchHandler(matchUseCase *usecase.MatchUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
	}
}

type createMatchRequest struct {
	ChatID        string `json:"chat_id" validate:"required"`
	Title         string `json:"title" validate:"required,max=100"`
	CostPerPerson int64  `json:"cost_per_person" validate:"gte=0"`
	StadiumID     string `json:"stadium_id"`
	Location      string `json:"location" validate:"max=200"`
	Notes         string `json:"notes" validate:"max=1000"`
	Date          string `json:"date" validate:"required,matchdate"`
	MeetTime      string `json:"meet_time" validate:"required,matchtime"`
	KickOff       string `json:"kick_off" validate:"required,matchtime"`
	Duration      string `json:"duration"`
}

type updateMatchRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=100"`
	CostPerPerson *int64  `json:"cost_per_person" validate:"omitempty,gte=0"`
	StadiumID     *string `json:"stadium_id"`
	Location      *string `json:"location" validate:"omitempty,max=200"`
	Notes         *string `json:"notes" validate:"omitempty,max=1000"`
	Date          *string `json:"date" validate:"omitempty,matchdate"`
	MeetTime      *string `json:"meet_time" validate:"omitempty,matchtime"`
	KickOff       *string `json:"kick_off" validate:"omitempty,matchtime"`
	Duration      *string `json:"duration"`
}

type participationRequest struct {
	Status string `json:"status" validate:"required,oneof=in out"`
}

type paymentRequest struct {
	MemberID string `json:"member_id" validate:"required"`
	Payment  string `json:"payment" validate:"required,oneof=paid unpaid"`
}

type addToTeamRequest struct {
	Team    string   `json:"team" validate:"required,oneof=A B"`
	Members []string `json:"members" validate:"dive,required"`
}

type removeFromTeamRequest struct {
	Team     string `json:"team" validate:"required,oneof=A B"`
	MemberID string `json:"member_id" validate:"required"`
}

func (h *MatchHandler) CreateMatch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createMatchRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.CreateMatch(c.Request().Context(), p, usecase.CreateMatchInput{
		ChatID:        req.ChatID,
		Title:         req.Title,
		CostPerPerson: req.CostPerPerson,
		StadiumID:     req.StadiumID,
		Location:      req.Location,
		Notes:         req.Notes,
		Date:          req.Date,
		MeetTime:      req.MeetTime,
		KickOff:       req.KickOff,
		Duration:      req.Duration,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, match)
}

func (h *MatchHandler) ListMatches(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	chatID := c.QueryParam("chatId")
	if chatID == "" {
		chatID = c.QueryParam("chat_id")
	}
	if chatID == "" {
		return response.Error(c, errors.BadRequest("chatId query parameter is required", nil))
	}

	matches, err := h.matchUseCase.ListMatches(c.Request().Context(), p, chatID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, matches)
}

func (h *MatchHandler) GetMatch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.GetMatch(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, match)
}

func (h *MatchHandler) UpdateMatch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateMatchRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.UpdateMatch(c.Request().Context(), p, c.Param("id"), usecase.UpdateMatchInput{
		Title:         req.Title,
		CostPerPerson: req.CostPerPerson,
		StadiumID:     req.StadiumID,
		Location:      req.Location,
		Notes:         req.Notes,
		Date:          req.Date,
		MeetTime:      req.MeetTime,
		KickOff:       req.KickOff,
		Duration:      req.Duration,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, match)
}

func (h *MatchHandler) UpdateParticipation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req participationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.SetParticipation(c.Request().Context(), p, c.Param("id"), entity.ParticipationStatus(req.Status))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, match)
}

func (h *MatchHandler) UpdatePayment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.UpdatePayment(c.Request().Context(), p, c.Param("id"), req.MemberID, entity.PaymentStatus(req.Payment))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, match)
}

func (h *MatchHandler) AddToTeam(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req addToTeamRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.AddToTeam(c.Request().Context(), p, c.Param("id"), entity.Team(req.Team), req.Members)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, match)
}

func (h *MatchHandler) RemoveFromTeam(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req removeFromTeamRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.RemoveFromTeam(c.Request().Context(), p, c.Param("id"), entity.Team(req.Team), req.MemberID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, match)
}

func (h *MatchHandler) CancelMatch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	match, err := h.matchUseCase.CancelMatch(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, match)
}

func (h *MatchHandler) DeleteMatch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.matchUseCase.DeleteMatch(c.Request().Context(), p, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string]interface{}{})
}
