package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"squirrelstash/internal/app"
	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"
)

type Handler struct {
	svc    *app.Service
	logger *slog.Logger
}

func NewHandler(svc *app.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the routes. Everything under /v1 requires an actor token.
func (h *Handler) Register(e *echo.Echo, verifier ActorVerifier) {
	e.GET("/healthz", h.Healthz)

	v1 := e.Group("/v1", ActorAuthMiddleware(verifier))
	v1.POST("/sessions", h.StartSession)
	v1.POST("/actions", h.ApplyAction)
	v1.GET("/players/me", h.Profile)
	v1.GET("/leaderboard", h.Leaderboard)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) StartSession(c echo.Context) error {
	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	res, err := h.svc.Start(c.Request().Context(), actorFrom(c), req.GuildID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toPlayerResponse(res.Player))
}

func (h *Handler) ApplyAction(c echo.Context) error {
	var req ActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	action, err := app.DecodeActionToken(req.Token)
	if err != nil {
		return h.mapError(c, err)
	}

	res, err := h.svc.Handle(c.Request().Context(), actorFrom(c), action)
	if err != nil {
		return h.mapError(c, err)
	}
	if res.LeaderboardErr != nil {
		h.logger.Warn("leaderboard submit failed", "request_id", c.Get(ctxRequestID), "actor", actorFrom(c), "error", res.LeaderboardErr)
	}
	for _, ev := range res.Events {
		if ev.Kind == app.EventCardStolen {
			h.logger.Info("card stolen", "request_id", c.Get(ctxRequestID), "thief", actorFrom(c), "victims", ev.Recipients)
		}
	}

	return c.JSON(http.StatusOK, ActionResultResponse{
		Action: string(res.Kind),
		Event:  toEventResponse(res.Outcome),
		Player: toPlayerResponse(res.Player),
	})
}

func (h *Handler) Profile(c echo.Context) error {
	p, err := h.svc.Profile(c.Request().Context(), actorFrom(c))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toPlayerResponse(p))
}

func (h *Handler) Leaderboard(c echo.Context) error {
	st, err := h.svc.Standings(c.Request().Context(), actorFrom(c), c.QueryParam("guild"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toStandingsResponse(st))
}

func (h *Handler) mapError(c echo.Context, err error) error {
	requestID, _ := c.Get(ctxRequestID).(string)

	var choice *domain.MatchChoiceError
	switch {
	case errors.As(err, &choice):
		candidates := make([]string, len(choice.Candidates))
		for i, r := range choice.Candidates {
			candidates[i] = string(r)
		}
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Candidates: candidates})
	case errors.Is(err, app.ErrMalformedToken),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrNoMatchAvailable):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrForbiddenAction):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrStaleSession), errors.Is(err, app.ErrSessionDepleted):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ports.ErrVersionConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "action raced with another update, try again"})
	case errors.Is(err, app.ErrLeaderboardUnavailable):
		return c.JSON(http.StatusNotImplemented, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
