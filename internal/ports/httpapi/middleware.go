package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	headerRequestID = "X-Request-Id"
	ctxRequestID    = "request_id"
	ctxActor        = "actor"
)

// ActorVerifier resolves a bearer token to a user id.
type ActorVerifier interface {
	Verify(token string) (string, error)
}

// RequestIDMiddleware ensures every request has a unique X-Request-Id.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, id)
			c.Set(ctxRequestID, id)
			return next(c)
		}
	}
}

// LoggingMiddleware logs each request with structured fields.
func LoggingMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("request",
				"request_id", c.Get(ctxRequestID),
				"actor", c.Get(ctxActor),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}

// ActorAuthMiddleware requires "Authorization: Bearer <token>" and stores the verified
// user id for handlers.
func ActorAuthMiddleware(verifier ActorVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(raw, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			}
			actor, err := verifier.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid bearer token"})
			}
			c.Set(ctxActor, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) string {
	actor, _ := c.Get(ctxActor).(string)
	return actor
}
