package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"orderentry/internal/adapters/out/identity"
	"orderentry/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Headers identifying the authenticated user. Authentication itself happens
// upstream. X-Actor-Id is required whenever either header is sent;
// X-Actor-System-Id is optional and defaults to empty.
const (
	HeaderActorID       = "X-Actor-Id"
	HeaderActorSystemID = "X-Actor-System-Id"
)

// ActorMiddleware stores the actor named by the request headers in the
// request context. Requests without either header stay anonymous; a system id
// without a user id is rejected with 400.
func ActorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawID := c.Request().Header.Get(HeaderActorID)
			systemID := c.Request().Header.Get(HeaderActorSystemID)
			if rawID == "" && systemID == "" {
				return next(c)
			}

			if rawID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s header is required", HeaderActorID))
			}
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s header", HeaderActorID))
			}
			actor, err := kernel.NewActor(id, systemID)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid actor headers: "+err.Error())
			}

			req := c.Request()
			c.SetRequest(req.WithContext(identity.WithActor(req.Context(), actor)))
			return next(c)
		}
	}
}

// RequestLogger logs one line per request through slog.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
