package http

import (
	"errors"
	"net/http"

	"orderentry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation is one failed schema rule, named by the JSON field.
type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// statusOf maps error sentinels to HTTP status codes.
func statusOf(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrStateIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrSchemaIsInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrOperationIsUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errs.ErrArgumentIsInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) errorResponse(c echo.Context, err error) error {
	status := statusOf(err)
	body := Error{Code: status, Message: err.Error()}

	var schemaErr *errs.SchemaIsInvalidError
	if errors.As(err, &schemaErr) {
		for _, v := range schemaErr.Violations {
			body.Violations = append(body.Violations, Violation{Field: v.Field, Rule: v.Rule, Param: v.Param})
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			body.Message = msg
		}
	}

	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		body.Message = http.StatusText(status)
	}

	return c.JSON(status, body)
}

// HTTPErrorHandler renders errors that escape a route, such as unknown paths.
func (s *Server) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	_ = s.errorResponse(c, err)
}
