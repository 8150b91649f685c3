package utils

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// AppError is a domain error with an HTTP status baked in. Handlers return
// these; the central error handler shapes the envelope.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string { return e.Message }

// NewAppError builds a domain error for the given status code.
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Envelope is the JSON shape every response uses.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success writes the success envelope.
func Success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: "success", Message: message, Data: data})
}

// Fail writes the failure envelope directly, for handlers that want to shape
// the status text themselves.
func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Status: "fail", Message: message})
}

// ErrorHandler converts errors bubbling out of handlers into the failure
// envelope. AppErrors keep their status and message; everything else is
// logged and collapsed to a bare 500.
func ErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Something went wrong"

		var appErr *AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			msg = appErr.Message
		case errors.As(err, &httpErr):
			code = httpErr.Code
			if s, ok := httpErr.Message.(string); ok {
				msg = s
			}
		default:
			logger.Error("unhandled error",
				"method", c.Request().Method,
				"path", c.Path(),
				"err", err)
		}

		if err := c.JSON(code, Envelope{Status: "fail", Message: msg}); err != nil {
			logger.Error("failed to write error response", "err", err)
		}
	}
}
