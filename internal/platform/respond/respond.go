// Package respond renders the JSON envelope every endpoint uses:
// {"success": true|false, "message": "...", "data": {...}}.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func OKMessage(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// HTTPErrorHandler converts echo errors (including 404/405 from the router)
// into the error envelope. Internal errors are logged with their cause and
// returned with a generic message.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
			message = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, Envelope{Success: false, Message: message})
	}
}
