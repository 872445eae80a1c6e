package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/logging"
)

// NewErrorHandler returns the Echo HTTPErrorHandler. *echo.HTTPError values
// keep their status and message. Anything else is an internal fault: it is
// logged and answered with 500, with the error text included only outside
// production. Errors are logged through the request-scoped logger.
func NewErrorHandler(env string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				logging.FromContext(c.Request().Context()).Debug("http error", "status", he.Code, "err", he.Internal)
			}
			writeError(c, he.Code, echo.Map{"error": echo.Map{"message": fmt.Sprint(he.Message)}})
			return
		}

		logging.FromContext(c.Request().Context()).Error("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "err", err)

		if env == "production" {
			writeError(c, http.StatusInternalServerError, echo.Map{"error": echo.Map{"message": "server error"}})
			return
		}
		writeError(c, http.StatusInternalServerError, echo.Map{
			"message": err.Error(),
			"error":   echo.Map{"message": err.Error()},
		})
	}
}

func writeError(c echo.Context, status int, body echo.Map) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("write error response", "err", err)
	}
}
