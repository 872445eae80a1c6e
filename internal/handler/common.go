package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/auth"
	"github.com/liftlog/workout-api/internal/logging"
	"github.com/liftlog/workout-api/internal/middleware"
	"github.com/liftlog/workout-api/internal/queue"
)

// requestTimeout bounds the store calls a single request may make.
const requestTimeout = 5 * time.Second

// publishTimeout bounds a single event hand-off to the publisher.
const publishTimeout = time.Second

var errNoIdentity = errors.New("handler: no identity on an authenticated route")

// caller returns the identity placed on the context by middleware.JWTAuth.
// Every resource route is mounted behind it, so a miss is a wiring bug.
func caller(c echo.Context) (auth.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return auth.Identity{}, errNoIdentity
	}
	return id, nil
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses a numeric path parameter. Anything that is not a positive
// integer cannot name an existing row.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// resourceError writes the {"error": {"message": ...}} body used by the
// workout, exercise and set routes.
func resourceError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": echo.Map{"message": msg}})
}

// flatError writes the {"error": "..."} body used by the account routes.
func flatError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// created writes a 201 with a Location header pointing at the new resource.
func created(c echo.Context, id int64, body any) error {
	c.Response().Header().Set(echo.HeaderLocation, c.Request().URL.Path+"/"+strconv.FormatInt(id, 10))
	return c.JSON(http.StatusCreated, body)
}

// publish sends ev without failing the request; the write it describes has
// already been committed.
func publish(c echo.Context, p queue.Publisher, ev queue.ActivityEvent) {
	if p == nil {
		return
	}
	ctx := c.Request().Context()
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(pubCtx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish activity event failed", "type", ev.Type, "err", err)
	}
}
