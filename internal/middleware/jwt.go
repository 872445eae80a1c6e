package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/auth"
	"github.com/liftlog/workout-api/internal/logging"
)

// Authenticator resolves an Authorization header into a caller identity.
// *auth.Gate is the production implementation.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (auth.Identity, error)
}

// JWTAuth returns an Echo middleware that runs the auth gate for every request
// and rejects unauthenticated ones with 401 and a flat {"error": "..."} body.
// On success the Identity is available to handlers via Identity(c). Failures
// that are not authentication failures (a store outage, for instance) are
// passed to the HTTP error handler instead of being reported as 401.
func JWTAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			id, err := a.Authenticate(ctx, req.Header.Get(echo.HeaderAuthorization))
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrMissingBearerToken):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrMissingBearerToken.Error()})
			case errors.Is(err, auth.ErrUnauthorizedRequest):
				logging.FromContext(ctx).Debug("token rejected", "reason", err.Error())
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrUnauthorizedRequest.Error()})
			case ctx.Err() != nil:
				// client went away while the store lookup was in flight
				return nil
			default:
				return fmt.Errorf("authenticate request: %w", err)
			}

			SetIdentity(c, id)
			logger := logging.FromContext(ctx).With("user_id", id.ID)
			c.SetRequest(req.WithContext(logging.WithContext(ctx, logger)))
			return next(c)
		}
	}
}
