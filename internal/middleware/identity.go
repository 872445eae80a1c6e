package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/auth"
)

const identityKey = "identity"

// SetIdentity stores the authenticated caller on the request context.
func SetIdentity(c echo.Context, id auth.Identity) {
	c.Set(identityKey, id)
}

// Identity returns the caller stored by JWTAuth. ok is false on routes that
// are not behind the auth gate.
func Identity(c echo.Context) (id auth.Identity, ok bool) {
	id, ok = c.Get(identityKey).(auth.Identity)
	return id, ok
}
