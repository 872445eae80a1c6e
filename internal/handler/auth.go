package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/auth"
	"github.com/liftlog/workout-api/internal/model"
	"github.com/liftlog/workout-api/internal/queue"
)

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Registrar *auth.Registrar
	Creds     *auth.Authenticator
	Issuer    *auth.Issuer
	Users     auth.UserFinder
	Events    queue.Publisher
}

func NewAuthHandler(r *auth.Registrar, a *auth.Authenticator, i *auth.Issuer, users auth.UserFinder, events queue.Publisher) *AuthHandler {
	if r == nil || a == nil || i == nil || users == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Registrar: r, Creds: a, Issuer: i, Users: users, Events: events}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"user_password"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"user_password"`
}

type tokenResp struct {
	AuthToken string `json:"authToken"`
}

// Register creates an account. Validation failures (missing field, password
// policy, duplicate username or email) are 400 with a flat error body.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return flatError(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Registrar.Register(ctx, auth.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Nickname: req.Nickname,
	})
	if err != nil {
		if msg, ok := registrationFailure(err); ok {
			return flatError(c, http.StatusBadRequest, msg)
		}
		return err
	}

	publish(c, h.Events, queue.NewActivityEvent(queue.UserRegistered, u.ID, u.ID))
	return created(c, u.ID, u)
}

func registrationFailure(err error) (string, bool) {
	var missing *auth.MissingFieldError
	var policy *auth.PolicyViolation
	switch {
	case errors.As(err, &missing):
		return missing.Error(), true
	case errors.As(err, &policy):
		return policy.Error(), true
	case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, auth.ErrEmailTaken):
		return err.Error(), true
	}
	return "", false
}

// Me returns the profile of the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return flatError(c, http.StatusUnauthorized, auth.ErrUnauthorizedRequest.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Login exchanges a username and password for an access token. Unknown
// users and wrong passwords get the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return flatError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" {
		return flatError(c, http.StatusBadRequest, (&auth.MissingFieldError{Field: "username"}).Error())
	}
	if req.Password == "" {
		return flatError(c, http.StatusBadRequest, (&auth.MissingFieldError{Field: "user_password"}).Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Creds.Verify(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return flatError(c, http.StatusBadRequest, auth.ErrInvalidCredentials.Error())
		}
		return err
	}
	return h.respondToken(c, u)
}

// Refresh issues a new access token for the caller of an authenticated
// request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, id.ID)
	if err != nil {
		return err
	}
	return h.respondToken(c, u)
}

func (h *AuthHandler) respondToken(c echo.Context, u model.User) error {
	tok, err := h.Issuer.Issue(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResp{AuthToken: tok})
}
