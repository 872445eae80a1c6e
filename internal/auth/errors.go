// Package auth implements account registration, credential checks and the
// bearer-token gate that guards every protected route. It depends only on
// the UserStore contract; persistence lives in the repository package.
package auth

import "errors"

// Sentinel errors shared with UserStore implementations. A store returns
// ErrUserNotFound on a lookup miss and ErrUsernameTaken/ErrEmailTaken when
// an insert hits a unique key.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("Username already taken")
	ErrEmailTaken    = errors.New("Email is already associated with an user account")
)

// ErrInvalidCredentials is the only failure Verify reports for a bad
// username/password pair, whichever half was wrong.
var ErrInvalidCredentials = errors.New("Incorrect username or password")

// Gate failures. The messages are the exact wire strings.
var (
	ErrMissingBearerToken  = errors.New("Missing bearer token")
	ErrUnauthorizedRequest = errors.New("Unauthorized request")
)

// MissingFieldError reports a required request field that was absent or
// empty. Field is the wire name of the field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "Missing '" + e.Field + "' in request body"
}
