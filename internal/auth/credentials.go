package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/liftlog/workout-api/internal/model"
)

// Authenticator checks a username/password pair against the store.
type Authenticator struct {
	users UserFinder
	// dummyHash is compared against on a lookup miss so an unknown
	// username costs one bcrypt comparison, same as a wrong password.
	dummyHash string
}

// NewAuthenticator builds an Authenticator. bcryptCost should match the
// cost used for stored hashes.
func NewAuthenticator(users UserFinder, bcryptCost int) (*Authenticator, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	dummy, err := HashPassword(hex.EncodeToString(buf), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("build dummy hash: %w", err)
	}
	return &Authenticator{users: users, dummyHash: dummy}, nil
}

// Verify returns the user when password matches the stored hash. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (a *Authenticator) Verify(ctx context.Context, username, password string) (model.User, error) {
	u, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return model.User{}, fmt.Errorf("find user: %w", err)
		}
		VerifyPassword(a.dummyHash, password)
		return model.User{}, ErrInvalidCredentials
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}
