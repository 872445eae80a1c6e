package auth

import (
	"context"
	"fmt"

	"github.com/liftlog/workout-api/internal/model"
)

// RegisterInput carries the fields of a registration request. Password is
// the only place a plaintext password exists; it is hashed before it
// reaches the store and is never logged.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Nickname string
}

// Registrar creates new accounts.
type Registrar struct {
	users UserStore
	cost  int
}

// NewRegistrar returns a Registrar that hashes with the given bcrypt cost.
func NewRegistrar(users UserStore, bcryptCost int) *Registrar {
	return &Registrar{users: users, cost: bcryptCost}
}

// Register validates in, enforces username/email uniqueness and stores the
// new user. Validation failures are *MissingFieldError, *PolicyViolation,
// ErrUsernameTaken or ErrEmailTaken; anything else is an internal fault.
func (r *Registrar) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	required := []struct{ field, value string }{
		{"username", in.Username},
		{"user_password", in.Password},
		{"email", in.Email},
	}
	for _, f := range required {
		if f.value == "" {
			return model.User{}, &MissingFieldError{Field: f.field}
		}
	}

	if err := ValidatePassword(in.Password); err != nil {
		return model.User{}, err
	}

	taken, err := r.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return model.User{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return model.User{}, ErrUsernameTaken
	}
	taken, err = r.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return model.User{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return model.User{}, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password, r.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := r.users.Insert(ctx, model.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Nickname:     in.Nickname,
	})
	if err != nil {
		// A concurrent registration can still win the race past the
		// existence checks; the store reports it with the same sentinels.
		return model.User{}, err
	}
	return u, nil
}
