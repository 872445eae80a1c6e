package auth

import (
	"context"

	"github.com/liftlog/workout-api/internal/model"
)

// UserFinder is the read side of the credential store. Both lookups return
// ErrUserNotFound when no row matches.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
}

// UserStore is the full credential store contract consumed by this package.
// Insert returns the stored user with ID and DateCreated populated, or
// ErrUsernameTaken/ErrEmailTaken on a unique key collision.
type UserStore interface {
	UserFinder
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, u model.User) (model.User, error)
}
