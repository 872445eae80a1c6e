package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/liftlog/workout-api/internal/auth"
	"github.com/liftlog/workout-api/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const userColumns = "id, username, password_hash, email, nickname, date_created"

// UserRepo is the MySQL credential store. It satisfies auth.UserStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Insert stores a new user and reads it back so DateCreated is populated.
// Unique key violations are reported as auth.ErrUsernameTaken or
// auth.ErrEmailTaken depending on the key that collided.
func (r *UserRepo) Insert(ctx context.Context, u model.User) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, email, nickname) VALUES (?,?,?,?)",
		u.Username, u.PasswordHash, u.Email, u.Nickname)
	if err != nil {
		return model.User{}, mapDuplicateUser(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.FindByID(ctx, id)
}

// FindByUsername fetches a user by exact username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username=?)", username)
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email=?)", email)
}

func (r *UserRepo) scanOne(ctx context.Context, q string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Nickname, &u.DateCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, auth.ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepo) exists(ctx context.Context, q string, arg any) (bool, error) {
	var ok bool
	if err := r.DB.QueryRowContext(ctx, q, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func mapDuplicateUser(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return err
	}
	// Message looks like: Duplicate entry 'x' for key 'users.email'
	if strings.Contains(strings.ToLower(me.Message), "email") {
		return auth.ErrEmailTaken
	}
	return auth.ErrUsernameTaken
}
