package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/liftlog/workout-api/internal/model"
)

const setColumns = `id, set_weight, set_repetition, date_created, date_modified, exercise_id, user_id`

// SetPatch lists the fields a PATCH may change. Nil fields are left
// untouched, except DateModified which defaults to the current time.
type SetPatch struct {
	SetWeight     *float64
	SetRepetition *int
	DateModified  *time.Time
}

// SetRepo provides owner-scoped access to the `exercise_sets` table.
type SetRepo struct {
	db *sql.DB
}

func NewSetRepo(db *sql.DB) *SetRepo {
	return &SetRepo{db: db}
}

// Create inserts s and refreshes it from the database. The caller is
// responsible for checking that s.ExerciseID belongs to s.UserID.
func (r *SetRepo) Create(ctx context.Context, s *model.ExerciseSet) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO exercise_sets (set_weight, set_repetition, exercise_id, user_id) VALUES (?, ?, ?, ?)`,
		s.SetWeight, s.SetRepetition, s.ExerciseID, s.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByIDAndOwner(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	*s = *got
	return nil
}

// ListByOwner returns the user's sets ordered by id.
func (r *SetRepo) ListByOwner(ctx context.Context, userID int64) ([]model.ExerciseSet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM exercise_sets WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ExerciseSet{}
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOwner returns ErrSetNotFound when the set is missing or owned
// by another user.
func (r *SetRepo) GetByIDAndOwner(ctx context.Context, id, userID int64) (*model.ExerciseSet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+setColumns+` FROM exercise_sets WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanSet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	return s, nil
}

// UpdateByIDAndOwner applies p to the set.
func (r *SetRepo) UpdateByIDAndOwner(ctx context.Context, id, userID int64, p SetPatch) error {
	sets := []string{}
	args := []any{}
	if p.SetWeight != nil {
		sets = append(sets, "set_weight = ?")
		args = append(args, *p.SetWeight)
	}
	if p.SetRepetition != nil {
		sets = append(sets, "set_repetition = ?")
		args = append(args, *p.SetRepetition)
	}
	if p.DateModified != nil {
		sets = append(sets, "date_modified = ?")
		args = append(args, p.DateModified.UTC())
	} else {
		sets = append(sets, "date_modified = CURRENT_TIMESTAMP")
	}
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE exercise_sets SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSetNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a single set.
func (r *SetRepo) DeleteByIDAndOwner(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exercise_sets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSetNotFound
	}
	return nil
}

func scanSet(rs rowScanner) (*model.ExerciseSet, error) {
	var (
		s        model.ExerciseSet
		modified sql.NullTime
	)
	if err := rs.Scan(&s.ID, &s.SetWeight, &s.SetRepetition, &s.DateCreated, &modified, &s.ExerciseID, &s.UserID); err != nil {
		return nil, err
	}
	if modified.Valid {
		t := modified.Time
		s.DateModified = &t
	}
	return &s, nil
}
