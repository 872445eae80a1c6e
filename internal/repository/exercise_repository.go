package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/liftlog/workout-api/internal/model"
)

const exerciseColumns = `id, exercise_name, date_created, date_modified, workout_id, user_id`

// ExercisePatch lists the fields a PATCH may change. Nil fields are left
// untouched, except DateModified which defaults to the current time.
type ExercisePatch struct {
	ExerciseName *string
	DateModified *time.Time
}

// ExerciseRepo provides owner-scoped access to the `exercises` table.
type ExerciseRepo struct {
	db *sql.DB
}

func NewExerciseRepo(db *sql.DB) *ExerciseRepo {
	return &ExerciseRepo{db: db}
}

// Create inserts e and refreshes it from the database. The caller is
// responsible for checking that e.WorkoutID belongs to e.UserID.
func (r *ExerciseRepo) Create(ctx context.Context, e *model.Exercise) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO exercises (exercise_name, workout_id, user_id) VALUES (?, ?, ?)`,
		e.ExerciseName, e.WorkoutID, e.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByIDAndOwner(ctx, id, e.UserID)
	if err != nil {
		return err
	}
	*e = *got
	return nil
}

// ListByOwner returns the user's exercises ordered by id.
func (r *ExerciseRepo) ListByOwner(ctx context.Context, userID int64) ([]model.Exercise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOwner returns ErrExerciseNotFound when the exercise is missing
// or owned by another user.
func (r *ExerciseRepo) GetByIDAndOwner(ctx context.Context, id, userID int64) (*model.Exercise, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return e, nil
}

// UpdateByIDAndOwner applies p to the exercise.
func (r *ExerciseRepo) UpdateByIDAndOwner(ctx context.Context, id, userID int64, p ExercisePatch) error {
	sets := []string{}
	args := []any{}
	if p.ExerciseName != nil {
		sets = append(sets, "exercise_name = ?")
		args = append(args, *p.ExerciseName)
	}
	if p.DateModified != nil {
		sets = append(sets, "date_modified = ?")
		args = append(args, p.DateModified.UTC())
	} else {
		sets = append(sets, "date_modified = CURRENT_TIMESTAMP")
	}
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE exercises SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes an exercise and its sets in one transaction.
func (r *ExerciseRepo) DeleteByIDAndOwner(ctx context.Context, id, userID int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM exercise_sets WHERE exercise_id = ? AND user_id = ?`, id, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrExerciseNotFound
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(s rowScanner) (*model.Exercise, error) {
	var (
		e        model.Exercise
		modified sql.NullTime
	)
	if err := s.Scan(&e.ID, &e.ExerciseName, &e.DateCreated, &modified, &e.WorkoutID, &e.UserID); err != nil {
		return nil, err
	}
	if modified.Valid {
		t := modified.Time
		e.DateModified = &t
	}
	return &e, nil
}
