package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/liftlog/workout-api/internal/model"
)

// WorkoutRepo provides owner-scoped access to the `workouts` table.
type WorkoutRepo struct {
	db *sql.DB
}

func NewWorkoutRepo(db *sql.DB) *WorkoutRepo {
	return &WorkoutRepo{db: db}
}

// Create inserts an empty workout for userID and reads it back so the
// caller receives the server-assigned date_created.
func (r *WorkoutRepo) Create(ctx context.Context, userID int64) (*model.Workout, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO workouts (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, id, userID)
}

// ListByOwner returns the user's workouts ordered by id.
func (r *WorkoutRepo) ListByOwner(ctx context.Context, userID int64) ([]model.Workout, error) {
	const q = `SELECT id, date_created, user_id FROM workouts WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Workout{}
	for rows.Next() {
		var w model.Workout
		if err := rows.Scan(&w.ID, &w.DateCreated, &w.UserID); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOwner returns ErrWorkoutNotFound when the workout is missing or
// owned by another user.
func (r *WorkoutRepo) GetByIDAndOwner(ctx context.Context, id, userID int64) (*model.Workout, error) {
	const q = `SELECT id, date_created, user_id FROM workouts WHERE id = ? AND user_id = ?`
	var w model.Workout
	if err := r.db.QueryRowContext(ctx, q, id, userID).Scan(&w.ID, &w.DateCreated, &w.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return &w, nil
}

// DeleteByIDAndOwner removes a workout together with its exercises and
// their sets in one transaction.
func (r *WorkoutRepo) DeleteByIDAndOwner(ctx context.Context, id, userID int64) (err error) {
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
		`DELETE s FROM exercise_sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE e.workout_id = ? AND e.user_id = ?`, id, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM exercises WHERE workout_id = ? AND user_id = ?`, id, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM workouts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrWorkoutNotFound
		return err
	}
	return nil
}
