package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/workout-api/internal/model"
)

var exerciseCols = []string{"id", "exercise_name", "date_created", "date_modified", "workout_id", "user_id"}

func TestExerciseRepo_CreateReadsBack(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO exercises \(exercise_name, workout_id, user_id\)`).
		WithArgs("Squat", int64(4), int64(1)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(`FROM exercises WHERE id = \? AND user_id = \?`).
		WithArgs(int64(9), int64(1)).
		WillReturnRows(sqlmock.NewRows(exerciseCols).AddRow(9, "Squat", now, nil, 4, 1))

	e := &model.Exercise{ExerciseName: "Squat", WorkoutID: 4, UserID: 1}
	require.NoError(t, NewExerciseRepo(db).Create(context.Background(), e))
	assert.Equal(t, int64(9), e.ID)
	assert.Equal(t, now, e.DateCreated)
	assert.Nil(t, e.DateModified)
}

func TestExerciseRepo_ListScansNullableModified(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	mock.ExpectQuery(`FROM exercises WHERE user_id = \? ORDER BY id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(exerciseCols).
			AddRow(1, "Bench", now, nil, 4, 1).
			AddRow(2, "Row", now, later, 4, 1))

	out, err := NewExerciseRepo(db).ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].DateModified)
	require.NotNil(t, out[1].DateModified)
	assert.Equal(t, later, *out[1].DateModified)
}

func TestExerciseRepo_UpdateDefaultsModifiedToNow(t *testing.T) {
	db, mock := newMock(t)
	name := "Front squat"
	mock.ExpectExec(`UPDATE exercises SET exercise_name = \?, date_modified = CURRENT_TIMESTAMP WHERE id = \? AND user_id = \?`).
		WithArgs(name, int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewExerciseRepo(db).UpdateByIDAndOwner(context.Background(), 3, 1, ExercisePatch{ExerciseName: &name})
	require.NoError(t, err)
}

func TestExerciseRepo_UpdateExplicitModified(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE exercises SET date_modified = \? WHERE id = \? AND user_id = \?`).
		WithArgs(at, int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewExerciseRepo(db).UpdateByIDAndOwner(context.Background(), 3, 1, ExercisePatch{DateModified: &at})
	require.NoError(t, err)
}

func TestExerciseRepo_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	name := "x"
	mock.ExpectExec(`UPDATE exercises`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewExerciseRepo(db).UpdateByIDAndOwner(context.Background(), 3, 2, ExercisePatch{ExerciseName: &name})
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseRepo_UpdateRowsAffectedError(t *testing.T) {
	db, mock := newMock(t)
	name := "Squat"
	boom := errors.New("rows affected unavailable")
	mock.ExpectExec(`UPDATE exercises`).WillReturnResult(sqlmock.NewErrorResult(boom))

	err := NewExerciseRepo(db).UpdateByIDAndOwner(context.Background(), 3, 1, ExercisePatch{ExerciseName: &name})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseRepo_DeleteRemovesSetsFirst(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM exercise_sets WHERE exercise_id = \? AND user_id = \?`).
		WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM exercises WHERE id = \? AND user_id = \?`).
		WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewExerciseRepo(db).DeleteByIDAndOwner(context.Background(), 3, 1))
}

func TestExerciseRepo_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM exercise_sets`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM exercises`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewExerciseRepo(db).DeleteByIDAndOwner(context.Background(), 3, 1)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
