package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/model"
	"github.com/liftlog/workout-api/internal/queue"
	"github.com/liftlog/workout-api/internal/repository"
)

// ExerciseStore is the persistence used by ExerciseHandler.
// *repository.ExerciseRepo implements it.
type ExerciseStore interface {
	Create(ctx context.Context, e *model.Exercise) error
	ListByOwner(ctx context.Context, userID int64) ([]model.Exercise, error)
	GetByIDAndOwner(ctx context.Context, id, userID int64) (*model.Exercise, error)
	UpdateByIDAndOwner(ctx context.Context, id, userID int64, p repository.ExercisePatch) error
	DeleteByIDAndOwner(ctx context.Context, id, userID int64) error
}

// ExerciseHandler serves /api/exercise. Workouts is consulted to make sure a
// new exercise is attached to one of the caller's own workouts.
type ExerciseHandler struct {
	Exercises ExerciseStore
	Workouts  WorkoutStore
	Events    queue.Publisher
}

func NewExerciseHandler(e ExerciseStore, w WorkoutStore, events queue.Publisher) *ExerciseHandler {
	return &ExerciseHandler{Exercises: e, Workouts: w, Events: events}
}

const exerciseNotFound = "Exercise not found"

type exerciseJSON struct {
	ID           int64      `json:"id"`
	ExerciseName string     `json:"exercise_name"`
	DateCreated  time.Time  `json:"date_created"`
	DateModified *time.Time `json:"date_modified,omitempty"`
	WorkoutID    int64      `json:"workout_id"`
	UserID       int64      `json:"user_id"`
}

func serializeExercise(e model.Exercise) exerciseJSON {
	return exerciseJSON{
		ID:           e.ID,
		ExerciseName: sanitizeText(e.ExerciseName),
		DateCreated:  e.DateCreated,
		DateModified: e.DateModified,
		WorkoutID:    e.WorkoutID,
		UserID:       e.UserID,
	}
}

type createExerciseReq struct {
	WorkoutID    *int64  `json:"workout_id"`
	ExerciseName *string `json:"exercise_name"`
}

type patchExerciseReq struct {
	ExerciseName *string    `json:"exercise_name"`
	DateModified *time.Time `json:"date_modified"`
}

func (h *ExerciseHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Exercises.ListByOwner(ctx, id.ID)
	if err != nil {
		return err
	}
	out := make([]exerciseJSON, 0, len(list))
	for _, e := range list {
		out = append(out, serializeExercise(e))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ExerciseHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createExerciseReq
	if err := c.Bind(&req); err != nil {
		return resourceError(c, http.StatusBadRequest, "Invalid request")
	}
	switch {
	case req.WorkoutID == nil:
		return resourceError(c, http.StatusBadRequest, "Missing 'workout_id' in request body")
	case req.ExerciseName == nil || *req.ExerciseName == "":
		return resourceError(c, http.StatusBadRequest, "Missing 'exercise_name' in request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Workouts.GetByIDAndOwner(ctx, *req.WorkoutID, id.ID); err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			return resourceError(c, http.StatusNotFound, workoutNotFound)
		}
		return err
	}

	e := &model.Exercise{ExerciseName: *req.ExerciseName, WorkoutID: *req.WorkoutID, UserID: id.ID}
	if err := h.Exercises.Create(ctx, e); err != nil {
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.ExerciseCreated, id.ID, e.ID))
	return created(c, e.ID, serializeExercise(*e))
}

func (h *ExerciseHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	eid, ok := pathID(c, "exercise_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, exerciseNotFound)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Exercises.GetByIDAndOwner(ctx, eid, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrExerciseNotFound) {
			return resourceError(c, http.StatusNotFound, exerciseNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, serializeExercise(*e))
}

// Update renames an exercise and/or sets its modification time. At least one
// of exercise_name and date_modified must be present.
func (h *ExerciseHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	eid, ok := pathID(c, "exercise_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, exerciseNotFound)
	}
	var req patchExerciseReq
	if err := c.Bind(&req); err != nil {
		return resourceError(c, http.StatusBadRequest, "Invalid request")
	}
	if req.ExerciseName != nil && *req.ExerciseName == "" {
		req.ExerciseName = nil
	}
	if req.ExerciseName == nil && req.DateModified == nil {
		return resourceError(c, http.StatusBadRequest, "Invalid request")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err = h.Exercises.UpdateByIDAndOwner(ctx, eid, id.ID, repository.ExercisePatch{
		ExerciseName: req.ExerciseName,
		DateModified: req.DateModified,
	})
	if err != nil {
		if errors.Is(err, repository.ErrExerciseNotFound) {
			return resourceError(c, http.StatusNotFound, exerciseNotFound)
		}
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.ExerciseUpdated, id.ID, eid))
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the exercise and its sets.
func (h *ExerciseHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	eid, ok := pathID(c, "exercise_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, exerciseNotFound)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Exercises.DeleteByIDAndOwner(ctx, eid, id.ID); err != nil {
		if errors.Is(err, repository.ErrExerciseNotFound) {
			return resourceError(c, http.StatusNotFound, exerciseNotFound)
		}
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.ExerciseDeleted, id.ID, eid))
	return c.NoContent(http.StatusNoContent)
}
