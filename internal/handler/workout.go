package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/model"
	"github.com/liftlog/workout-api/internal/queue"
	"github.com/liftlog/workout-api/internal/repository"
)

// WorkoutStore is the persistence used by WorkoutHandler.
// *repository.WorkoutRepo implements it.
type WorkoutStore interface {
	Create(ctx context.Context, userID int64) (*model.Workout, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Workout, error)
	GetByIDAndOwner(ctx context.Context, id, userID int64) (*model.Workout, error)
	DeleteByIDAndOwner(ctx context.Context, id, userID int64) error
}

// WorkoutHandler serves /api/workout. Every query is scoped to the caller.
type WorkoutHandler struct {
	Workouts WorkoutStore
	Events   queue.Publisher
}

func NewWorkoutHandler(w WorkoutStore, events queue.Publisher) *WorkoutHandler {
	return &WorkoutHandler{Workouts: w, Events: events}
}

const workoutNotFound = "Workout not found"

func (h *WorkoutHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Workouts.ListByOwner(ctx, id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Create starts an empty workout; the request body is ignored.
func (h *WorkoutHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	w, err := h.Workouts.Create(ctx, id.ID)
	if err != nil {
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.WorkoutCreated, id.ID, w.ID))
	return created(c, w.ID, w)
}

func (h *WorkoutHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	wid, ok := pathID(c, "workout_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, workoutNotFound)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	w, err := h.Workouts.GetByIDAndOwner(ctx, wid, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			return resourceError(c, http.StatusNotFound, workoutNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// Delete removes the workout along with its exercises and sets.
func (h *WorkoutHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	wid, ok := pathID(c, "workout_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, workoutNotFound)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Workouts.DeleteByIDAndOwner(ctx, wid, id.ID); err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			return resourceError(c, http.StatusNotFound, workoutNotFound)
		}
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.WorkoutDeleted, id.ID, wid))
	return c.NoContent(http.StatusNoContent)
}
