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

// SetStore is the persistence used by SetHandler. *repository.SetRepo
// implements it.
type SetStore interface {
	Create(ctx context.Context, s *model.ExerciseSet) error
	ListByOwner(ctx context.Context, userID int64) ([]model.ExerciseSet, error)
	GetByIDAndOwner(ctx context.Context, id, userID int64) (*model.ExerciseSet, error)
	UpdateByIDAndOwner(ctx context.Context, id, userID int64, p repository.SetPatch) error
	DeleteByIDAndOwner(ctx context.Context, id, userID int64) error
}

// SetHandler serves /api/set.
type SetHandler struct {
	Sets      SetStore
	Exercises ExerciseStore
	Events    queue.Publisher
}

func NewSetHandler(s SetStore, e ExerciseStore, events queue.Publisher) *SetHandler {
	return &SetHandler{Sets: s, Exercises: e, Events: events}
}

const setNotFound = "Exercise set not found"

type setJSON struct {
	ID            int64      `json:"id"`
	SetWeight     float64    `json:"set_weight"`
	SetRepetition int        `json:"set_repetition"`
	DateCreated   time.Time  `json:"date_created"`
	DateModified  *time.Time `json:"date_modified,omitempty"`
	ExerciseID    int64      `json:"exercise_id"`
	UserID        int64      `json:"user_id"`
}

func serializeSet(s model.ExerciseSet) setJSON {
	return setJSON{
		ID:            s.ID,
		SetWeight:     s.SetWeight,
		SetRepetition: s.SetRepetition,
		DateCreated:   s.DateCreated,
		DateModified:  s.DateModified,
		ExerciseID:    s.ExerciseID,
		UserID:        s.UserID,
	}
}

type createSetReq struct {
	ExerciseID    *int64   `json:"exercise_id"`
	SetWeight     *float64 `json:"set_weight"`
	SetRepetition *int     `json:"set_repetition"`
}

type patchSetReq struct {
	SetWeight     *float64   `json:"set_weight"`
	SetRepetition *int       `json:"set_repetition"`
	DateModified  *time.Time `json:"date_modified"`
}

func (h *SetHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Sets.ListByOwner(ctx, id.ID)
	if err != nil {
		return err
	}
	out := make([]setJSON, 0, len(list))
	for _, s := range list {
		out = append(out, serializeSet(s))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SetHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createSetReq
	if err := c.Bind(&req); err != nil {
		return resourceError(c, http.StatusBadRequest, "Invalid request")
	}
	switch {
	case req.ExerciseID == nil:
		return resourceError(c, http.StatusBadRequest, "Missing 'exercise_id' in request body")
	case req.SetWeight == nil:
		return resourceError(c, http.StatusBadRequest, "Missing 'set_weight' in request body")
	case req.SetRepetition == nil:
		return resourceError(c, http.StatusBadRequest, "Missing 'set_repetition' in request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Exercises.GetByIDAndOwner(ctx, *req.ExerciseID, id.ID); err != nil {
		if errors.Is(err, repository.ErrExerciseNotFound) {
			return resourceError(c, http.StatusNotFound, exerciseNotFound)
		}
		return err
	}

	s := &model.ExerciseSet{
		SetWeight:     *req.SetWeight,
		SetRepetition: *req.SetRepetition,
		ExerciseID:    *req.ExerciseID,
		UserID:        id.ID,
	}
	if err := h.Sets.Create(ctx, s); err != nil {
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.SetCreated, id.ID, s.ID))
	return created(c, s.ID, serializeSet(*s))
}

func (h *SetHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	sid, ok := pathID(c, "set_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, setNotFound)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Sets.GetByIDAndOwner(ctx, sid, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSetNotFound) {
			return resourceError(c, http.StatusNotFound, setNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, serializeSet(*s))
}

// Update changes weight, repetitions and/or the modification time of a set.
func (h *SetHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	sid, ok := pathID(c, "set_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, setNotFound)
	}
	var req patchSetReq
	if err := c.Bind(&req); err != nil {
		return resourceError(c, http.StatusBadRequest, "Invalid request")
	}
	if req.SetWeight == nil && req.SetRepetition == nil && req.DateModified == nil {
		return resourceError(c, http.StatusBadRequest, "Invalid request")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err = h.Sets.UpdateByIDAndOwner(ctx, sid, id.ID, repository.SetPatch{
		SetWeight:     req.SetWeight,
		SetRepetition: req.SetRepetition,
		DateModified:  req.DateModified,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSetNotFound) {
			return resourceError(c, http.StatusNotFound, setNotFound)
		}
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.SetUpdated, id.ID, sid))
	return c.NoContent(http.StatusNoContent)
}

func (h *SetHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	sid, ok := pathID(c, "set_id")
	if !ok {
		return resourceError(c, http.StatusNotFound, setNotFound)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Sets.DeleteByIDAndOwner(ctx, sid, id.ID); err != nil {
		if errors.Is(err, repository.ErrSetNotFound) {
			return resourceError(c, http.StatusNotFound, setNotFound)
		}
		return err
	}
	publish(c, h.Events, queue.NewActivityEvent(queue.SetDeleted, id.ID, sid))
	return c.NoContent(http.StatusNoContent)
}
