package handler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/liftlog/workout-api/internal/auth"
	"github.com/liftlog/workout-api/internal/model"
	"github.com/liftlog/workout-api/internal/queue"
	"github.com/liftlog/workout-api/internal/repository"
)

// memUsers is an in-memory auth.UserStore.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]model.User
	err    error
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]model.User{}} }

func (s *memUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	u, ok := s.byName[username]
	if !ok {
		return model.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (s *memUsers) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	for _, u := range s.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, auth.ErrUserNotFound
}

func (s *memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byName[username]
	return ok, s.err
}

func (s *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byName {
		if u.Email == email {
			return true, s.err
		}
	}
	return false, s.err
}

func (s *memUsers) Insert(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	s.nextID++
	u.ID = s.nextID
	u.DateCreated = time.Now().UTC().Truncate(time.Second)
	s.byName[u.Username] = u
	return u, nil
}

func (s *memUsers) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// memDB backs the three resource stores with cascading deletes like the
// MySQL repositories.
type memDB struct {
	mu        sync.Mutex
	nextID    int64
	workouts  map[int64]model.Workout
	exercises map[int64]model.Exercise
	sets      map[int64]model.ExerciseSet
	err       error // returned from every call when set
}

func newMemDB() *memDB {
	return &memDB{
		workouts:  map[int64]model.Workout{},
		exercises: map[int64]model.Exercise{},
		sets:      map[int64]model.ExerciseSet{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) setErr(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.err = err
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type workoutStore struct{ db *memDB }

func (s workoutStore) Create(_ context.Context, userID int64) (*model.Workout, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return nil, s.db.err
	}
	w := model.Workout{ID: s.db.id(), DateCreated: time.Now().UTC(), UserID: userID}
	s.db.workouts[w.ID] = w
	return &w, nil
}

func (s workoutStore) ListByOwner(_ context.Context, userID int64) ([]model.Workout, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return nil, s.db.err
	}
	out := []model.Workout{}
	for _, k := range sortedKeys(s.db.workouts) {
		if w := s.db.workouts[k]; w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s workoutStore) GetByIDAndOwner(_ context.Context, id, userID int64) (*model.Workout, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return nil, s.db.err
	}
	w, ok := s.db.workouts[id]
	if !ok || w.UserID != userID {
		return nil, repository.ErrWorkoutNotFound
	}
	return &w, nil
}

func (s workoutStore) DeleteByIDAndOwner(_ context.Context, id, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return s.db.err
	}
	w, ok := s.db.workouts[id]
	if !ok || w.UserID != userID {
		return repository.ErrWorkoutNotFound
	}
	for eid, e := range s.db.exercises {
		if e.WorkoutID == id {
			s.db.deleteExerciseLocked(eid)
		}
	}
	delete(s.db.workouts, id)
	return nil
}

func (db *memDB) deleteExerciseLocked(id int64) {
	for sid, st := range db.sets {
		if st.ExerciseID == id {
			delete(db.sets, sid)
		}
	}
	delete(db.exercises, id)
}

type exerciseStore struct{ db *memDB }

func (s exerciseStore) Create(_ context.Context, e *model.Exercise) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return s.db.err
	}
	e.ID = s.db.id()
	e.DateCreated = time.Now().UTC()
	s.db.exercises[e.ID] = *e
	return nil
}

func (s exerciseStore) ListByOwner(_ context.Context, userID int64) ([]model.Exercise, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return nil, s.db.err
	}
	out := []model.Exercise{}
	for _, k := range sortedKeys(s.db.exercises) {
		if e := s.db.exercises[k]; e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s exerciseStore) GetByIDAndOwner(_ context.Context, id, userID int64) (*model.Exercise, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return nil, s.db.err
	}
	e, ok := s.db.exercises[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrExerciseNotFound
	}
	return &e, nil
}

func (s exerciseStore) UpdateByIDAndOwner(_ context.Context, id, userID int64, p repository.ExercisePatch) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return s.db.err
	}
	e, ok := s.db.exercises[id]
	if !ok || e.UserID != userID {
		return repository.ErrExerciseNotFound
	}
	if p.ExerciseName != nil {
		e.ExerciseName = *p.ExerciseName
	}
	now := time.Now().UTC()
	if p.DateModified != nil {
		now = *p.DateModified
	}
	e.DateModified = &now
	s.db.exercises[id] = e
	return nil
}

func (s exerciseStore) DeleteByIDAndOwner(_ context.Context, id, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return s.db.err
	}
	e, ok := s.db.exercises[id]
	if !ok || e.UserID != userID {
		return repository.ErrExerciseNotFound
	}
	s.db.deleteExerciseLocked(id)
	return nil
}

type setStore struct{ db *memDB }

func (s setStore) Create(_ context.Context, st *model.ExerciseSet) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return s.db.err
	}
	st.ID = s.db.id()
	st.DateCreated = time.Now().UTC()
	s.db.sets[st.ID] = *st
	return nil
}

func (s setStore) ListByOwner(_ context.Context, userID int64) ([]model.ExerciseSet, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return nil, s.db.err
	}
	out := []model.ExerciseSet{}
	for _, k := range sortedKeys(s.db.sets) {
		if st := s.db.sets[k]; st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s setStore) GetByIDAndOwner(_ context.Context, id, userID int64) (*model.ExerciseSet, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return nil, s.db.err
	}
	st, ok := s.db.sets[id]
	if !ok || st.UserID != userID {
		return nil, repository.ErrSetNotFound
	}
	return &st, nil
}

func (s setStore) UpdateByIDAndOwner(_ context.Context, id, userID int64, p repository.SetPatch) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return s.db.err
	}
	st, ok := s.db.sets[id]
	if !ok || st.UserID != userID {
		return repository.ErrSetNotFound
	}
	if p.SetWeight != nil {
		st.SetWeight = *p.SetWeight
	}
	if p.SetRepetition != nil {
		st.SetRepetition = *p.SetRepetition
	}
	now := time.Now().UTC()
	if p.DateModified != nil {
		now = *p.DateModified
	}
	st.DateModified = &now
	s.db.sets[id] = st
	return nil
}

func (s setStore) DeleteByIDAndOwner(_ context.Context, id, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.err != nil {
		return s.db.err
	}
	st, ok := s.db.sets[id]
	if !ok || st.UserID != userID {
		return repository.ErrSetNotFound
	}
	delete(s.db.sets, id)
	return nil
}

// recPublisher records published events.
type recPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (p *recPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recPublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// stalledPublisher blocks every Publish until release is closed, like a
// broker that accepts the TCP connection and never answers.
type stalledPublisher struct {
	release chan struct{}
}

func (p *stalledPublisher) Publish(ctx context.Context, _ queue.ActivityEvent) error {
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
