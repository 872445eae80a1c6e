package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/liftlog/workout-api/internal/model"
)

// memStore is an in-memory UserStore for tests.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]model.User
	err    error // returned from every call when set
}

func newMemStore() *memStore {
	return &memStore{users: map[string]model.User{}}
}

func (s *memStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	u, ok := s.users[username]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (s *memStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.users[username]
	return ok, nil
}

func (s *memStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Insert(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	if _, ok := s.users[u.Username]; ok {
		return model.User{}, ErrUsernameTaken
	}
	s.nextID++
	u.ID = s.nextID
	u.DateCreated = time.Now().UTC()
	s.users[u.Username] = u
	return u, nil
}

func (s *memStore) delete(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

var errStoreDown = errors.New("store down")
