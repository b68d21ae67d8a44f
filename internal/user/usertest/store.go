// Package usertest provides an in-memory user.Store for tests.
package usertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/timster/go-api/internal/resource"
	"github.com/timster/go-api/internal/user"
)

// MemoryStore implements user.Store with the same contract as the Postgres
// repository: insertion-ordered listing, ErrNotFound for missing keys, and
// DuplicateError for uniqueness violations at save time.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*user.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[int64]*user.User{}}
}

func (s *MemoryStore) All(ctx context.Context) ([]*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Save(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.users {
		if other.ID == u.ID {
			continue
		}
		switch {
		case other.Username == u.Username:
			return &resource.DuplicateError{Field: "username"}
		case other.Email == u.Email:
			return &resource.DuplicateError{Field: "email"}
		case other.APIKey == u.APIKey:
			return &resource.DuplicateError{Field: "api_key"}
		}
	}

	now := time.Now()
	u.UpdatedAt = now
	if u.ID == 0 {
		s.nextID++
		u.ID = s.nextID
		u.CreatedAt = now
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return resource.ErrNotFound
	}
	delete(s.users, u.ID)
	return nil
}

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, resource.ErrNotFound
}

func (s *MemoryStore) UsernameOwner(ctx context.Context, value string) (int64, error) {
	return s.owner(func(u *user.User) string { return u.Username }, value)
}

func (s *MemoryStore) EmailOwner(ctx context.Context, value string) (int64, error) {
	return s.owner(func(u *user.User) string { return u.Email }, value)
}

func (s *MemoryStore) APIKeyOwner(ctx context.Context, value string) (int64, error) {
	return s.owner(func(u *user.User) string { return u.APIKey }, value)
}

func (s *MemoryStore) owner(field func(*user.User) string, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if field(u) == value {
			return u.ID, nil
		}
	}
	return 0, resource.ErrNotFound
}
