package database

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"twoknow/models"
)

// ErrDuplicateUser is returned by the in-memory store on a unique violation.
var ErrDuplicateUser = errors.New("user already exists")

// MemoryUserStore keeps users in process memory. It backs development runs
// without Postgres and the handler tests.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*models.User
	now    func() time.Time
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		nextID: 1,
		users:  make(map[int64]*models.User),
		now:    time.Now,
	}
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return ErrDuplicateUser
		}
	}
	u.ID = s.nextID
	u.CreatedAt = s.now().UTC()
	s.nextID++
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return strings.EqualFold(u.Email, strings.TrimSpace(email)) })
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Username == username })
}

func (s *MemoryUserStore) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	return s.update(id, func(u *models.User) { t := at; u.LastLogin = &t })
}

func (s *MemoryUserStore) UpdateFullName(_ context.Context, id int64, fullName string) error {
	return s.update(id, func(u *models.User) { u.FullName = fullName })
}

func (s *MemoryUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return s.update(id, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (s *MemoryUserStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *MemoryUserStore) Ping(context.Context) error { return nil }

func (s *MemoryUserStore) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) update(id int64, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	fn(u)
	return nil
}
