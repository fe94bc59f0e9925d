package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests. It mirrors the filter
// and patch semantics of BunStore, including the updated_at stamp.
type MemoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]*User)}
}

func (s *MemoryStore) FindOne(_ context.Context, filter Filter) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if matches(u, filter) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertOne(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}

	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *MemoryStore) UpdateOne(_ context.Context, filter Filter, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if !matches(u, filter) {
			continue
		}
		applyPatch(u, patch)
		u.UpdatedAt = time.Now()
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteOne(_ context.Context, filter Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if matches(u, filter) {
			delete(s.users, id)
			return nil
		}
	}
	return nil
}

func matches(u *User, f Filter) bool {
	if f.ID != nil && u.ID != *f.ID {
		return false
	}
	if f.Email != nil && u.Email != *f.Email {
		return false
	}
	if f.Username != nil && u.Username != *f.Username {
		return false
	}
	if f.Password != nil && u.Password != *f.Password {
		return false
	}
	return true
}

func applyPatch(u *User, p Patch) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = *p.DateOfBirth
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.CoverPhoto != nil {
		u.CoverPhoto = *p.CoverPhoto
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.EmailVerifyToken != nil {
		u.EmailVerifyToken = *p.EmailVerifyToken
	}
	if p.ForgotPasswordToken != nil {
		u.ForgotPasswordToken = *p.ForgotPasswordToken
	}
	if p.Verify != nil {
		u.Verify = *p.Verify
	}
}
