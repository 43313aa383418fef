package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/vectorvault/internal/domain"
)

// MemoryUserRepository is an in-memory UserRepository with the same
// uniqueness semantics as the Postgres implementation. It backs tests and
// local runs without a database.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by username
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return ErrDuplicateUsername
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			user.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryUserRepository) SetActive(_ context.Context, username string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return ErrNotFound
	}
	user.IsActive = active
	user.UpdatedAt = time.Now()
	return nil
}

// Delete removes a user outright. Only tests exercise this; the service has
// no delete path.
func (r *MemoryUserRepository) Delete(_ context.Context, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, username)
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
