package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user storage.
// Point lookups return (nil, nil) when no record exists; absence is a
// result, not an error.
type Repository interface {
	Create(ctx context.Context, req *CreateUserRequest) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Create creates a new user in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == req.Email {
			return nil, ErrEmailTaken
		}
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Role:         req.Role,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: req.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[user.ID] = user
	return user, nil
}

// GetByID retrieves a user by id
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
