package user

import (
	"context"
	"strings"
)

// Repository defines the lookup auth needs.
type Repository interface {
	GetUserByName(ctx context.Context, name string) (*User, error)
}

type memoryRepository struct {
	users map[string]User
}

// NewMemoryRepository creates a repository over a fixed roster.
func NewMemoryRepository(users []User) Repository {
	m := make(map[string]User, len(users))
	for _, u := range users {
		m[strings.ToLower(u.Name)] = u
	}
	return &memoryRepository{users: m}
}

func (r *memoryRepository) GetUserByName(ctx context.Context, name string) (*User, error) {
	u, ok := r.users[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
