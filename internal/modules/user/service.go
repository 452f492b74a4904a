package user

import "context"

// Service defines the interface for roster lookups.
type Service interface {
	GetUser(ctx context.Context, name string) (*User, error)
	Len() int
}

type service struct {
	repo  Repository
	count int
}

// NewService creates a new user service over users.
func NewService(users []User) Service {
	return &service{repo: NewMemoryRepository(users), count: len(users)}
}

func (s *service) GetUser(ctx context.Context, name string) (*User, error) {
	return s.repo.GetUserByName(ctx, name)
}

func (s *service) Len() int { return s.count }
