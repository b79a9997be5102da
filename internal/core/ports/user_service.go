package ports

import (
	"context"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

// CreateUserInput carries the signup payload.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Age      int
	Role     string // empty defaults to "user"
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  *domain.User
}

// UserService defines use-case operations over user accounts.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
	Indicators(ctx context.Context) (*domain.UserIndicators, error)
}
