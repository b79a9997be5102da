package ports

import (
	"context"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// A missing record is signalled with domain.ErrUserNotFound, never a raw
// driver error, so the service layer can choose the HTTP status.
type UserRepository interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail returns the user including its password hash; it backs
	// login and the email-uniqueness pre-check.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update persists the already-merged user document.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
