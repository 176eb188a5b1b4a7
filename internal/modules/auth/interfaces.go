package auth

import (
	"context"

	"dogsalon/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
	GenerateActivationToken(userID int64) (string, error)
	ValidateActivationToken(token string) (int64, error)
}

type Notifier interface {
	ActivationRequested(ctx context.Context, u *domain.User, link string)
}
