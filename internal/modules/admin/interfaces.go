package admin

import (
	"context"
	"time"

	"dogsalon/internal/domain"
	"dogsalon/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, f repository.UserFilter) ([]domain.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

type BookingRepository interface {
	List(ctx context.Context, f repository.BookingFilter) ([]domain.BookingDetails, int64, error)
	Stats(ctx context.Context, now time.Time) (repository.BookingStats, error)
}

type ServiceCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type Notifier interface {
	AccountDeactivated(ctx context.Context, u *domain.User)
}
