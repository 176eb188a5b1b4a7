package booking

import (
	"context"
	"time"

	"dogsalon/internal/domain"
	"dogsalon/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking, gap time.Duration) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListLiveForService(ctx context.Context, serviceID int64, from, to time.Time) ([]domain.Booking, error)
	Cancel(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context, f repository.BookingFilter) ([]domain.BookingDetails, int64, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type ContactRepository interface {
	Get(ctx context.Context) (*domain.Contact, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier is told about booking changes. Delivery is best effort.
type Notifier interface {
	BookingCreated(ctx context.Context, b *domain.Booking, svc *domain.Service, customer *domain.User)
	BookingCancelled(ctx context.Context, b *domain.Booking, svc *domain.Service, customer *domain.User, byCustomer bool)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
