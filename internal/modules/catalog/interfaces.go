package catalog

import (
	"context"
	"mime/multipart"
	"time"

	"dogsalon/internal/domain"
	"dogsalon/internal/modules/gallery"
	"dogsalon/internal/repository"
)

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, int64, error)
}

type BookingCounter interface {
	CountUpcomingForService(ctx context.Context, serviceID int64, now time.Time) (int64, error)
}

type PhotoStore interface {
	Save(ctx context.Context, dir string, fh *multipart.FileHeader) (*gallery.Image, error)
	Delete(ctx context.Context, dir, name string) error
}

type SlotCache interface {
	DeletePrefix(ctx context.Context, prefix string) error
}
