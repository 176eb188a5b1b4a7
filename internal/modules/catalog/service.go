package catalog

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/pagination"
	"dogsalon/internal/pkg/validator"
	"dogsalon/internal/repository"

	"go.uber.org/zap"
)

const photoDir = "services"

type Service struct {
	services ServiceRepository
	bookings BookingCounter
	photos   PhotoStore
	cache    SlotCache
	log      *zap.Logger
	now      func() time.Time
}

func NewService(services ServiceRepository, bookings BookingCounter, photos PhotoStore, cache SlotCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		services: services,
		bookings: bookings,
		photos:   photos,
		cache:    cache,
		log:      log.Named("catalog"),
		now:      time.Now,
	}
}

// ListPublic returns active services ordered by name, PageSize per page.
func (s *Service) ListPublic(ctx context.Context, page int) (pagination.Page[domain.Service], error) {
	page, size := pagination.Normalize(page, pagination.PageSize, pagination.PageSize)
	active := true
	items, total, err := s.services.List(ctx, repository.ServiceFilter{
		Active: &active,
		ByName: true,
		Limit:  size,
		Offset: pagination.Offset(page, size),
	})
	if err != nil {
		return pagination.Page[domain.Service]{}, err
	}
	return pagination.New(items, page, size, total), nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	svc, err := s.services.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !svc.Active {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

type AdminFilter struct {
	Active *bool
	Search string
	Limit  int
	Offset int
}

func (s *Service) ListAdmin(ctx context.Context, f AdminFilter) ([]domain.Service, int64, error) {
	_, limit := pagination.Normalize(1, f.Limit, pagination.DefaultLimit)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	return s.services.List(ctx, repository.ServiceFilter{
		Active: f.Active,
		Search: f.Search,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return svc, nil
}

func (s *Service) Create(ctx context.Context, req CreateServiceRequest) (*domain.Service, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(req.NameEN)
	}
	if slug == "" {
		return nil, &ValidationError{Fields: map[string]string{"Slug": "required"}}
	}

	svc := &domain.Service{
		Slug:            slug,
		NameEN:          strings.TrimSpace(req.NameEN),
		NameHU:          strings.TrimSpace(req.NameHU),
		DescriptionEN:   req.DescriptionEN,
		DescriptionHU:   req.DescriptionHU,
		PriceDefault:    req.PriceDefault,
		PriceSmall:      req.PriceSmall,
		PriceBig:        req.PriceBig,
		DurationMinutes: req.DurationMinutes,
		Active:          req.Active == nil || *req.Active,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create service: %w", err)
	}
	s.log.Info("service created", zap.Int64("service_id", svc.ID), zap.String("slug", svc.Slug))
	return svc, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateServiceRequest) (*domain.Service, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		slug := Slugify(*req.Slug)
		if slug == "" {
			return nil, &ValidationError{Fields: map[string]string{"Slug": "required"}}
		}
		svc.Slug = slug
	}
	if req.NameEN != nil {
		svc.NameEN = strings.TrimSpace(*req.NameEN)
	}
	if req.NameHU != nil {
		svc.NameHU = strings.TrimSpace(*req.NameHU)
	}
	if req.DescriptionEN != nil {
		svc.DescriptionEN = *req.DescriptionEN
	}
	if req.DescriptionHU != nil {
		svc.DescriptionHU = *req.DescriptionHU
	}
	if req.PriceDefault != nil {
		svc.PriceDefault = *req.PriceDefault
	}
	if req.PriceSmall != nil {
		svc.PriceSmall = req.PriceSmall
	}
	if req.ClearPriceSmall {
		svc.PriceSmall = nil
	}
	if req.PriceBig != nil {
		svc.PriceBig = req.PriceBig
	}
	if req.ClearPriceBig {
		svc.PriceBig = nil
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.services.Update(ctx, svc); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrSlugTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	if req.DurationMinutes != nil || req.Active != nil {
		s.dropSlots(ctx, svc.ID)
	}
	return svc, nil
}

// Delete removes a service that has no upcoming live bookings. Services with
// bookings should be deactivated instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.bookings.CountUpcomingForService(ctx, id, s.now())
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if n > 0 {
		return ErrServiceHasBookings
	}

	if err := s.services.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.removePhoto(ctx, svc.Photo)
	s.dropSlots(ctx, id)
	s.log.Info("service deleted", zap.Int64("service_id", id))
	return nil
}

// SetPhoto stores an uploaded image and replaces the previous photo.
func (s *Service) SetPhoto(ctx context.Context, id int64, fh *multipart.FileHeader) (*domain.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	img, err := s.photos.Save(ctx, photoDir, fh)
	if err != nil {
		return nil, err
	}

	old := svc.Photo
	svc.Photo = img.URL
	if err := s.services.Update(ctx, svc); err != nil {
		_ = s.photos.Delete(ctx, photoDir, img.Name)
		return nil, fmt.Errorf("save photo: %w", err)
	}
	s.removePhoto(ctx, old)
	return svc, nil
}

func (s *Service) removePhoto(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.photos.Delete(ctx, photoDir, path.Base(url)); err != nil {
		s.log.Warn("remove old photo", zap.String("url", url), zap.Error(err))
	}
}

// dropSlots forgets cached slot lists of a service whose duration or
// visibility changed.
func (s *Service) dropSlots(ctx context.Context, serviceID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, fmt.Sprintf("slots:%d:", serviceID)); err != nil {
		s.log.Warn("drop cached slots", zap.Int64("service_id", serviceID), zap.Error(err))
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrServiceNotFound
	}
	return err
}
