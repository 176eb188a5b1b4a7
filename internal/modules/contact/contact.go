// Package contact manages the salon's single contact record and its weekly
// opening hours, and forwards callback requests to the admin.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/validator"
	"dogsalon/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrNotFound      = errors.New("contact details not configured")
	ErrAlreadyExists = errors.New("contact details already exist")
	ErrUserNotFound  = errors.New("user not found")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

type Repository interface {
	Get(ctx context.Context) (*domain.Contact, error)
	Create(ctx context.Context, c *domain.Contact) error
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Notifier interface {
	CallbackRequested(ctx context.Context, u *domain.User)
}

// SlotCache holds computed slot lists, which depend on the opening hours.
type SlotCache interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

const slotKeyPrefix = "slots:"

type CreateRequest struct {
	Phone         string              `json:"phone" validate:"required,huphone"`
	Email         string              `json:"email" validate:"required,email,max=254"`
	Address       string              `json:"address" validate:"required,max=255"`
	GoogleMapsURL string              `json:"google_maps_url" validate:"omitempty,url,max=1000"`
	OpeningHours  domain.OpeningHours `json:"opening_hours"`
}

type UpdateRequest struct {
	Phone         *string             `json:"phone" validate:"omitempty,huphone"`
	Email         *string             `json:"email" validate:"omitempty,email,max=254"`
	Address       *string             `json:"address" validate:"omitempty,min=1,max=255"`
	GoogleMapsURL *string             `json:"google_maps_url" validate:"omitempty,url,max=1000"`
	OpeningHours  domain.OpeningHours `json:"opening_hours"`
}

type Service struct {
	repo     Repository
	users    UserRepository
	notifier Notifier
	cache    SlotCache
	log      *zap.Logger
}

func NewService(repo Repository, users UserRepository, notifier Notifier, cache SlotCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, users: users, notifier: notifier, cache: cache, log: log.Named("contact")}
}

func (s *Service) Get(ctx context.Context) (*domain.Contact, error) {
	c, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Contact, error) {
	fields := validator.Validate(req)
	hours, hourErrs := normalizeHours(req.OpeningHours)
	if fields = merge(fields, hourErrs); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	c := &domain.Contact{
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Address:       strings.TrimSpace(req.Address),
		GoogleMapsURL: strings.TrimSpace(req.GoogleMapsURL),
		OpeningHours:  hours,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create contact: %w", err)
	}
	s.flush(ctx)
	return c, nil
}

// Update changes the present fields. A non-null opening_hours replaces the
// whole week.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*domain.Contact, error) {
	fields := validator.Validate(req)
	var hours domain.OpeningHours
	if req.OpeningHours != nil {
		var hourErrs map[string]string
		hours, hourErrs = normalizeHours(req.OpeningHours)
		fields = merge(fields, hourErrs)
	}
	if fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	c, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Address != nil {
		c.Address = strings.TrimSpace(*req.Address)
	}
	if req.GoogleMapsURL != nil {
		c.GoogleMapsURL = strings.TrimSpace(*req.GoogleMapsURL)
	}
	if req.OpeningHours != nil {
		c.OpeningHours = hours
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if req.OpeningHours != nil {
		s.flush(ctx)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.flush(ctx)
	return nil
}

// RequestCallback asks the salon to phone the user back on the number in
// their profile.
func (s *Service) RequestCallback(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.log.Info("callback requested", zap.Int64("user_id", u.ID))
	s.notifier.CallbackRequested(ctx, u)
	return nil
}

func (s *Service) flush(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, slotKeyPrefix); err != nil {
		s.log.Warn("flush slot cache", zap.Error(err))
	}
}

// normalizeHours lowercases weekday keys and checks every day: both times
// empty (closed) or both HH:MM with open before close.
func normalizeHours(in domain.OpeningHours) (domain.OpeningHours, map[string]string) {
	out := make(domain.OpeningHours, len(in))
	var errs map[string]string
	fail := func(key, msg string) {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["OpeningHours."+key] = msg
	}

	known := make(map[string]bool, len(domain.Weekdays))
	for _, d := range domain.Weekdays {
		known[d] = true
	}

	for rawKey, h := range in {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		if !known[key] {
			fail(rawKey, "weekday")
			continue
		}
		h.Open, h.Close = strings.TrimSpace(h.Open), strings.TrimSpace(h.Close)
		if h.Open == "" && h.Close == "" {
			out[key] = h
			continue
		}
		open, err1 := domain.ParseClock(h.Open)
		closeAt, err2 := domain.ParseClock(h.Close)
		switch {
		case err1 != nil || err2 != nil:
			fail(key, "clock")
		case open >= closeAt:
			fail(key, "open_before_close")
		default:
			out[key] = h
		}
	}
	return out, errs
}

func merge(a, b map[string]string) map[string]string {
	if len(b) == 0 {
		return a
	}
	if a == nil {
		a = make(map[string]string, len(b))
	}
	for k, v := range b {
		a[k] = v
	}
	return a
}
