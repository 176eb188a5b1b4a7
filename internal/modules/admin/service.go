package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/pagination"
	"dogsalon/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrSelfDeactivate = errors.New("admins cannot deactivate themselves")
	ErrInvalidFrom    = errors.New("from must be YYYY-MM-DD")
)

type Service struct {
	users    UserRepository
	bookings BookingRepository
	services ServiceCounter
	notifier Notifier
	loc      *time.Location
	log      *zap.Logger
	now      func() time.Time
}

func NewService(users UserRepository, bookings BookingRepository, services ServiceCounter, notifier Notifier, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:    users,
		bookings: bookings,
		services: services,
		notifier: notifier,
		loc:      loc,
		log:      log.Named("admin"),
		now:      time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListBookings searches all bookings. Without cancelled or include_cancelled
// only live bookings are returned.
func (s *Service) ListBookings(ctx context.Context, q BookingQuery) (pagination.Page[domain.BookingDetails], error) {
	page, size := pagination.Normalize(q.Page, q.Limit, pagination.PageSize)

	f := repository.BookingFilter{
		UserQuery: strings.TrimSpace(q.User),
		Limit:     size,
		Offset:    pagination.Offset(page, size),
	}

	switch {
	case q.Cancelled != nil:
		v := *q.Cancelled
		f.Cancelled = &v
	case !q.IncludeCancelled:
		live := false
		f.Cancelled = &live
	}

	if q.From != "" {
		from, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(q.From), s.loc)
		if err != nil {
			return pagination.Page[domain.BookingDetails]{}, ErrInvalidFrom
		}
		f.From = &from
	}
	if q.Active {
		today := s.today()
		if f.From == nil || f.From.Before(today) {
			f.From = &today
		}
	}

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return pagination.Page[domain.BookingDetails]{}, fmt.Errorf("list bookings: %w", err)
	}
	return pagination.New(items, page, size, total), nil
}

func (s *Service) ListUsers(ctx context.Context, q UserQuery) (pagination.Page[domain.User], error) {
	page, size := pagination.Normalize(q.Page, q.Limit, pagination.PageSize)

	items, total, err := s.users.List(ctx, repository.UserFilter{
		Active: q.Active,
		Search: q.Search,
		Limit:  size,
		Offset: pagination.Offset(page, size),
	})
	if err != nil {
		return pagination.Page[domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return pagination.New(items, page, size, total), nil
}

// Deactivate blocks the user from logging in and e-mails them.
// Existing bookings are left untouched.
func (s *Service) Deactivate(ctx context.Context, adminID, userID int64) (*domain.User, error) {
	if adminID == userID {
		return nil, ErrSelfDeactivate
	}
	u, err := s.setActive(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	s.log.Info("user deactivated", zap.Int64("user_id", userID), zap.Int64("admin_id", adminID))
	s.notifier.AccountDeactivated(ctx, u)
	return u, nil
}

func (s *Service) Activate(ctx context.Context, adminID, userID int64) (*domain.User, error) {
	u, err := s.setActive(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	s.log.Info("user activated", zap.Int64("user_id", userID), zap.Int64("admin_id", adminID))
	return u, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	services, err := s.services.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count services: %w", err)
	}
	bookings, err := s.bookings.Stats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return &Stats{
		Users:             users,
		ActiveServices:    services,
		UpcomingBookings:  bookings.Upcoming,
		CancelledBookings: bookings.Cancelled,
	}, nil
}

func (s *Service) setActive(ctx context.Context, userID int64, active bool) (*domain.User, error) {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}
