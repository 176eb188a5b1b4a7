package booking

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

const dayLayout = "2006-01-02"

type Service struct {
	bookings BookingRepository
	services ServiceRepository
	contacts ContactRepository
	users    UserRepository
	notifier Notifier
	cache    Cache
	cfg      Settings
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	bookings BookingRepository,
	services ServiceRepository,
	contacts ContactRepository,
	users UserRepository,
	notifier Notifier,
	cache Cache,
	cfg Settings,
	log *zap.Logger,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		bookings: bookings,
		services: services,
		contacts: contacts,
		users:    users,
		notifier: notifier,
		cache:    cache,
		cfg:      cfg,
		log:      log.Named("booking"),
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetAvailability lists the free start times of an active service on day
// (YYYY-MM-DD, salon time zone). Past days and days beyond the horizon are
// rejected before any slot is computed.
func (s *Service) GetAvailability(ctx context.Context, serviceID int64, day string) (*Availability, error) {
	svc, err := s.activeService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	d, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}
	return s.availability(ctx, svc, d, true)
}

func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	size := domain.DogSize(strings.ToLower(strings.TrimSpace(req.DogSize)))
	if !size.Valid() || strings.TrimSpace(req.Comment) == "" {
		return nil, ErrValidation
	}

	svc, err := s.activeService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	d, err := s.parseDay(req.Day)
	if err != nil {
		return nil, err
	}

	avail, err := s.availability(ctx, svc, d, false)
	if err != nil {
		return nil, err
	}

	var chosen *SlotOption
	for i := range avail.Slots {
		if avail.Slots[i].Value == strings.TrimSpace(req.Time) {
			chosen = &avail.Slots[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrSlotUnavailable
	}

	b := &domain.Booking{
		ServiceID: svc.ID,
		UserID:    userID,
		DogSize:   size,
		Price:     svc.PriceFor(size),
		StartTime: chosen.Start.UTC(),
		EndTime:   chosen.Start.Add(svc.Duration()).UTC(),
		Comment:   strings.TrimSpace(req.Comment),
	}

	if err := s.bookings.Create(ctx, b, s.cfg.Gap); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrOverbooking
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrServiceNotFound
		default:
			return nil, fmt.Errorf("create booking: %w", err)
		}
	}

	s.invalidate(ctx, svc.ID, b.StartTime)
	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("service_id", svc.ID),
		zap.Int64("user_id", userID),
		zap.Time("start", b.StartTime))

	customer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("load customer for notification", zap.Int64("user_id", userID), zap.Error(err))
	}
	s.notifier.BookingCreated(ctx, b, svc, customer)

	return b, nil
}

// CancelBooking cancels a booking. A customer may only cancel their own
// booking before it starts; an admin may cancel any live booking.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID int64, byAdmin bool) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !byAdmin && b.UserID != actorID {
		return nil, ErrForbidden
	}
	if b.Cancelled {
		return nil, ErrAlreadyCancelled
	}

	now := s.now()
	if !byAdmin && !b.StartTime.After(now) {
		return nil, ErrBookingStarted
	}

	if err := s.bookings.Cancel(ctx, b.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	cancelledAt := now.UTC()
	b.Cancelled = true
	b.CancelledAt = &cancelledAt

	s.invalidate(ctx, b.ServiceID, b.StartTime)
	s.log.Info("booking cancelled",
		zap.Int64("booking_id", b.ID),
		zap.Int64("actor_id", actorID),
		zap.Bool("by_admin", byAdmin))

	svc, err := s.services.GetByID(ctx, b.ServiceID)
	if err != nil {
		s.log.Warn("load service for notification", zap.Int64("service_id", b.ServiceID), zap.Error(err))
	}
	customer, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		s.log.Warn("load customer for notification", zap.Int64("user_id", b.UserID), zap.Error(err))
	}
	s.notifier.BookingCancelled(ctx, b, svc, customer, !byAdmin)

	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID, actorID int64, isAdmin bool) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !isAdmin && b.UserID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

// ListMyBookings returns the user's live bookings from today on.
func (s *Service) ListMyBookings(ctx context.Context, userID int64, page int) (pagination.Page[domain.BookingDetails], error) {
	page, size := pagination.Normalize(page, pagination.PageSize, pagination.PageSize)

	from := s.startOfDay(s.now())
	live := false
	items, total, err := s.bookings.List(ctx, repository.BookingFilter{
		UserID:    &userID,
		From:      &from,
		Cancelled: &live,
		Limit:     size,
		Offset:    pagination.Offset(page, size),
	})
	if err != nil {
		return pagination.Page[domain.BookingDetails]{}, err
	}
	return pagination.New(items, page, size, total), nil
}

func (s *Service) availability(ctx context.Context, svc *domain.Service, day time.Time, useCache bool) (*Availability, error) {
	out := &Availability{
		Date:      day.Format(dayLayout),
		ServiceID: svc.ID,
		Slots:     []SlotOption{},
	}

	open, close, ok, err := s.window(ctx, day)
	if err != nil {
		return nil, err
	}
	if !ok {
		out.Closed = true
		return out, nil
	}

	now := s.now()
	// Today's list depends on the clock, so only later days are cached.
	cacheable := useCache && s.cache != nil && day.After(s.startOfDay(now))
	key := cacheKey(svc.ID, day)
	if cacheable {
		var cached Availability
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warn("slot cache read", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	booked, err := s.bookings.ListLiveForService(ctx, svc.ID, open.Add(-s.cfg.Gap), close.Add(s.cfg.Gap))
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	busy := make([]TimeSlot, 0, len(booked))
	for _, b := range booked {
		busy = append(busy, TimeSlot{Start: b.StartTime, End: b.EndTime})
	}

	slots := AvailableSlots(SlotQuery{
		Open:     open,
		Close:    close,
		Duration: svc.Duration(),
		Step:     s.cfg.Step,
		Gap:      s.cfg.Gap,
		Busy:     busy,
		Now:      now,
	})
	for _, slot := range slots {
		start := slot.Start.In(s.cfg.Location)
		out.Slots = append(out.Slots, SlotOption{
			Value: start.Format("15:04"),
			Label: start.Format("15:04") + " - " + slot.End.In(s.cfg.Location).Format("15:04"),
			Start: start,
		})
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, key, out, s.cfg.CacheTTL); err != nil {
			s.log.Warn("slot cache write", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

// window resolves the operating window of day. Opening hours saved with the
// contact details win over the configured default.
func (s *Service) window(ctx context.Context, day time.Time) (time.Time, time.Time, bool, error) {
	hours := domain.DayHours{Open: s.cfg.DefaultOpen, Close: s.cfg.DefaultClose}

	contact, err := s.contacts.Get(ctx)
	switch {
	case err == nil:
		if len(contact.OpeningHours) > 0 {
			hours = contact.OpeningHours.For(day.Weekday())
		}
	case errors.Is(err, repository.ErrNotFound):
	default:
		return time.Time{}, time.Time{}, false, fmt.Errorf("load opening hours: %w", err)
	}

	return hours.Window(day, s.cfg.Location)
}

func (s *Service) activeService(ctx context.Context, id int64) (*domain.Service, error) {
	if id <= 0 {
		return nil, ErrServiceNotFound
	}
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.Active {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

func (s *Service) parseDay(day string) (time.Time, error) {
	d, err := time.ParseInLocation(dayLayout, strings.TrimSpace(day), s.cfg.Location)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	today := s.startOfDay(s.now())
	if d.Before(today) || d.After(today.AddDate(0, 0, s.cfg.HorizonDays)) {
		return time.Time{}, ErrDateOutOfRange
	}
	return d, nil
}

func (s *Service) startOfDay(t time.Time) time.Time {
	t = t.In(s.cfg.Location)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.cfg.Location)
}

func (s *Service) invalidate(ctx context.Context, serviceID int64, start time.Time) {
	if s.cache == nil {
		return
	}
	key := cacheKey(serviceID, s.startOfDay(start))
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("slot cache invalidate", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(serviceID int64, day time.Time) string {
	return fmt.Sprintf("slots:%d:%s", serviceID, day.Format(dayLayout))
}
