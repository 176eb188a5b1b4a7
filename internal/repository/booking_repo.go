package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"dogsalon/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	ServiceID   int64      `gorm:"column:service_id;not null;index"`
	UserID      int64      `gorm:"column:user_id;not null;index"`
	DogSize     string     `gorm:"column:dog_size;size:10"`
	Price       int64      `gorm:"column:price;not null"`
	StartTime   time.Time  `gorm:"column:start_time;not null;index"`
	EndTime     time.Time  `gorm:"column:end_time;not null"`
	Comment     string     `gorm:"column:comment;type:text;not null"`
	Cancelled   bool       `gorm:"column:cancelled;not null"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// bookingDetailsRow is a booking joined with service and user columns.
type bookingDetailsRow struct {
	Booking       bookingModel `gorm:"embedded"`
	ServiceNameEN string       `gorm:"column:service_name_en"`
	ServiceNameHU string       `gorm:"column:service_name_hu"`
	Username      string       `gorm:"column:username"`
	FirstName     string       `gorm:"column:first_name"`
	LastName      string       `gorm:"column:last_name"`
	Email         string       `gorm:"column:email"`
	Phone         string       `gorm:"column:phone"`
}

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:          m.ID,
		ServiceID:   m.ServiceID,
		UserID:      m.UserID,
		DogSize:     domain.DogSize(m.DogSize),
		Price:       m.Price,
		StartTime:   m.StartTime.UTC(),
		EndTime:     m.EndTime.UTC(),
		Comment:     m.Comment,
		Cancelled:   m.Cancelled,
		CancelledAt: m.CancelledAt,
		CreatedAt:   m.CreatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:          b.ID,
		ServiceID:   b.ServiceID,
		UserID:      b.UserID,
		DogSize:     string(b.DogSize),
		Price:       b.Price,
		StartTime:   b.StartTime.UTC(),
		EndTime:     b.EndTime.UTC(),
		Comment:     b.Comment,
		Cancelled:   b.Cancelled,
		CancelledAt: b.CancelledAt,
		CreatedAt:   b.CreatedAt,
	}
}

// Create inserts b unless a live booking of the same service overlaps it.
// Both intervals are extended by gap at their end. The service row is locked
// for the duration of the check so concurrent bookings of one service run
// one after another; the partial unique index catches anything that slips by.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking, gap time.Duration) error {
	m := toBookingModel(b)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var svc serviceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", m.ServiceID).
			Take(&svc).Error; err != nil {
			return notFound(err)
		}

		var clashes int64
		if err := tx.Model(&bookingModel{}).
			Where("service_id = ? AND cancelled = ?", m.ServiceID, false).
			Where("start_time < ? AND end_time > ?", m.EndTime.Add(gap), m.StartTime.Add(-gap)).
			Count(&clashes).Error; err != nil {
			return err
		}
		if clashes > 0 {
			return ErrConflict
		}

		return tx.Create(&m).Error
	})
	if err != nil {
		if errors.Is(err, ErrConflict) || isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}

	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(m), nil
}

// ListLiveForService returns non-cancelled bookings of a service that
// intersect [from, to), ordered by start.
func (r *BookingRepository) ListLiveForService(ctx context.Context, serviceID int64, from, to time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND cancelled = ?", serviceID, false).
		Where("start_time < ? AND end_time > ?", to.UTC(), from.UTC()).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// Cancel flags a live booking as cancelled. ErrNotFound is returned when no
// live booking with that id exists.
func (r *BookingRepository) Cancel(ctx context.Context, id int64, at time.Time) error {
	at = at.UTC()
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND cancelled = ?", id, false).
		Updates(map[string]any{"cancelled": true, "cancelled_at": at})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type BookingFilter struct {
	UserID    *int64
	ServiceID *int64
	// UserQuery matches a user id, or a username / first / last name fragment.
	UserQuery string
	From      *time.Time
	// Cancelled nil returns both live and cancelled bookings.
	Cancelled *bool
	Limit     int
	Offset    int
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.BookingDetails, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Table("bookings AS b").
			Joins("JOIN services AS s ON s.id = b.service_id").
			Joins("JOIN users AS u ON u.id = b.user_id")
		if f.UserID != nil {
			q = q.Where("b.user_id = ?", *f.UserID)
		}
		if f.ServiceID != nil {
			q = q.Where("b.service_id = ?", *f.ServiceID)
		}
		if s := strings.TrimSpace(f.UserQuery); s != "" {
			if id, err := strconv.ParseInt(s, 10, 64); err == nil {
				q = q.Where("b.user_id = ?", id)
			} else {
				like := "%" + strings.ToLower(s) + "%"
				q = q.Where("LOWER(u.username) LIKE ? OR LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ?",
					like, like, like)
			}
		}
		if f.From != nil {
			q = q.Where("b.start_time >= ?", f.From.UTC())
		}
		if f.Cancelled != nil {
			q = q.Where("b.cancelled = ?", *f.Cancelled)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := scope().
		Select(`b.*, s.name_en AS service_name_en, s.name_hu AS service_name_hu,
			u.username, u.first_name, u.last_name, u.email, u.phone`).
		Order("b.start_time ASC, b.id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []bookingDetailsRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.BookingDetails, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BookingDetails{
			Booking:       *toDomainBooking(row.Booking),
			ServiceNameEN: row.ServiceNameEN,
			ServiceNameHU: row.ServiceNameHU,
			Username:      row.Username,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Email:         row.Email,
			Phone:         row.Phone,
		})
	}
	return out, total, nil
}

// CountUpcomingForService counts live bookings of a service starting at or after now.
func (r *BookingRepository) CountUpcomingForService(ctx context.Context, serviceID int64, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("service_id = ? AND cancelled = ? AND start_time >= ?", serviceID, false, now.UTC()).
		Count(&n).Error
	return n, err
}

type BookingStats struct {
	Upcoming  int64
	Cancelled int64
}

func (r *BookingRepository) Stats(ctx context.Context, now time.Time) (BookingStats, error) {
	var st BookingStats
	if err := r.db.WithContext(ctx).Model(&bookingModel{}).Where("cancelled = ? AND start_time >= ?", false, now.UTC()).Count(&st.Upcoming).Error; err != nil {
		return st, err
	}
	if err := r.db.WithContext(ctx).Model(&bookingModel{}).Where("cancelled = ?", true).Count(&st.Cancelled).Error; err != nil {
		return st, err
	}
	return st, nil
}
