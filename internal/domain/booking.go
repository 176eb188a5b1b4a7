package domain

import "time"

type DogSize string

const (
	DogSizeDefault DogSize = ""
	DogSizeSmall   DogSize = "small"
	DogSizeBig     DogSize = "big"
)

func (s DogSize) Valid() bool {
	switch s {
	case DogSizeDefault, DogSizeSmall, DogSizeBig:
		return true
	}
	return false
}

type Booking struct {
	ID          int64      `json:"id"`
	ServiceID   int64      `json:"service_id"`
	UserID      int64      `json:"user_id"`
	DogSize     DogSize    `json:"dog_size,omitempty"`
	Price       int64      `json:"price"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Comment     string     `json:"comment"`
	Cancelled   bool       `json:"cancelled"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Overlaps reports whether [start, end) intersects the booking,
// with both intervals extended by gap at their end.
func (b *Booking) Overlaps(start, end time.Time, gap time.Duration) bool {
	return start.Before(b.EndTime.Add(gap)) && b.StartTime.Before(end.Add(gap))
}

// BookingDetails is a booking joined with its service and customer.
type BookingDetails struct {
	Booking
	ServiceNameEN string `json:"service_name_en"`
	ServiceNameHU string `json:"service_name_hu"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}
