package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrDateOutOfRange   = errors.New("date is outside the booking horizon")
	ErrServiceNotFound  = errors.New("service not found")
	ErrSlotUnavailable  = errors.New("requested time is not available")
	ErrOverbooking      = errors.New("overbooking constraint violation")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("booking belongs to another user")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrBookingStarted   = errors.New("booking has already started")
)
