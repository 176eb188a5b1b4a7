package catalog

import "errors"

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrSlugTaken          = errors.New("slug already exists")
	ErrServiceHasBookings = errors.New("service has upcoming bookings")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }
