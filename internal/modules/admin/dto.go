package admin

// BookingQuery mirrors the query string of GET /admin/bookings.
type BookingQuery struct {
	From             string `form:"from"`
	Active           bool   `form:"active"`
	Cancelled        *bool  `form:"cancelled"`
	IncludeCancelled bool   `form:"include_cancelled"`
	User             string `form:"user"`
	Page             int    `form:"page"`
	Limit            int    `form:"limit"`
}

type UserQuery struct {
	Active *bool  `form:"active"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type Stats struct {
	Users             int64 `json:"users"`
	ActiveServices    int64 `json:"active_services"`
	UpcomingBookings  int64 `json:"upcoming_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
}
