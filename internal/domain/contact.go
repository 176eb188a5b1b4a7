package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidClock = errors.New("invalid clock value, expected HH:MM")

// DayHours holds opening and closing time as "HH:MM".
// Both empty means the salon is closed that day.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

func (h DayHours) Closed() bool {
	return strings.TrimSpace(h.Open) == "" || strings.TrimSpace(h.Close) == ""
}

// OpeningHours is keyed by lowercase English weekday name.
type OpeningHours map[string]DayHours

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

func (o OpeningHours) For(d time.Weekday) DayHours {
	if o == nil {
		return DayHours{}
	}
	return o[WeekdayKey(d)]
}

// Window returns the opening and closing instants of day in loc.
// ok is false when the salon is closed that day.
func (h DayHours) Window(day time.Time, loc *time.Location) (open, close time.Time, ok bool, err error) {
	if h.Closed() {
		return time.Time{}, time.Time{}, false, nil
	}
	openOff, err := ParseClock(h.Open)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	closeOff, err := ParseClock(h.Close)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return wallClock(day, openOff, loc), wallClock(day, closeOff, loc), true, nil
}

// wallClock places a clock offset on day's calendar date in loc. The offset
// is read as hours and minutes, so DST change days keep the posted hours.
func wallClock(day time.Time, off time.Duration, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, int(off/time.Hour), int(off%time.Hour/time.Minute), 0, 0, loc)
}

// ParseClock converts "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

type Contact struct {
	Phone         string       `json:"phone"`
	Email         string       `json:"email"`
	Address       string       `json:"address"`
	GoogleMapsURL string       `json:"google_maps_url"`
	OpeningHours  OpeningHours `json:"opening_hours"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
