package booking

import "time"

type CreateBookingRequest struct {
	ServiceID int64  `json:"service_id" binding:"required"`
	Day       string `json:"day" binding:"required"`
	Time      string `json:"time" binding:"required"`
	DogSize   string `json:"dog_size"`
	Comment   string `json:"comment" binding:"required,max=1000"`
}

// SlotOption is one entry of a time picker: the value to submit and the
// text to show.
type SlotOption struct {
	Value string    `json:"value"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
}

type Availability struct {
	Date      string       `json:"date"`
	ServiceID int64        `json:"service_id"`
	Closed    bool         `json:"closed"`
	Slots     []SlotOption `json:"slots"`
	Message   string       `json:"message,omitempty"`
}

// Settings are the salon-wide booking rules.
type Settings struct {
	DefaultOpen  string
	DefaultClose string
	Step         time.Duration
	Gap          time.Duration
	HorizonDays  int
	Location     *time.Location
	CacheTTL     time.Duration
}
