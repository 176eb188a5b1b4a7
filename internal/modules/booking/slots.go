package booking

import "time"

// TimeSlot is a half-open interval [Start, End).
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotQuery is the input of AvailableSlots. Busy holds the live bookings of
// the service on that day; Gap is the rest period kept after every
// appointment, existing or new.
type SlotQuery struct {
	Open     time.Time
	Close    time.Time
	Duration time.Duration
	Step     time.Duration
	Gap      time.Duration
	Busy     []TimeSlot
	Now      time.Time
}

// AvailableSlots walks the window from Open in Step increments and returns
// every start whose appointment fits before Close, does not overlap a busy
// interval and has not already begun. The result is ascending and may be empty.
func AvailableSlots(q SlotQuery) []TimeSlot {
	if q.Step <= 0 || q.Duration <= 0 || !q.Open.Before(q.Close) {
		return nil
	}

	var out []TimeSlot
	for start := q.Open; !start.Add(q.Duration).After(q.Close); start = start.Add(q.Step) {
		if start.Before(q.Now) {
			continue
		}
		end := start.Add(q.Duration)
		if overlapsAny(start, end, q.Gap, q.Busy) {
			continue
		}
		out = append(out, TimeSlot{Start: start, End: end})
	}
	return out
}

func overlapsAny(start, end time.Time, gap time.Duration, busy []TimeSlot) bool {
	for _, b := range busy {
		if start.Before(b.End.Add(gap)) && b.Start.Before(end.Add(gap)) {
			return true
		}
	}
	return false
}
