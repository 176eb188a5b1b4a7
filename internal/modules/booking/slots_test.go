package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(hh, mm int) time.Time {
	return time.Date(2030, 3, 12, hh, mm, 0, 0, time.UTC)
}

func starts(slots []TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format("15:04"))
	}
	return out
}

func baseQuery() SlotQuery {
	return SlotQuery{
		Open:     clock(8, 0),
		Close:    clock(16, 0),
		Duration: time.Hour,
		Step:     30 * time.Minute,
	}
}

func TestAvailableSlots_EmptyDay(t *testing.T) {
	got := AvailableSlots(baseQuery())

	assert.Equal(t, []string{
		"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00",
	}, starts(got))
	assert.True(t, got[len(got)-1].End.Equal(clock(16, 0)))
}

func TestAvailableSlots_ExcludesOverlaps(t *testing.T) {
	q := baseQuery()
	q.Busy = []TimeSlot{{Start: clock(9, 0), End: clock(10, 0)}}

	got := starts(AvailableSlots(q))

	assert.Contains(t, got, "08:00")
	assert.NotContains(t, got, "08:30")
	assert.NotContains(t, got, "09:00")
	assert.NotContains(t, got, "09:30")
	assert.Contains(t, got, "10:00")
	assert.Contains(t, got, "10:30")
}

func TestAvailableSlots_Gap(t *testing.T) {
	q := baseQuery()
	q.Step = 15 * time.Minute
	q.Gap = 15 * time.Minute
	q.Busy = []TimeSlot{{Start: clock(10, 0), End: clock(11, 0)}}

	got := starts(AvailableSlots(q))

	assert.Contains(t, got, "08:45")
	assert.NotContains(t, got, "09:00")
	assert.NotContains(t, got, "11:00")
	assert.Contains(t, got, "11:15")
}

func TestAvailableSlots_DurationEqualsWindow(t *testing.T) {
	q := baseQuery()
	q.Duration = 8 * time.Hour

	got := AvailableSlots(q)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.Equal(clock(8, 0)))
}

func TestAvailableSlots_DurationLongerThanWindow(t *testing.T) {
	q := baseQuery()
	q.Duration = 9 * time.Hour

	assert.Empty(t, AvailableSlots(q))
}

func TestAvailableSlots_SameDayFiltering(t *testing.T) {
	q := baseQuery()
	q.Now = clock(12, 10)

	got := starts(AvailableSlots(q))
	assert.Equal(t, "12:30", got[0])

	q.Now = clock(12, 30)
	assert.Equal(t, "12:30", starts(AvailableSlots(q))[0])

	q.Now = clock(15, 1)
	assert.Empty(t, AvailableSlots(q))
}

func TestAvailableSlots_InvalidInput(t *testing.T) {
	q := baseQuery()
	q.Step = 0
	assert.Empty(t, AvailableSlots(q))

	q = baseQuery()
	q.Duration = -time.Minute
	assert.Empty(t, AvailableSlots(q))

	q = baseQuery()
	q.Open, q.Close = q.Close, q.Open
	assert.Empty(t, AvailableSlots(q))
}

func TestAvailableSlots_Properties(t *testing.T) {
	busy := []TimeSlot{
		{Start: clock(8, 15), End: clock(9, 0)},
		{Start: clock(11, 0), End: clock(12, 30)},
		{Start: clock(15, 30), End: clock(16, 0)},
	}

	for _, step := range []time.Duration{5 * time.Minute, 15 * time.Minute, 20 * time.Minute, 30 * time.Minute} {
		for _, dur := range []time.Duration{15 * time.Minute, 45 * time.Minute, 90 * time.Minute, 3 * time.Hour} {
			for _, gap := range []time.Duration{0, 15 * time.Minute} {
				q := baseQuery()
				q.Step, q.Duration, q.Gap, q.Busy = step, dur, gap, busy

				got := AvailableSlots(q)
				for i, s := range got {
					assert.False(t, s.Start.Before(q.Open))
					assert.False(t, s.End.After(q.Close))
					assert.Equal(t, dur, s.End.Sub(s.Start))
					for _, b := range busy {
						overlap := s.Start.Before(b.End.Add(gap)) && b.Start.Before(s.End.Add(gap))
						assert.False(t, overlap, "slot %s overlaps %s", s.Start.Format("15:04"), b.Start.Format("15:04"))
					}
					if i > 0 {
						assert.True(t, got[i-1].Start.Before(s.Start))
					}
				}
			}
		}
	}
}
