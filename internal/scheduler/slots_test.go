package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchDates(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)

	this := SearchDates(wednesday, false)
	require.Len(t, this, 5)
	assert.True(t, wednesday.Equal(this[0]))
	assert.Equal(t, domain.Sunday, domain.WeekdayOf(this[4]))

	both := SearchDates(wednesday.Add(15*time.Hour), true)
	assert.Len(t, both, 12)
	assert.True(t, wednesday.Equal(both[0]), "time of day is dropped")
}

func TestFindSlots_FreeRemainderOfBlock(t *testing.T) {
	grid := NewWeekGrid(
		[]domain.TimeBlock{block(1, domain.Monday, "09:00", "11:00")},
		[]Booking{booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible)},
	)

	slots := FindSlots(grid, SlotQuery{Minutes: 60, Commitment: domain.CommitmentFlexible, OriginalDate: monday})

	require.Len(t, slots, 1)
	assert.Equal(t, "10:00-11:00", slots[0].Interval.String())
	assert.True(t, monday.Equal(slots[0].Date))
	assert.Equal(t, int64(1), slots[0].BlockID)
}

func TestFindSlots_NoRoomIsEmptyNotError(t *testing.T) {
	grid := NewWeekGrid(
		[]domain.TimeBlock{block(1, domain.Monday, "09:00", "10:00")},
		[]Booking{booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible)},
	)

	slots := FindSlots(grid, SlotQuery{Minutes: 30, Commitment: domain.CommitmentFlexible, OriginalDate: monday})
	assert.Empty(t, slots)
}

func TestFindSlots_GapTooShort(t *testing.T) {
	grid := NewWeekGrid(
		[]domain.TimeBlock{block(1, domain.Monday, "09:00", "11:00")},
		[]Booking{booked(1, domain.Monday, "09:30", "10:30", domain.CommitmentFlexible)},
	)

	assert.Empty(t, FindSlots(grid, SlotQuery{Minutes: 45, OriginalDate: monday}))
	assert.Len(t, FindSlots(grid, SlotQuery{Minutes: 30, OriginalDate: monday}), 2)
}

func TestFindSlots_FixedOnlyOwnWeekday(t *testing.T) {
	grid := NewWeekGrid(
		[]domain.TimeBlock{
			block(1, domain.Monday, "09:00", "10:00"),
			block(2, domain.Tuesday, "09:00", "10:00"),
		},
		[]Booking{booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFixed)},
	)

	fixed := FindSlots(grid, SlotQuery{Minutes: 60, Commitment: domain.CommitmentFixed, OriginalDate: monday})
	assert.Empty(t, fixed, "a fixed session is never offered another weekday")

	flexible := FindSlots(grid, SlotQuery{Minutes: 60, Commitment: domain.CommitmentFlexible, OriginalDate: monday})
	require.Len(t, flexible, 1)
	assert.Equal(t, domain.Tuesday, flexible[0].Day)
}

func TestFindSlots_PreferredRanksOwnWeekdayFirst(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)
	grid := NewWeekGrid([]domain.TimeBlock{
		block(1, domain.Wednesday, "15:00", "16:00"),
		block(2, domain.Thursday, "08:00", "09:00"),
	}, nil)
	q := SlotQuery{Minutes: 60, OriginalDate: wednesday, IncludeNextWeek: true}

	q.Commitment = domain.CommitmentFlexible
	flexible := FindSlots(grid, q)
	require.Len(t, flexible, 4)
	assert.Equal(t, []domain.Weekday{domain.Wednesday, domain.Thursday, domain.Wednesday, domain.Thursday},
		[]domain.Weekday{flexible[0].Day, flexible[1].Day, flexible[2].Day, flexible[3].Day})

	q.Commitment = domain.CommitmentPreferred
	preferred := FindSlots(grid, q)
	require.Len(t, preferred, 4)
	assert.Equal(t, []domain.Weekday{domain.Wednesday, domain.Wednesday, domain.Thursday, domain.Thursday},
		[]domain.Weekday{preferred[0].Day, preferred[1].Day, preferred[2].Day, preferred[3].Day})
	assert.True(t, preferred[1].Date.Equal(wednesday.AddDate(0, 0, 7)))
}

func TestFindSlots_LimitDefaultsToFive(t *testing.T) {
	var blocks []domain.TimeBlock
	for i, d := range domain.AllWeekdays {
		blocks = append(blocks, block(int64(i+1), d, "09:00", "10:00"))
	}
	grid := NewWeekGrid(blocks, nil)

	assert.Len(t, FindSlots(grid, SlotQuery{Minutes: 30, OriginalDate: monday}), DefaultSuggestionLimit)
	assert.Len(t, FindSlots(grid, SlotQuery{Minutes: 30, OriginalDate: monday, Limit: 2}), 2)
}

func TestWeekGrid_DatedBookingOnlyBlocksItsDate(t *testing.T) {
	nextMonday := monday.AddDate(0, 0, 7)
	b := booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible)
	b.Date = &nextMonday
	grid := NewWeekGrid([]domain.TimeBlock{block(1, domain.Monday, "09:00", "10:00")}, []Booking{b})

	assert.Equal(t, 60, grid.Remaining(monday))
	assert.Equal(t, 0, grid.Remaining(nextMonday))
	_, ok := grid.FirstFit(nextMonday, 60)
	assert.False(t, ok)
}

func TestWeekGrid_RemainingCapacityGatesWindows(t *testing.T) {
	// The 10:00-11:00 gap exists, but the day's capacity is already spent
	// by a booking whose estimate exceeds its calendar span.
	over := booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible)
	over.Minutes = 90
	grid := NewWeekGrid([]domain.TimeBlock{block(1, domain.Monday, "09:00", "11:00")}, []Booking{over})

	assert.Equal(t, 30, grid.Remaining(monday))
	assert.Empty(t, grid.FreeWindows(monday, 60))
	assert.Len(t, grid.FreeWindows(monday, 30), 1)
}

func TestFindConflict_DatedAndWeekly(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)
	nextWednesday := wednesday.AddDate(0, 0, 7)
	weekly := booked(1, domain.Wednesday, "09:00", "10:00", domain.CommitmentFlexible)
	dated := booked(2, domain.Wednesday, "13:00", "14:00", domain.CommitmentFlexible)
	dated.Date = &nextWednesday
	bookings := []Booking{weekly, dated}

	req := domain.Interval{Start: clk("09:30"), End: clk("10:30")}
	hit, ok := FindConflict(bookings, domain.Wednesday, &wednesday, req, monday)
	require.True(t, ok)
	assert.Equal(t, int64(1), hit.ID)

	afternoon := domain.Interval{Start: clk("13:30"), End: clk("14:00")}
	_, ok = FindConflict(bookings, domain.Wednesday, &wednesday, afternoon, monday)
	assert.False(t, ok, "the dated booking is on another Wednesday")

	hit, ok = FindConflict(bookings, domain.Wednesday, nil, afternoon, monday)
	require.True(t, ok, "a weekly request meets future dated bookings")
	assert.Equal(t, int64(2), hit.ID)

	_, ok = FindConflict(bookings, domain.Wednesday, nil, afternoon, nextWednesday.AddDate(0, 0, 1))
	assert.False(t, ok, "dated bookings in the past are ignored")

	touching := domain.Interval{Start: clk("10:00"), End: clk("11:00")}
	_, ok = FindConflict(bookings, domain.Wednesday, nil, touching, monday)
	assert.False(t, ok, "half-open intervals may touch")
}

func TestFindSlots_HomeOverridesSearchStart(t *testing.T) {
	grid := NewWeekGrid([]domain.TimeBlock{
		block(1, domain.Monday, "09:00", "10:00"),
		block(2, domain.Tuesday, "09:00", "10:00"),
	}, nil)
	tuesday := monday.AddDate(0, 0, 1)

	q := SlotQuery{Minutes: 60, Commitment: domain.CommitmentFixed, OriginalDate: tuesday}
	require.Len(t, FindSlots(grid, q), 1, "without a home the search start decides")

	q.Home = domain.Monday
	assert.Empty(t, FindSlots(grid, q))
	q.IncludeNextWeek = true
	got := FindSlots(grid, q)
	require.Len(t, got, 1)
	assert.True(t, got[0].Date.Equal(monday.AddDate(0, 0, 7)))
}

func TestFindSlots_NotBeforeClipsToday(t *testing.T) {
	grid := NewWeekGrid([]domain.TimeBlock{
		block(1, domain.Monday, "09:00", "11:00"),
		block(2, domain.Tuesday, "09:00", "10:00"),
	}, nil)

	q := SlotQuery{Minutes: 60, OriginalDate: monday, NotBefore: monday.Add(9*time.Hour + 30*time.Minute + 10*time.Second)}
	got := FindSlots(grid, q)
	require.Len(t, got, 2)
	assert.Equal(t, "09:31-10:31", got[0].Interval.String(), "seconds round up to the next minute")
	assert.Equal(t, domain.Tuesday, got[1].Day)

	q.NotBefore = monday.Add(10*time.Hour + 1*time.Minute)
	got = FindSlots(grid, q)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Tuesday, got[0].Day)

	q.NotBefore = monday.AddDate(0, 0, 2)
	assert.Empty(t, FindSlots(grid, q), "dates before NotBefore are skipped")
}
