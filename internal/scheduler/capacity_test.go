package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is 2025-06-16; every test week starts there.
var monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func clk(s string) domain.Clock {
	c, err := domain.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func block(id int64, day domain.Weekday, start, end string) domain.TimeBlock {
	return domain.TimeBlock{ID: id, ChildID: 1, Day: day, Start: clk(start), End: clk(end)}
}

func booked(id int64, day domain.Weekday, start, end string, c domain.CommitmentType) Booking {
	iv := domain.Interval{Start: clk(start), End: clk(end)}
	return Booking{
		Kind:       domain.OverlapSession,
		ID:         id,
		SessionID:  id,
		Day:        day,
		Interval:   iv,
		Minutes:    iv.Minutes(),
		Commitment: c,
		Status:     domain.SessionScheduled,
	}
}

func TestComputeWeeklyCapacity_RedAtNinetyPercent(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Monday, "09:00", "11:00")}
	b := booked(1, domain.Monday, "09:00", "10:48", domain.CommitmentFlexible)
	require.Equal(t, 108, b.Minutes)

	got := ComputeWeeklyCapacity(blocks, []Booking{b}, monday)

	day := got.Day(domain.Monday)
	assert.Equal(t, 120, day.AvailableMinutes)
	assert.Equal(t, 108, day.ScheduledMinutes)
	assert.Equal(t, 12, day.RemainingMinutes)
	assert.Equal(t, 90, day.UtilizationPercent)
	assert.Equal(t, domain.CapacityRed, day.Status)
}

func TestComputeWeeklyCapacity_AllSevenDays(t *testing.T) {
	got := ComputeWeeklyCapacity(nil, nil, monday.AddDate(0, 0, 3))

	require.Len(t, got.Days, 7)
	assert.True(t, monday.Equal(got.WeekStart), "week start normalizes to Monday")
	for i, d := range got.Days {
		assert.Equal(t, domain.Weekday(i+1), d.Day)
		assert.Equal(t, 0, d.UtilizationPercent)
		assert.Equal(t, domain.CapacityGreen, d.Status)
	}
}

func TestComputeWeeklyCapacity_SumsBlocksAndClampsRemaining(t *testing.T) {
	blocks := []domain.TimeBlock{
		block(1, domain.Tuesday, "09:00", "10:00"),
		block(2, domain.Tuesday, "13:00", "13:30"),
	}
	bookings := []Booking{
		booked(1, domain.Tuesday, "09:00", "10:00", domain.CommitmentFixed),
		booked(2, domain.Tuesday, "13:00", "13:45", domain.CommitmentFixed),
	}

	day := ComputeWeeklyCapacity(blocks, bookings, monday).Day(domain.Tuesday)
	assert.Equal(t, 90, day.AvailableMinutes)
	assert.Equal(t, 105, day.ScheduledMinutes)
	assert.Equal(t, 0, day.RemainingMinutes)
	assert.Equal(t, 117, day.UtilizationPercent)
	assert.True(t, day.Overbooked())
}

func TestComputeWeeklyCapacity_DatedBookingsOnlyInTheirWeek(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Monday, "09:00", "11:00")}
	nextMonday := monday.AddDate(0, 0, 7)
	b := booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible)
	b.Date = &nextMonday

	this := ComputeWeeklyCapacity(blocks, []Booking{b}, monday)
	next := ComputeWeeklyCapacity(blocks, []Booking{b}, nextMonday)

	assert.Equal(t, 0, this.Day(domain.Monday).ScheduledMinutes)
	assert.Equal(t, 60, next.Day(domain.Monday).ScheduledMinutes)
}

func TestClassifyUtilization(t *testing.T) {
	tests := []struct {
		pct  int
		want domain.CapacityStatus
	}{
		{0, domain.CapacityGreen},
		{74, domain.CapacityGreen},
		{75, domain.CapacityYellow},
		{89, domain.CapacityYellow},
		{90, domain.CapacityRed},
		{150, domain.CapacityRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyUtilization(tt.pct), "pct=%d", tt.pct)
	}
}

func TestUtilizationPercent_Rounds(t *testing.T) {
	assert.Equal(t, 0, UtilizationPercent(30, 0))
	assert.Equal(t, 33, UtilizationPercent(40, 120))
	assert.Equal(t, 67, UtilizationPercent(80, 120))
}

func TestDetermineCapacityStatus_FirstMatchWins(t *testing.T) {
	tests := []struct {
		name     string
		catchUps int
		rate     float64
		want     domain.PlanHealth
	}{
		{"overloaded beats perfect rate", 6, 1.0, domain.HealthOverloaded},
		{"behind", 3, 1.0, domain.HealthBehind},
		{"two catch-ups is not behind", 2, 0.8, domain.HealthOnTrack},
		{"moderate", 0, 0.6, domain.HealthModerate},
		{"needs attention", 0, 0.59, domain.HealthNeedsAttention},
		{"no sessions", 0, 0, domain.HealthNeedsAttention},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineCapacityStatus(tt.catchUps, tt.rate))
		})
	}
}

func TestSummarizeWeek_SkippedNeverCompleted(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Monday, "09:00", "12:00")}
	done := booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible)
	done.Status = domain.SessionDone
	skipped := booked(2, domain.Monday, "10:00", "11:00", domain.CommitmentFlexible)
	skipped.Status = domain.SessionDone
	open := booked(3, domain.Monday, "11:00", "11:30", domain.CommitmentFlexible)
	bookings := []Booking{done, skipped, open}

	pending := []*domain.CatchUpSession{
		{ID: 1, OriginalSessionID: 2, OriginalDate: monday, Priority: 3},
		{ID: 2, OriginalSessionID: 3, OriginalDate: monday.AddDate(0, 0, -7), Priority: 3},
	}

	capacity := ComputeWeeklyCapacity(blocks, bookings, monday)
	s := SummarizeWeek(capacity, bookings, pending)

	assert.Equal(t, 3, s.ScheduledSessions)
	assert.Equal(t, 1, s.SkippedSessions)
	assert.Equal(t, 1, s.CompletedSessions)
	assert.Equal(t, 60, s.CompletedMinutes)
	assert.Equal(t, 2, s.CatchUpCount)
	assert.InDelta(t, 1.0/3.0, s.CompletionRate, 0.0001)
	assert.Equal(t, domain.HealthNeedsAttention, s.Health)
	assert.Equal(t, 180, s.TotalAvailable)
	assert.Equal(t, 150, s.TotalScheduled)
	assert.Equal(t, 83, s.UtilizationPercent)
}

func TestSessionBookings_OnlyOccupying(t *testing.T) {
	placed := domain.Placement{Day: domain.Monday, Start: clk("09:00"), End: clk("10:00")}
	deletedAt := monday
	sessions := []domain.Session{
		{ID: 1, Status: domain.SessionScheduled, Placement: &placed, EstimatedMinutes: 60},
		{ID: 2, Status: domain.SessionDone, Placement: &placed, EstimatedMinutes: 60},
		{ID: 3, Status: domain.SessionPlanned, Placement: &placed, EstimatedMinutes: 60},
		{ID: 4, Status: domain.SessionScheduled, EstimatedMinutes: 60},
		{ID: 5, Status: domain.SessionScheduled, Placement: &placed, DeletedAt: &deletedAt, EstimatedMinutes: 60},
	}

	got := SessionBookings(sessions)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestSessionBookings_DoneStopsRecurringAfterItsWeek(t *testing.T) {
	placed := domain.Placement{Day: domain.Monday, Start: clk("09:00"), End: clk("10:00")}
	completedAt := monday.Add(9 * time.Hour)
	sessions := []domain.Session{
		{ID: 1, Status: domain.SessionDone, Placement: &placed, EstimatedMinutes: 60, CompletedAt: &completedAt},
	}
	blocks := []domain.TimeBlock{block(1, domain.Monday, "09:00", "10:00")}
	bookings := SessionBookings(sessions)
	require.Len(t, bookings, 1)

	this := ComputeWeeklyCapacity(blocks, bookings, monday)
	assert.Equal(t, 60, this.Day(domain.Monday).ScheduledMinutes)
	s := SummarizeWeek(this, bookings, nil)
	assert.Equal(t, 1, s.CompletedSessions)

	next := ComputeWeeklyCapacity(blocks, bookings, monday.AddDate(0, 0, 7))
	assert.Zero(t, next.Day(domain.Monday).ScheduledMinutes, "slot is free again the week after")
	assert.Zero(t, SummarizeWeek(next, bookings, nil).CompletedSessions)

	prev := monday.AddDate(0, 0, -7)
	earlier := SummarizeWeek(ComputeWeeklyCapacity(blocks, bookings, prev), bookings, nil)
	assert.Equal(t, 1, earlier.ScheduledSessions)
	assert.Zero(t, earlier.CompletedSessions, "completion is credited to the week it happened")

	_, hit := FindConflict(bookings, domain.Monday, nil, placed.Interval(), monday.AddDate(0, 0, 7))
	assert.False(t, hit)
	_, hit = FindConflict(bookings, domain.Monday, nil, placed.Interval(), monday)
	assert.True(t, hit)
}
