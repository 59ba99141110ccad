package scheduler

import (
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(blocks []domain.TimeBlock, bookings []Booking, pending int) QualityResult {
	return EvaluateQuality(QualityInput{
		Capacity:        ComputeWeeklyCapacity(blocks, bookings, monday),
		Bookings:        bookings,
		PendingCatchUps: pending,
	}, DefaultQualityConfig())
}

func codes(r QualityResult) []string {
	var out []string
	for _, rec := range r.Recommendations {
		out = append(out, rec.Code)
	}
	return out
}

func TestEvaluateQuality_CleanWeekScoresFull(t *testing.T) {
	blocks := []domain.TimeBlock{
		block(1, domain.Monday, "09:00", "11:00"),
		block(2, domain.Wednesday, "09:00", "11:00"),
		block(3, domain.Friday, "09:00", "11:00"),
	}
	bookings := []Booking{
		booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible),
		booked(2, domain.Wednesday, "09:00", "10:00", domain.CommitmentFlexible),
		booked(3, domain.Friday, "09:00", "10:00", domain.CommitmentFlexible),
	}

	r := evaluate(blocks, bookings, 0)
	assert.Empty(t, r.Recommendations)
	assert.Equal(t, 100, r.Score)
}

func TestEvaluateQuality_NoAvailability(t *testing.T) {
	r := evaluate(nil, nil, 0)
	require.Len(t, r.Recommendations, 1)
	assert.Equal(t, CodeNoAvailability, r.Recommendations[0].Code)
	assert.Equal(t, domain.SeverityInfo, r.Recommendations[0].Severity)
	assert.Equal(t, 98, r.Score)
}

func TestEvaluateQuality_OverCapacityIsCritical(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Tuesday, "09:00", "10:00")}
	over := booked(1, domain.Tuesday, "09:00", "10:00", domain.CommitmentFlexible)
	over.Minutes = 75

	r := evaluate(blocks, []Booking{over}, 0)
	require.NotEmpty(t, r.Recommendations)
	assert.Equal(t, CodeOverCapacity, r.Recommendations[0].Code)
	assert.Equal(t, domain.SeverityCritical, r.Recommendations[0].Severity)
	assert.Equal(t, domain.Tuesday, r.Recommendations[0].Day)
	assert.NotContains(t, codes(r), CodeNoBuffer, "over capacity replaces the no-buffer warning")
}

func TestEvaluateQuality_NoBuffer(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Monday, "09:00", "10:00")}
	r := evaluate(blocks, []Booking{booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible)}, 0)
	assert.Equal(t, []string{CodeNoBuffer}, codes(r))
	assert.Equal(t, 90, r.Score)
}

func TestEvaluateQuality_DayShare(t *testing.T) {
	blocks := []domain.TimeBlock{
		block(1, domain.Monday, "08:00", "12:00"),
		block(2, domain.Tuesday, "08:00", "12:00"),
	}
	bookings := []Booking{
		booked(1, domain.Monday, "08:00", "08:30", domain.CommitmentFlexible),
		booked(2, domain.Monday, "08:30", "09:00", domain.CommitmentFlexible),
		booked(3, domain.Monday, "09:00", "09:30", domain.CommitmentFlexible),
		booked(4, domain.Tuesday, "08:00", "08:30", domain.CommitmentFlexible),
	}

	r := evaluate(blocks, bookings, 0)
	require.Contains(t, codes(r), CodeDayShare)
	for _, rec := range r.Recommendations {
		if rec.Code == CodeDayShare {
			assert.Equal(t, domain.Monday, rec.Day)
			assert.Contains(t, rec.Message, "75%")
		}
	}
}

func TestEvaluateQuality_SingleActiveDayNoShareWarning(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Monday, "08:00", "12:00")}
	r := evaluate(blocks, []Booking{booked(1, domain.Monday, "08:00", "09:00", domain.CommitmentFlexible)}, 0)
	assert.NotContains(t, codes(r), CodeDayShare)
}

func TestEvaluateQuality_FixedStack(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Thursday, "08:00", "14:00")}
	bookings := []Booking{
		booked(1, domain.Thursday, "08:00", "09:00", domain.CommitmentFixed),
		booked(2, domain.Thursday, "09:00", "10:00", domain.CommitmentFixed),
		booked(3, domain.Thursday, "10:00", "11:00", domain.CommitmentFixed),
	}
	assert.Contains(t, codes(evaluate(blocks, bookings, 0)), CodeFixedStack)

	// A gap breaks the chain.
	bookings[2] = booked(3, domain.Thursday, "10:15", "11:15", domain.CommitmentFixed)
	assert.NotContains(t, codes(evaluate(blocks, bookings, 0)), CodeFixedStack)
}

func TestEvaluateQuality_LongSession(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Saturday, "08:00", "12:00")}
	r := evaluate(blocks, []Booking{booked(7, domain.Saturday, "08:00", "10:00", domain.CommitmentFlexible)}, 0)
	require.Equal(t, []string{CodeLongSession}, codes(r))
	assert.Contains(t, r.Recommendations[0].Message, "session 7")
}

func TestEvaluateQuality_CatchUpBacklog(t *testing.T) {
	blocks := []domain.TimeBlock{block(1, domain.Monday, "08:00", "12:00")}

	assert.NotContains(t, codes(evaluate(blocks, nil, 2)), CodeCatchUpBacklog)

	warn := evaluate(blocks, nil, 3)
	require.Equal(t, []string{CodeCatchUpBacklog}, codes(warn))
	assert.Equal(t, domain.SeverityWarning, warn.Recommendations[0].Severity)

	crit := evaluate(blocks, nil, 6)
	assert.Equal(t, domain.SeverityCritical, crit.Recommendations[0].Severity)
	assert.Equal(t, 75, crit.Score)
}

func TestEvaluateQuality_SortedBySeverityThenDay(t *testing.T) {
	blocks := []domain.TimeBlock{
		block(1, domain.Monday, "09:00", "10:00"),
		block(2, domain.Friday, "09:00", "10:00"),
	}
	over := booked(2, domain.Friday, "09:00", "10:00", domain.CommitmentFlexible)
	over.Minutes = 90
	bookings := []Booking{booked(1, domain.Monday, "09:00", "10:00", domain.CommitmentFlexible), over}

	r := evaluate(blocks, bookings, 6)
	require.GreaterOrEqual(t, len(r.Recommendations), 3)
	assert.Equal(t, domain.SeverityCritical, r.Recommendations[0].Severity)
	assert.Equal(t, CodeCatchUpBacklog, r.Recommendations[0].Code, "week-level sorts before Monday")
	assert.Equal(t, CodeOverCapacity, r.Recommendations[1].Code)
	for i := 1; i < len(r.Recommendations); i++ {
		assert.GreaterOrEqual(t, r.Recommendations[i-1].Severity.Rank(), r.Recommendations[i].Severity.Rank())
	}
}

func TestEvaluateQuality_ScoreFloorsAtZero(t *testing.T) {
	var blocks []domain.TimeBlock
	var bookings []Booking
	for i, d := range domain.AllWeekdays {
		blocks = append(blocks, block(int64(i+1), d, "09:00", "10:00"))
		b := booked(int64(i+1), d, "09:00", "10:00", domain.CommitmentFlexible)
		b.Minutes = 120
		bookings = append(bookings, b)
	}
	assert.Equal(t, 0, evaluate(blocks, bookings, 6).Score)
}
