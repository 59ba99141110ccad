package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func TestRenderTable_AlignsColumns(t *testing.T) {
	got := stripANSI(RenderTable([]string{"A", "BB"}, [][]string{{"x", "y"}, {StyleRed.Render("long"), "z"}}))
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, []string{
		"A     BB",
		"────  ──",
		"x     y",
		"long  z",
	}, lines)
}

func TestRenderAlignedTable_RightAlign(t *testing.T) {
	got := stripANSI(RenderAlignedTable([]string{"N", "MIN"}, []Align{AlignLeft, AlignRight}, [][]string{{"a", "5"}}))
	assert.Contains(t, got, "a    5")
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderUtilization(t *testing.T) {
	tests := []struct {
		name   string
		pct    int
		filled int
		label  string
	}{
		{"empty", 0, 0, "  0%"},
		{"partial", 45, 4, " 45%"},
		{"full", 100, 10, "100%"},
		{"overbooked clamps bar", 150, 10, "150%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderUtilization(tt.pct, 10))
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.Equal(t, 10-tt.filled, strings.Count(got, emptyBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "1h 30m", FormatMinutes(90))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Jun 10, 2025", HumanTimestampFrom(now.AddDate(0, 0, -6), now))
}

func TestFormatPlacement(t *testing.T) {
	assert.Equal(t, "--", stripANSI(FormatPlacement(nil)))
	weekly := &domain.Placement{Day: domain.Wednesday, Start: domain.MustClock(9, 0), End: domain.MustClock(10, 30)}
	assert.Equal(t, "Wed 09:00-10:30", stripANSI(FormatPlacement(weekly)))
	d := monday
	dated := &domain.Placement{Day: domain.Monday, Start: domain.MustClock(14, 0), End: domain.MustClock(15, 0), Date: &d}
	assert.Equal(t, "Mon 14:00-15:00 2025-06-16", stripANSI(FormatPlacement(dated)))
}

func TestFormatCapacity(t *testing.T) {
	days := make([]scheduler.DayCapacity, 7)
	for i := range days {
		days[i] = scheduler.DayCapacity{Day: domain.Weekday(i + 1), Status: domain.CapacityGreen}
	}
	days[0] = scheduler.DayCapacity{Day: domain.Monday, AvailableMinutes: 120, ScheduledMinutes: 108, RemainingMinutes: 12, UtilizationPercent: 90, Status: domain.CapacityRed}
	days[1] = scheduler.DayCapacity{Day: domain.Tuesday, AvailableMinutes: 60, ScheduledMinutes: 90, UtilizationPercent: 150, Status: domain.CapacityRed}
	wc := &app.WeeklyCapacity{
		WeekStart: monday,
		Days:      days,
		Summary: scheduler.WeekSummary{
			TotalAvailable: 180, TotalScheduled: 198, UtilizationPercent: 110,
			CompletedSessions: 3, SkippedSessions: 1, ScheduledSessions: 4,
			CompletionRate: 0.75, CatchUpCount: 1, Health: domain.HealthModerate,
		},
	}

	got := stripANSI(FormatCapacity("Ada", wc))
	assert.Contains(t, got, "CAPACITY")
	assert.Contains(t, got, "Ada · week of Mon 2025-06-16")
	assert.Contains(t, got, "● RED")
	assert.Contains(t, got, "-30m")
	assert.Contains(t, got, "no blocks")
	assert.Contains(t, got, "Moderate")
	assert.Contains(t, got, "completion 75%")
	assert.Contains(t, got, "1 catch-up session(s) pending")
}

func TestFormatAnalysis(t *testing.T) {
	rep := &app.AnalysisReport{
		Capacity: &app.WeeklyCapacity{WeekStart: monday},
		Flagged: []scheduler.DayCapacity{
			{Day: domain.Monday, UtilizationPercent: 95, Status: domain.CapacityRed},
		},
		Moves: []scheduler.Move{{
			SessionID: 7, From: domain.Monday,
			FromSlot: domain.Interval{Start: domain.MustClock(9, 0), End: domain.MustClock(10, 0)},
			To:       scheduler.Slot{Date: monday.AddDate(0, 0, 1), Day: domain.Tuesday, Interval: domain.Interval{Start: domain.MustClock(9, 0), End: domain.MustClock(10, 0)}},
			Minutes:  60,
		}},
	}
	got := stripANSI(FormatAnalysis("Ada", rep))
	assert.Contains(t, got, "STRAINED DAYS")
	assert.Contains(t, got, "#7")
	assert.Contains(t, got, "Mon 09:00-10:00")
	assert.Contains(t, got, "Tue 09:00-10:00 2025-06-17")

	calm := stripANSI(FormatAnalysis("Ada", &app.AnalysisReport{Capacity: &app.WeeklyCapacity{WeekStart: monday}, Warnings: []string{"no time blocks defined"}}))
	assert.Contains(t, calm, "Every day is green.")
	assert.Contains(t, calm, "WARNING: no time blocks defined")
}

func TestFormatSuggestions(t *testing.T) {
	res := &app.RescheduleResult{
		Session: &domain.Session{ID: 3, EstimatedMinutes: 45, Commitment: domain.CommitmentFixed},
		Slots: []scheduler.Slot{
			{Date: monday.AddDate(0, 0, 1), Day: domain.Tuesday, Interval: domain.Interval{Start: domain.MustClock(9, 0), End: domain.MustClock(9, 45)}},
		},
		Warnings: []string{"only one option"},
	}
	got := stripANSI(FormatSuggestions(res, "Fractions"))
	assert.Contains(t, got, "#3 Fractions")
	assert.Contains(t, got, "fixed")
	assert.Contains(t, got, "Tue 2025-06-17")
	assert.Contains(t, got, "09:00-09:45")
	assert.Contains(t, got, "WARNING: only one option")
}

func TestFormatRedistribution(t *testing.T) {
	d := monday.AddDate(0, 0, 2)
	res := &app.RedistributeResult{
		Redistributed: []*domain.CatchUpSession{{
			ID: 1, OriginalSessionID: 4, OriginalDate: monday,
			Placement: &domain.Placement{Day: domain.Wednesday, Start: domain.MustClock(10, 0), End: domain.MustClock(11, 0), Date: &d},
		}},
		StillPending: 2,
	}
	got := stripANSI(FormatRedistribution(res))
	assert.Contains(t, got, "Wed 10:00-11:00 2025-06-18")
	assert.Contains(t, got, "1 placed, 2 still pending")

	empty := stripANSI(FormatRedistribution(&app.RedistributeResult{}))
	assert.Contains(t, empty, "No catch-up sessions were placed.")
}

func TestFormatCatchUps(t *testing.T) {
	assert.Contains(t, stripANSI(FormatCatchUps(nil)), "Nothing pending.")

	got := stripANSI(FormatCatchUps([]*domain.CatchUpSession{
		{ID: 2, OriginalSessionID: 9, OriginalDate: monday, Priority: 5, Reason: "sick"},
		{ID: 3, OriginalSessionID: 9, OriginalDate: monday.AddDate(0, 0, 7), Priority: 1},
	}))
	assert.Contains(t, got, "★★★★★")
	assert.Contains(t, got, "★☆☆☆☆")
	assert.Contains(t, got, "sick")
}

func TestFormatQuality(t *testing.T) {
	rep := &app.QualityReport{
		WeekStart: monday,
		Score:     63,
		Recommendations: []scheduler.Recommendation{
			{Severity: domain.SeverityCritical, Code: scheduler.CodeOverCapacity, Day: domain.Tuesday, Message: "booked beyond availability"},
			{Severity: domain.SeverityInfo, Code: scheduler.CodeCatchUpBacklog, Message: "2 catch-ups pending"},
		},
	}
	got := stripANSI(FormatQuality("Ada", rep))
	assert.Contains(t, got, "Score: 63/100")
	assert.Contains(t, got, "▲ CRITICAL  Tue booked beyond availability [OVER_CAPACITY]")
	assert.Contains(t, got, "○ INFO  2 catch-ups pending [CATCH_UP_BACKLOG]")

	clean := stripANSI(FormatQuality("Ada", &app.QualityReport{WeekStart: monday, Score: 100}))
	assert.Contains(t, clean, "No issues found.")
}

func TestFormatSessionsAndBlocks(t *testing.T) {
	sessions := []domain.Session{
		{ID: 1, TopicID: 10, EstimatedMinutes: 60, Status: domain.SessionScheduled, Commitment: domain.CommitmentFlexible,
			Placement: &domain.Placement{Day: domain.Monday, Start: domain.MustClock(9, 0), End: domain.MustClock(10, 0)}},
		{ID: 2, TopicID: 11, EstimatedMinutes: 30, Status: domain.SessionBacklog, Commitment: domain.CommitmentPreferred},
	}
	got := stripANSI(FormatSessions(sessions, map[int64]string{10: "Fractions"}))
	assert.Contains(t, got, "Fractions")
	assert.Contains(t, got, "topic #11")
	assert.Contains(t, got, "● scheduled")
	assert.Contains(t, got, "Mon 09:00-10:00")

	blocks := []domain.TimeBlock{
		{ID: 2, Day: domain.Wednesday, Start: domain.MustClock(14, 0), End: domain.MustClock(15, 0)},
		{ID: 1, Day: domain.Monday, Start: domain.MustClock(9, 0), End: domain.MustClock(11, 0), Label: "morning"},
	}
	out := stripANSI(FormatBlocks(blocks))
	assert.Less(t, strings.Index(out, "#1"), strings.Index(out, "#2"), "blocks sorted by day")
	assert.Contains(t, out, "3h available per week")
}

func TestFormatEvents(t *testing.T) {
	now := monday.Add(12 * time.Hour)
	got := stripANSI(FormatEvents([]domain.Event{{
		Kind: domain.EventSessionSkipped, SessionID: 4,
		Payload: map[string]string{"reason": "sick", "date": "2025-06-16"}, OccurredAt: now.Add(-2 * time.Hour),
	}}, now))
	assert.Contains(t, got, "session skipped")
	assert.Contains(t, got, "2h ago")
	assert.Contains(t, got, "date=2025-06-16 reason=sick")
}

func TestFormatWeek(t *testing.T) {
	d := monday.AddDate(0, 0, 7)
	v := WeekView{
		ChildName: "Ada",
		WeekStart: monday,
		Blocks:    []domain.TimeBlock{{ID: 1, Day: domain.Monday, Start: domain.MustClock(9, 0), End: domain.MustClock(11, 0), Label: "morning"}},
		Sessions: []domain.Session{
			{ID: 1, TopicID: 10, Status: domain.SessionScheduled, Placement: &domain.Placement{Day: domain.Monday, Start: domain.MustClock(9, 0), End: domain.MustClock(10, 0)}},
			{ID: 2, TopicID: 10, Status: domain.SessionScheduled, Placement: &domain.Placement{Day: domain.Monday, Start: domain.MustClock(10, 0), End: domain.MustClock(11, 0), Date: &d}},
		},
		Topics: map[int64]string{10: "Fractions"},
		Cursor: domain.Monday,
	}
	got := stripANSI(FormatWeek(v))
	assert.Contains(t, got, "▸ Mon Jun 16")
	assert.Contains(t, got, "09:00-11:00 morning")
	assert.Contains(t, got, "09:00-10:00 Fractions")
	assert.NotContains(t, got, "10:00-11:00 Fractions", "dated placement belongs to next week")
	assert.Contains(t, got, "free")
}
