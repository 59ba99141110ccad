package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

const capacityBarWidth = 12

// FormatCapacity renders the per-day traffic light plus the week summary.
func FormatCapacity(childName string, wc *app.WeeklyCapacity) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("%s · week of %s", childName, FormatDate(wc.WeekStart))) + "\n\n")
	b.WriteString(renderDays(wc.Days))
	b.WriteString("\n")
	b.WriteString(formatSummary(wc.Summary))
	return RenderBox("Capacity", b.String())
}

func renderDays(days []scheduler.DayCapacity) string {
	headers := []string{"DAY", "AVAILABLE", "SCHEDULED", "REMAINING", "LOAD", "STATUS"}
	align := []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		if d.AvailableMinutes == 0 && d.ScheduledMinutes == 0 {
			rows = append(rows, []string{Dim(d.Day.Short()), Dim("--"), Dim("--"), Dim("--"), "", Dim("no blocks")})
			continue
		}
		remaining := FormatMinutes(d.RemainingMinutes)
		if d.Overbooked() {
			remaining = StyleRed.Render("-" + FormatMinutes(d.ScheduledMinutes-d.AvailableMinutes))
		}
		rows = append(rows, []string{
			Bold(d.Day.Short()),
			FormatMinutes(d.AvailableMinutes),
			FormatMinutes(d.ScheduledMinutes),
			remaining,
			RenderUtilization(d.UtilizationPercent, capacityBarWidth),
			CapacityIndicator(d.Status),
		})
	}
	return RenderAlignedTable(headers, align, rows)
}

func formatSummary(s scheduler.WeekSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s of %s booked (%d%%)\n",
		HealthIndicator(s.Health), FormatMinutes(s.TotalScheduled), FormatMinutes(s.TotalAvailable), s.UtilizationPercent)
	fmt.Fprintf(&b, "Sessions: %d done, %d skipped, %d scheduled · completion %.0f%%\n",
		s.CompletedSessions, s.SkippedSessions, s.ScheduledSessions, s.CompletionRate*100)
	if s.CatchUpCount > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("%d catch-up session(s) pending", s.CatchUpCount)) + "\n")
	}
	return b.String()
}

// FormatAnalysis renders flagged days and the moves that would relieve them.
func FormatAnalysis(childName string, rep *app.AnalysisReport) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("%s · week of %s", childName, FormatDate(rep.Capacity.WeekStart))) + "\n\n")

	if len(rep.Flagged) == 0 {
		b.WriteString(StyleGreen.Render("Every day is green.") + "\n")
	} else {
		b.WriteString(Header("Strained days") + "\n")
		for _, d := range rep.Flagged {
			fmt.Fprintf(&b, "  %s  %s  %s\n", Bold(d.Day.Short()), RenderUtilization(d.UtilizationPercent, capacityBarWidth), CapacityIndicator(d.Status))
		}
	}

	if len(rep.Moves) > 0 {
		b.WriteString("\n" + Header("Suggested moves") + "\n")
		headers := []string{"SESSION", "FROM", "TO", "LENGTH"}
		rows := make([][]string, 0, len(rep.Moves))
		for _, m := range rep.Moves {
			rows = append(rows, []string{
				fmt.Sprintf("#%d", m.SessionID),
				fmt.Sprintf("%s %s", m.From.Short(), m.FromSlot),
				StyleGreen.Render(formatSlot(m.To)),
				FormatMinutes(m.Minutes),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}

	writeWarnings(&b, rep.Warnings)
	return RenderBox("Analysis", b.String())
}
