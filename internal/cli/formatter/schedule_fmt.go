package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

func formatSlot(s scheduler.Slot) string {
	return fmt.Sprintf("%s %s %s", s.Day.Short(), s.Interval, Dim(s.Date.Format(domain.DateLayout)))
}

// FormatSuggestions lists reschedule candidates for one skipped session.
func FormatSuggestions(res *app.RescheduleResult, topicName string) string {
	var b strings.Builder
	sess := res.Session
	fmt.Fprintf(&b, "%s %s · %s · %s\n\n",
		Bold(fmt.Sprintf("#%d", sess.ID)), topicName, FormatMinutes(sess.EstimatedMinutes), CommitmentBadge(sess.Commitment))

	if len(res.Slots) > 0 {
		headers := []string{"#", "DATE", "TIME"}
		rows := make([][]string, 0, len(res.Slots))
		for i, s := range res.Slots {
			rows = append(rows, []string{
				Dim(fmt.Sprintf("%d", i+1)),
				FormatDate(s.Date),
				StyleGreen.Render(s.Interval.String()),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}

	writeWarnings(&b, res.Warnings)
	return RenderBox("Reschedule options", b.String())
}

// FormatRedistribution summarizes one redistribution run.
func FormatRedistribution(res *app.RedistributeResult) string {
	var b strings.Builder
	if len(res.Redistributed) == 0 {
		b.WriteString(Dim("No catch-up sessions were placed.") + "\n")
	} else {
		headers := []string{"CATCH-UP", "SESSION", "MISSED", "PLACED"}
		rows := make([][]string, 0, len(res.Redistributed))
		for _, c := range res.Redistributed {
			rows = append(rows, []string{
				fmt.Sprintf("#%d", c.ID),
				fmt.Sprintf("#%d", c.OriginalSessionID),
				FormatDate(c.OriginalDate),
				StyleGreen.Render(FormatPlacement(c.Placement)),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	fmt.Fprintf(&b, "\n%s placed, %s still pending\n",
		StyleGreen.Render(fmt.Sprintf("%d", len(res.Redistributed))),
		StyleYellow.Render(fmt.Sprintf("%d", res.StillPending)))
	writeWarnings(&b, res.Warnings)
	return RenderBox("Redistribution", b.String())
}

// FormatCatchUps lists pending catch-ups in queue order.
func FormatCatchUps(items []*domain.CatchUpSession) string {
	if len(items) == 0 {
		return RenderBox("Catch-up queue", Dim("Nothing pending."))
	}
	headers := []string{"ID", "SESSION", "MISSED", "PRIORITY", "REASON"}
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		reason := c.Reason
		if reason == "" {
			reason = Dim("--")
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", c.ID),
			fmt.Sprintf("#%d", c.OriginalSessionID),
			FormatDate(c.OriginalDate),
			priorityStars(c.Priority),
			reason,
		})
	}
	return RenderBox("Catch-up queue", RenderTable(headers, rows))
}

func priorityStars(p int) string {
	p = min(max(p, 0), domain.MaxCatchUpPriority)
	filled := strings.Repeat("★", p)
	empty := strings.Repeat("☆", domain.MaxCatchUpPriority-p)
	style := StyleDim
	switch {
	case p >= 4:
		style = StyleRed
	case p == domain.DefaultCatchUpPriority:
		style = StyleYellow
	}
	return style.Render(filled) + Dim(empty)
}
