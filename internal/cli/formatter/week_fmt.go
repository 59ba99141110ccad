package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// WeekView is everything needed to draw one child's week.
type WeekView struct {
	ChildName string
	WeekStart time.Time
	Days      []scheduler.DayCapacity
	Blocks    []domain.TimeBlock
	Sessions  []domain.Session
	Topics    map[int64]string
	// Cursor highlights one day in the interactive view; zero highlights none.
	Cursor domain.Weekday
}

type weekEntry struct {
	start domain.Clock
	text  string
}

// FormatWeek draws the week day by day: the load bar, then blocks and
// sessions in time order.
func FormatWeek(v WeekView) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("%s · week of %s", v.ChildName, FormatDate(v.WeekStart))) + "\n")

	for i, day := range domain.AllWeekdays {
		date := v.WeekStart.AddDate(0, 0, i)
		title := fmt.Sprintf("%s %s", day.Short(), date.Format("Jan 2"))
		marker := "  "
		if day == v.Cursor {
			marker = StyleHeader.Render("▸ ")
			title = StyleHeader.Render(title)
		} else {
			title = Bold(title)
		}
		line := marker + title
		if i < len(v.Days) && v.Days[i].AvailableMinutes > 0 {
			line += "  " + RenderUtilization(v.Days[i].UtilizationPercent, 8)
		}
		b.WriteString("\n" + line + "\n")

		entries := dayEntries(v, day, date)
		if len(entries) == 0 {
			b.WriteString("    " + Dim("free") + "\n")
			continue
		}
		for _, e := range entries {
			b.WriteString("    " + e.text + "\n")
		}
	}
	return RenderBox("Week", b.String())
}

func dayEntries(v WeekView, day domain.Weekday, date time.Time) []weekEntry {
	var out []weekEntry
	for _, blk := range v.Blocks {
		if blk.Day != day {
			continue
		}
		label := blk.Label
		if label == "" {
			label = "available"
		}
		out = append(out, weekEntry{start: blk.Start, text: Dim(fmt.Sprintf("%s %s", blk.Interval(), label))})
	}
	for _, s := range v.Sessions {
		if s.Placement == nil || s.DeletedAt != nil || !s.Placement.AppliesTo(date) {
			continue
		}
		name := v.Topics[s.TopicID]
		if name == "" {
			name = fmt.Sprintf("topic #%d", s.TopicID)
		}
		text := fmt.Sprintf("%s %s %s", s.Placement.Interval(), name, StatusPill(s.Status))
		out = append(out, weekEntry{start: s.Placement.Start, text: text})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}
