package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// FormatSessions lists a child's sessions. topics maps topic ID to name.
func FormatSessions(sessions []domain.Session, topics map[int64]string) string {
	if len(sessions) == 0 {
		return RenderBox("Sessions", Dim("No sessions yet. Add one with: cadence session add --topic ID"))
	}
	headers := []string{"ID", "TOPIC", "LENGTH", "STATUS", "COMMITMENT", "WHEN"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		name := topics[s.TopicID]
		if name == "" {
			name = fmt.Sprintf("topic #%d", s.TopicID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", s.ID),
			Bold(name),
			FormatMinutes(s.EstimatedMinutes),
			StatusPill(s.Status),
			CommitmentBadge(s.Commitment),
			FormatPlacement(s.Placement),
		})
	}
	return RenderBox("Sessions", RenderTable(headers, rows))
}

// FormatSession renders one session after a change.
func FormatSession(s *domain.Session, topicName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold(fmt.Sprintf("#%d", s.ID)), topicName)
	fmt.Fprintf(&b, "  %s · %s · %s\n", StatusPill(s.Status), CommitmentBadge(s.Commitment), FormatMinutes(s.EstimatedMinutes))
	if s.Placement != nil {
		fmt.Fprintf(&b, "  %s\n", FormatPlacement(s.Placement))
	}
	if s.EvidenceNote != "" {
		fmt.Fprintf(&b, "  %s %s\n", Dim("note:"), s.EvidenceNote)
	}
	if s.EvidenceURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", Dim("link:"), StyleBlue.Render(s.EvidenceURL))
	}
	return b.String()
}

// FormatBlocks renders availability grouped by day.
func FormatBlocks(blocks []domain.TimeBlock) string {
	if len(blocks) == 0 {
		return RenderBox("Time blocks", Dim("No time blocks. Add one with: cadence block add --day mon --start 09:00 --end 11:00"))
	}
	sorted := append([]domain.TimeBlock(nil), blocks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].Start < sorted[j].Start
	})

	headers := []string{"ID", "DAY", "TIME", "LENGTH", "LABEL"}
	rows := make([][]string, 0, len(sorted))
	total := 0
	for _, blk := range sorted {
		total += blk.DurationMinutes()
		label := blk.Label
		if label == "" {
			label = Dim("--")
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", blk.ID),
			Bold(blk.Day.Short()),
			blk.Interval().String(),
			FormatMinutes(blk.DurationMinutes()),
			label,
		})
	}
	out := RenderTable(headers, rows) + "\n" + Dim(fmt.Sprintf("%s available per week", FormatMinutes(total)))
	return RenderBox("Time blocks", out)
}

// FormatEvents renders the event log newest first.
func FormatEvents(events []domain.Event, now time.Time) string {
	if len(events) == 0 {
		return RenderBox("Events", Dim("No events recorded."))
	}
	headers := []string{"WHEN", "EVENT", "SESSION", "DETAILS"}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			Dim(HumanTimestampFrom(ev.OccurredAt, now)),
			eventLabel(ev.Kind),
			fmt.Sprintf("#%d", ev.SessionID),
			payloadSummary(ev.Payload),
		})
	}
	return RenderBox("Events", RenderTable(headers, rows))
}

func eventLabel(k domain.EventKind) string {
	label := strings.ReplaceAll(string(k), "_", " ")
	switch k {
	case domain.EventSessionSkipped, domain.EventCatchUpDiscarded:
		return StyleYellow.Render(label)
	case domain.EventCatchUpRedistributed, domain.EventSessionScheduled:
		return StyleGreen.Render(label)
	default:
		return StyleBlue.Render(label)
	}
}

// payloadSummary prints key=value pairs in key order.
func payloadSummary(p map[string]string) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, Dim(k+"=")+p[k])
	}
	return strings.Join(parts, " ")
}

func FormatChildren(children []*domain.Child) string {
	if len(children) == 0 {
		return RenderBox("Children", Dim("No children yet. Add one with: cadence child add NAME"))
	}
	rows := make([][]string, 0, len(children))
	for _, c := range children {
		rows = append(rows, []string{fmt.Sprintf("#%d", c.ID), Bold(c.Name)})
	}
	return RenderBox("Children", RenderTable([]string{"ID", "NAME"}, rows))
}

func FormatTopics(topics []*domain.Topic) string {
	if len(topics) == 0 {
		return RenderBox("Topics", Dim("No topics yet. Add one with: cadence topic add NAME"))
	}
	rows := make([][]string, 0, len(topics))
	for _, t := range topics {
		subject := t.Subject
		if subject == "" {
			subject = Dim("--")
		}
		rows = append(rows, []string{fmt.Sprintf("#%d", t.ID), Bold(t.Name), StylePurple.Render(subject)})
	}
	return RenderBox("Topics", RenderTable([]string{"ID", "NAME", "SUBJECT"}, rows))
}
