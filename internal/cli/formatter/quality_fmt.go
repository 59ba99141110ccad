package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
)

// FormatQuality renders the score and the recommendations, most severe first.
func FormatQuality(childName string, rep *app.QualityReport) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("%s · week of %s", childName, FormatDate(rep.WeekStart))) + "\n\n")
	fmt.Fprintf(&b, "Score: %s\n", scoreStyle(rep.Score))

	if len(rep.Recommendations) == 0 {
		b.WriteString("\n" + StyleGreen.Render("No issues found.") + "\n")
		return RenderBox("Plan quality", b.String())
	}

	b.WriteString("\n")
	for _, rec := range rep.Recommendations {
		where := ""
		if rec.Day.Valid() {
			where = Bold(rec.Day.Short()) + " "
		}
		fmt.Fprintf(&b, "%s  %s%s %s\n", SeverityIndicator(rec.Severity), where, rec.Message, Dim("["+rec.Code+"]"))
	}
	return RenderBox("Plan quality", b.String())
}

func scoreStyle(score int) string {
	text := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 80:
		return StyleGreen.Render(text)
	case score >= 50:
		return StyleYellow.Render(text)
	default:
		return StyleRed.Render(text)
	}
}
