package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/scheduler"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderUtilization renders a load bar like [████░░░░]  45%. Unlike a
// progress bar, fuller is worse: the color follows the capacity thresholds.
// Overbooked days show a full bar with the real percentage.
func RenderUtilization(pct int, width int) string {
	if width < 2 {
		width = 2
	}
	filled := min(width, max(0, pct*width/100))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	style := CapacityStyle(scheduler.ClassifyUtilization(pct))
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}
