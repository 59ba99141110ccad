package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CapacityStyle maps a traffic-light status onto its color.
func CapacityStyle(status domain.CapacityStatus) lipgloss.Style {
	switch status {
	case domain.CapacityRed:
		return StyleRed
	case domain.CapacityYellow:
		return StyleYellow
	case domain.CapacityGreen:
		return StyleGreen
	default:
		return StyleDim
	}
}

// CapacityIndicator returns a colored dot plus the status name, e.g. "● RED".
func CapacityIndicator(status domain.CapacityStatus) string {
	return CapacityStyle(status).Render("● " + strings.ToUpper(string(status)))
}

func SeverityIndicator(sev domain.Severity) string {
	switch sev {
	case domain.SeverityCritical:
		return StyleRed.Render("▲ CRITICAL")
	case domain.SeverityWarning:
		return StyleYellow.Render("● WARNING")
	default:
		return StyleBlue.Render("○ INFO")
	}
}

// HealthIndicator colors the weekly plan health label.
func HealthIndicator(h domain.PlanHealth) string {
	switch h {
	case domain.HealthOverloaded:
		return StyleRed.Render("▲ " + string(h))
	case domain.HealthBehind, domain.HealthNeedsAttention:
		return StyleYellow.Render("● " + string(h))
	case domain.HealthOnTrack:
		return StyleGreen.Render("● " + string(h))
	default:
		return StyleBlue.Render("● " + string(h))
	}
}

// StatusPill renders a session status.
func StatusPill(status domain.SessionStatus) string {
	switch status {
	case domain.SessionBacklog:
		return StyleDim.Render("○ backlog")
	case domain.SessionPlanned:
		return StyleBlue.Render("◐ planned")
	case domain.SessionScheduled:
		return StyleGreen.Render("● scheduled")
	case domain.SessionDone:
		return StyleDim.Render("✔ done")
	default:
		return StyleDim.Render(string(status))
	}
}

func CommitmentBadge(c domain.CommitmentType) string {
	switch c {
	case domain.CommitmentFixed:
		return StyleRed.Render("fixed")
	case domain.CommitmentPreferred:
		return StyleYellow.Render("preferred")
	default:
		return StylePurple.Render("flexible")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warning renders one soft warning line.
func Warning(text string) string {
	return StyleYellow.Render("  WARNING: " + text)
}
