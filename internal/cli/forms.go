package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// cadenceHuhTheme returns a huh theme using the formatter palette.
func cadenceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateClock(s string) error {
	_, err := domain.ParseClock(s)
	return err
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

func weekdayOptions() []huh.Option[domain.Weekday] {
	opts := make([]huh.Option[domain.Weekday], 0, len(domain.AllWeekdays))
	for _, d := range domain.AllWeekdays {
		opts = append(opts, huh.NewOption(d.String(), d))
	}
	return opts
}

func clockInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateClock)
}

// timeBlockFormState holds the raw form strings until submit.
type timeBlockFormState struct {
	Day   domain.Weekday
	Start string
	End   string
	Label string
}

// timeBlockForm collects a block's day, times and label. Pre-filled values
// come from state so the same form serves add and edit.
func timeBlockForm(state *timeBlockFormState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.Weekday]().
				Title("Day").
				Options(weekdayOptions()...).
				Value(&state.Day),
			clockInput("Start (HH:MM)", "09:00", &state.Start),
			clockInput("End (HH:MM)", "11:00", &state.End),
			huh.NewInput().
				Title("Label").
				Placeholder("optional").
				Value(&state.Label),
		),
	).WithTheme(cadenceHuhTheme()).WithShowHelp(false)
}

// input converts the submitted form into a block input.
func (s *timeBlockFormState) input() (app.TimeBlockInput, error) {
	start, err := domain.ParseClock(s.Start)
	if err != nil {
		return app.TimeBlockInput{}, err
	}
	end, err := domain.ParseClock(s.End)
	if err != nil {
		return app.TimeBlockInput{}, err
	}
	return app.TimeBlockInput{Day: s.Day, Start: start, End: end, Label: strings.TrimSpace(s.Label)}, nil
}

// sessionFormState backs the interactive "session add".
type sessionFormState struct {
	TopicID    int64
	Minutes    string
	Commitment domain.CommitmentType
}

func sessionForm(topics []*domain.Topic, state *sessionFormState) *huh.Form {
	topicOpts := make([]huh.Option[int64], 0, len(topics))
	for _, t := range topics {
		label := t.Name
		if t.Subject != "" {
			label = fmt.Sprintf("%s (%s)", t.Name, t.Subject)
		}
		topicOpts = append(topicOpts, huh.NewOption(label, t.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Topic").
				Options(topicOpts...).
				Value(&state.TopicID),
			huh.NewInput().
				Title("Estimated minutes").
				Placeholder("60").
				Value(&state.Minutes).
				Validate(validatePositiveInt),
			huh.NewSelect[domain.CommitmentType]().
				Title("Commitment").
				Options(
					huh.NewOption("Flexible: may move anywhere", domain.CommitmentFlexible),
					huh.NewOption("Preferred: keep if possible", domain.CommitmentPreferred),
					huh.NewOption("Fixed: same weekday only", domain.CommitmentFixed),
				).
				Value(&state.Commitment),
		),
	).WithTheme(cadenceHuhTheme()).WithShowHelp(false)
}
