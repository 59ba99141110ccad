package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Children   service.ChildService
	Topics     service.TopicService
	Blocks     service.TimeBlockService
	Sessions   service.SessionService
	Scheduling service.SchedulingService
	Capacity   service.CapacityService
	Quality    service.QualityService
	Events     service.EventService

	// IsInteractive reports whether stdin is a terminal. Forms and the week
	// browser only run when it returns true.
	IsInteractive func() bool
	// Now overrides the wall clock; nil means time.Now().UTC().
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "cadence" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Weekly study planner with catch-up scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Int64("child", 0, "Child ID (optional when only one child exists)")

	root.AddCommand(
		newChildCmd(app),
		newTopicCmd(app),
		newBlockCmd(app),
		newSessionCmd(app),
		newSkipCmd(app),
		newSuggestCmd(app),
		newCatchUpCmd(app),
		newCapacityCmd(app),
		newAnalyzeCmd(app),
		newQualityCmd(app),
		newEventsCmd(app),
		newWeekCmd(app),
	)

	return root
}

// resolveChild picks the child named by --child, or the only child when the
// flag is unset.
func resolveChild(ctx context.Context, cmd *cobra.Command, app *App) (*domain.Child, error) {
	id, err := cmd.Flags().GetInt64("child")
	if err != nil {
		return nil, err
	}
	if id > 0 {
		return app.Children.Get(ctx, id)
	}

	children, err := app.Children.List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(children) {
	case 0:
		return nil, fmt.Errorf("no children yet; add one with: cadence child add NAME")
	case 1:
		return children[0], nil
	default:
		return nil, fmt.Errorf("%d children found; pass --child ID", len(children))
	}
}

// topicNames maps topic IDs to display names for session listings.
func topicNames(ctx context.Context, app *App) (map[int64]string, error) {
	topics, err := app.Topics.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(topics))
	for _, t := range topics {
		names[t.ID] = t.Name
	}
	return names, nil
}
