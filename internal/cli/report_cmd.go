package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// capacityRequest builds the request shared by the weekly reports.
func capacityRequest(a *App, childID int64, week *time.Time) app.CapacityRequest {
	now := a.now()
	return app.CapacityRequest{Now: &now, ChildID: childID, WeekOf: week}
}

func newCapacityCmd(a *App) *cobra.Command {
	var week *time.Time

	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show the weekly capacity traffic light",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			wc, err := a.Capacity.GetWeeklyCapacity(ctx, capacityRequest(a, child.ID, week))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCapacity(child.Name, wc))
			return nil
		},
	}
	dateFlag(cmd.Flags(), &week, "week", "Any date in the week to show (default this week)")
	return cmd
}

func newAnalyzeCmd(a *App) *cobra.Command {
	var week *time.Time

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Find strained days and suggest flexible sessions to move",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			rep, err := a.Scheduling.GetCapacityAnalysis(ctx, capacityRequest(a, child.ID, week))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAnalysis(child.Name, rep))
			return nil
		},
	}
	dateFlag(cmd.Flags(), &week, "week", "Any date in the week to analyze (default this week)")
	return cmd
}

func newQualityCmd(a *App) *cobra.Command {
	var week *time.Time
	var strict bool

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Score the week's plan against the balance heuristics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			rep, err := a.Quality.GetQualityAnalysis(ctx, capacityRequest(a, child.ID, week))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatQuality(child.Name, rep))
			if strict && rep.HasCritical() {
				return fmt.Errorf("plan has critical issues")
			}
			return nil
		},
	}
	dateFlag(cmd.Flags(), &week, "week", "Any date in the week to score (default this week)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when a critical issue is found")
	return cmd
}

func newEventsCmd(a *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the child's recent schedule history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			events, err := a.Events.List(ctx, child.ID, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEvents(events, a.now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of events to show")
	return cmd
}
