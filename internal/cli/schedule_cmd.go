package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSkipCmd(a *App) *cobra.Command {
	var date *time.Time
	var reason string

	cmd := &cobra.Command{
		Use:   "skip SESSION_ID",
		Short: "Skip one occurrence of a scheduled session and queue a catch-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sessionID, err := parseID(args[0], "session")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			now := a.now()
			c, err := a.Scheduling.SkipSessionDay(ctx, app.SkipRequest{
				Now:       &now,
				ChildID:   child.ID,
				SessionID: sessionID,
				Date:      dateOr(date, now),
				Reason:    reason,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped session #%d on %s; catch-up #%d queued at priority %d\n",
				sessionID, formatter.FormatDate(c.OriginalDate), c.ID, c.Priority)
			return nil
		},
	}

	dateFlag(cmd.Flags(), &date, "date", "Occurrence to skip (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the session was missed")

	return cmd
}

func newSuggestCmd(a *App) *cobra.Command {
	var date *time.Time
	var nextWeek bool
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest SESSION_ID",
		Short: "Suggest free slots to make up a missed occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sessionID, err := parseID(args[0], "session")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			now := a.now()
			res, err := a.Scheduling.GenerateRescheduleSuggestions(ctx, app.RescheduleRequest{
				Now:             &now,
				ChildID:         child.ID,
				SessionID:       sessionID,
				OriginalDate:    dateOr(date, now),
				IncludeNextWeek: nextWeek,
				Limit:           limit,
			})
			if err != nil {
				return err
			}
			names, err := topicNames(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuggestions(res, names[res.Session.TopicID]))
			return nil
		},
	}

	dateFlag(cmd.Flags(), &date, "date", "Missed date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&nextWeek, "next-week", false, "Also search the following week")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum suggestions (default from config)")

	return cmd
}

func newCatchUpCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catchup",
		Aliases: []string{"catch-up"},
		Short:   "Inspect and redistribute the catch-up queue",
	}
	cmd.AddCommand(
		newCatchUpListCmd(a),
		newCatchUpPriorityCmd(a),
		newCatchUpDiscardCmd(a),
		newCatchUpRedistributeCmd(a),
	)
	return cmd
}

func newCatchUpListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending catch-ups in queue order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			items, err := a.Scheduling.PendingCatchUps(ctx, child.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatchUps(items))
			return nil
		},
	}
}

func newCatchUpPriorityCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "priority CATCHUP_ID PRIORITY",
		Short: "Set a pending catch-up's priority (1 lowest, 5 highest)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseID(args[0], "catch-up")
			if err != nil {
				return err
			}
			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid priority %q", args[1])
			}
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			c, err := a.Scheduling.UpdateCatchUpPriority(ctx, child.ID, id, priority)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catch-up #%d priority set to %d\n", c.ID, c.Priority)
			return nil
		},
	}
}

func newCatchUpDiscardCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discard CATCHUP_ID",
		Short: "Drop a catch-up without making it up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseID(args[0], "catch-up")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			if err := a.Scheduling.DiscardCatchUp(ctx, child.ID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Discarded catch-up #%d\n", id)
			return nil
		},
	}
}

func newCatchUpRedistributeCmd(a *App) *cobra.Command {
	var maxSessions int
	var nextWeek bool
	var from *time.Time

	cmd := &cobra.Command{
		Use:   "redistribute",
		Short: "Place pending catch-ups into free time, highest priority first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			now := a.now()
			res, err := a.Scheduling.RedistributeCatchUpSessions(ctx, app.RedistributeRequest{
				Now:             &now,
				ChildID:         child.ID,
				MaxSessions:     maxSessions,
				From:            from,
				IncludeNextWeek: nextWeek,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRedistribution(res))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSessions, "max", 0, "Most catch-ups to place (default from config)")
	cmd.Flags().BoolVar(&nextWeek, "next-week", false, "Also use the following week")
	dateFlag(cmd.Flags(), &from, "from", "First date to fill (YYYY-MM-DD, default today)")

	return cmd
}
