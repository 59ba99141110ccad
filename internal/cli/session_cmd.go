package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage study sessions",
	}

	cmd.AddCommand(
		newSessionAddCmd(app),
		newSessionListCmd(app),
		newSessionScheduleCmd(app),
		newSessionUnscheduleCmd(app),
		newSessionStatusCmd(app),
		newSessionDoneCmd(app),
		newSessionRemoveCmd(app),
	)

	return cmd
}

func newSessionAddCmd(app *App) *cobra.Command {
	var topicID int64
	var minutes int
	var commitment string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a backlog session for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}

			ct := domain.CommitmentType(commitment)
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				topics, err := app.Topics.List(ctx)
				if err != nil {
					return err
				}
				if len(topics) == 0 {
					return fmt.Errorf("no topics yet; add one with: cadence topic add NAME")
				}
				state := &sessionFormState{Minutes: "60", Commitment: domain.CommitmentFlexible}
				if err := sessionForm(topics, state).Run(); err != nil {
					return err
				}
				topicID = state.TopicID
				minutes, _ = strconv.Atoi(state.Minutes)
				ct = state.Commitment
			} else {
				if topicID == 0 {
					return fmt.Errorf("required flag \"topic\" not set")
				}
				if ct, err = domain.ParseCommitmentType(commitment); err != nil {
					return err
				}
			}

			s, err := app.Sessions.Create(ctx, child.ID, topicID, minutes, ct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added session #%d (%s, %s) to %s's backlog\n", s.ID, formatter.FormatMinutes(s.EstimatedMinutes), s.Commitment, child.Name)
			return nil
		},
	}

	cmd.Flags().Int64Var(&topicID, "topic", 0, "Topic ID")
	cmd.Flags().IntVar(&minutes, "minutes", 60, "Estimated minutes")
	cmd.Flags().StringVar(&commitment, "commitment", string(domain.CommitmentFlexible), "fixed, preferred or flexible")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the session in with a form")

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List a child's sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			sessions, err := app.Sessions.List(ctx, child.ID)
			if err != nil {
				return err
			}
			names, err := topicNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessions(sessions, names))
			return nil
		},
	}
}

func newSessionScheduleCmd(app *App) *cobra.Command {
	var sc domain.ScheduleCommand
	var date *time.Time

	cmd := &cobra.Command{
		Use:   "schedule SESSION_ID",
		Short: "Place a session on the weekly calendar",
		Long: `Place a session on the weekly calendar.

Without --date the placement repeats every week on --day. With --date it
applies to that one day only, and --day defaults to the date's weekday.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sessionID, err := parseID(args[0], "session")
			if err != nil {
				return err
			}
			if date != nil {
				sc.Date = date
				if !cmd.Flags().Changed("day") {
					sc.Day = domain.WeekdayOf(*date)
				}
			}
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.Schedule(ctx, child.ID, sessionID, sc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled session #%d: %s\n", s.ID, formatter.FormatPlacement(s.Placement))
			return nil
		},
	}

	dayFlag(cmd.Flags(), &sc.Day, "Weekday (mon..sun or 1-7)")
	clockFlag(cmd.Flags(), &sc.Start, "start", "Start time (HH:MM)")
	clockFlag(cmd.Flags(), &sc.End, "end", "End time (HH:MM)")
	dateFlag(cmd.Flags(), &date, "date", "Pin to one date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newSessionUnscheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule SESSION_ID",
		Short: "Return a session to the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sessionID, err := parseID(args[0], "session")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.Unschedule(ctx, child.ID, sessionID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session #%d is back in the backlog\n", s.ID)
			return nil
		},
	}
}

func newSessionStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status SESSION_ID STATUS",
		Short: "Set a session's status (backlog, planned, scheduled, done)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sessionID, err := parseID(args[0], "session")
			if err != nil {
				return err
			}
			status, err := domain.ParseSessionStatus(args[1])
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.UpdateStatus(ctx, child.ID, sessionID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session #%d is now %s\n", s.ID, formatter.StatusPill(s.Status))
			return nil
		},
	}
}

func newSessionDoneCmd(app *App) *cobra.Command {
	var note, url string

	cmd := &cobra.Command{
		Use:   "done SESSION_ID",
		Short: "Mark a session done, optionally with evidence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sessionID, err := parseID(args[0], "session")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.Complete(ctx, child.ID, sessionID, note, url)
			if err != nil {
				return err
			}
			names, err := topicNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSession(s, names[s.TopicID]))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "What was done")
	cmd.Flags().StringVar(&url, "url", "", "Link to the work")

	return cmd
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SESSION_ID",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sessionID, err := parseID(args[0], "session")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			if err := app.Sessions.Delete(ctx, child.ID, sessionID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session #%d\n", sessionID)
			return nil
		},
	}
}
