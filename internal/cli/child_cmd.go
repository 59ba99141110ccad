package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newChildCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "child",
		Short: "Manage children",
	}
	cmd.AddCommand(newChildAddCmd(app), newChildListCmd(app))
	return cmd
}

func newChildAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a child",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Children.Create(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added child %s %s\n", formatter.Bold(c.Name), formatter.Dim(fmt.Sprintf("(#%d)", c.ID)))
			return nil
		},
	}
}

func newChildListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List children",
		RunE: func(cmd *cobra.Command, args []string) error {
			children, err := app.Children.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatChildren(children))
			return nil
		},
	}
}

func newTopicCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage study topics",
	}
	cmd.AddCommand(newTopicAddCmd(app), newTopicListCmd(app))
	return cmd
}

func newTopicAddCmd(app *App) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Topics.Create(context.Background(), strings.Join(args, " "), subject)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added topic %s %s\n", formatter.Bold(t.Name), formatter.Dim(fmt.Sprintf("(#%d)", t.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Subject area, e.g. Math")
	return cmd
}

func newTopicListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			topics, err := app.Topics.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTopics(topics))
			return nil
		},
	}
}
