package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newBlockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage weekly availability blocks",
	}
	cmd.AddCommand(
		newBlockAddCmd(app),
		newBlockListCmd(app),
		newBlockEditCmd(app),
		newBlockRemoveCmd(app),
	)
	return cmd
}

func newBlockAddCmd(a *App) *cobra.Command {
	var in app.TimeBlockInput
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring time block",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}

			if interactive {
				if !a.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				state := &timeBlockFormState{Day: domain.Monday}
				if err := timeBlockForm(state).Run(); err != nil {
					return err
				}
				if in, err = state.input(); err != nil {
					return err
				}
			} else {
				for _, name := range []string{"day", "start", "end"} {
					if !cmd.Flags().Changed(name) {
						return fmt.Errorf("required flag \"%s\" not set", name)
					}
				}
			}

			b, err := a.Blocks.Create(ctx, child.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added block #%d: %s %s for %s\n", b.ID, b.Day.Short(), b.Interval(), child.Name)
			return nil
		},
	}

	dayFlag(cmd.Flags(), &in.Day, "Weekday (mon..sun or 1-7)")
	clockFlag(cmd.Flags(), &in.Start, "start", "Start time (HH:MM)")
	clockFlag(cmd.Flags(), &in.End, "end", "End time (HH:MM)")
	cmd.Flags().StringVar(&in.Label, "label", "", "Optional label")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the block in with a form")

	return cmd
}

func newBlockListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List a child's time blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			blocks, err := app.Blocks.List(ctx, child.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBlocks(blocks))
			return nil
		},
	}
}

func newBlockEditCmd(a *App) *cobra.Command {
	var edit app.TimeBlockInput

	cmd := &cobra.Command{
		Use:   "edit BLOCK_ID",
		Short: "Change a time block; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			blockID, err := parseID(args[0], "block")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, a)
			if err != nil {
				return err
			}
			current, err := findBlock(ctx, a, child.ID, blockID)
			if err != nil {
				return err
			}

			in := app.TimeBlockInput{Day: current.Day, Start: current.Start, End: current.End, Label: current.Label}
			flags := cmd.Flags()
			if flags.Changed("day") {
				in.Day = edit.Day
			}
			if flags.Changed("start") {
				in.Start = edit.Start
			}
			if flags.Changed("end") {
				in.End = edit.End
			}
			if flags.Changed("label") {
				in.Label = edit.Label
			}

			b, err := a.Blocks.Update(ctx, child.ID, blockID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated block #%d: %s %s\n", b.ID, b.Day.Short(), b.Interval())
			return nil
		},
	}

	dayFlag(cmd.Flags(), &edit.Day, "New weekday")
	clockFlag(cmd.Flags(), &edit.Start, "start", "New start time (HH:MM)")
	clockFlag(cmd.Flags(), &edit.End, "end", "New end time (HH:MM)")
	cmd.Flags().StringVar(&edit.Label, "label", "", "New label")

	return cmd
}

func newBlockRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove BLOCK_ID",
		Short: "Delete a time block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			blockID, err := parseID(args[0], "block")
			if err != nil {
				return err
			}
			child, err := resolveChild(ctx, cmd, app)
			if err != nil {
				return err
			}
			if err := app.Blocks.Delete(ctx, child.ID, blockID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed block #%d\n", blockID)
			return nil
		},
	}
}

func findBlock(ctx context.Context, app *App, childID, blockID int64) (*domain.TimeBlock, error) {
	blocks, err := app.Blocks.List(ctx, childID)
	if err != nil {
		return nil, err
	}
	for i := range blocks {
		if blocks[i].ID == blockID {
			return &blocks[i], nil
		}
	}
	return nil, fmt.Errorf("time block %d: %w", blockID, domain.ErrNotFound)
}
