package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase"
)

// newAddCommand creates the add command for simple tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date    string
		System  string
		Minutes int
	}

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a timed task",
		Long: `Add a single timed task to the top of the board.

Examples:
  focusday add "Reply to emails" --minutes 15
  focusday add "Read chapter 3" --system long --date 2024-05-02`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			out, err := c.AddTaskUseCase().Execute(cmd.Context(), usecase.AddTaskInput{
				UserID:          userID,
				Text:            strings.Join(args, " "),
				Date:            opts.Date,
				System:          domain.System(opts.System),
				DurationMinutes: opts.Minutes,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s) on %s\n",
				shortID(out.Task.ID), out.Task.Text, domain.FormatClock(out.Task.Duration), out.Task.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.System, "system", string(domain.SystemCustom), "Timing system: short, long or custom")
	cmd.Flags().IntVarP(&opts.Minutes, "minutes", "m", 25, "Duration in minutes")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date    string
		Today   bool
		Pending bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks on the board",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			date := opts.Date
			if opts.Today {
				date = c.Engine().Today()
			}
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				UserID:      userID,
				Date:        date,
				PendingOnly: opts.Pending,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(w, "No tasks")
				return nil
			}
			printTasks(w, out.Tasks)
			if out.Running != nil {
				_, _ = fmt.Fprintf(w, "\nRunning: %s (%s left)\n", out.Running.Text, domain.FormatClock(out.Running.Remaining))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Only tasks on this date")
	cmd.Flags().BoolVar(&opts.Today, "today", false, "Only tasks for today")
	cmd.Flags().BoolVar(&opts.Pending, "pending", false, "Hide completed tasks")

	return cmd
}

// newToggleCommand creates the toggle command.
func newToggleCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Start or pause a task's timer",
		Long: `Start the task's timer, pausing whatever else runs, or pause it if it is running.

The countdown only advances while 'focusday focus' or 'focusday run' is open.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd, c, userID, args[0])
			if err != nil {
				return err
			}
			out, err := c.ToggleTimerUseCase().Execute(cmd.Context(), usecase.ToggleTimerInput{UserID: userID, TaskID: id})
			if err != nil {
				return err
			}
			verb := "Paused"
			if out.Task.Running {
				verb = "Started"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %q (%s left)\n", verb, out.Task.Text, domain.FormatClock(out.Task.Remaining))
			return nil
		},
	}
}

// newDoneCommand creates the done command.
func newDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task now and archive it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd, c, userID, args[0])
			if err != nil {
				return err
			}
			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{UserID: userID, TaskID: id})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", out.Task.Text)
			return nil
		},
	}
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Text    string
		Date    string
		Minutes int
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's text, date or duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.EditTaskInput{}
			if cmd.Flags().Changed("text") {
				in.Text = &opts.Text
			}
			if cmd.Flags().Changed("date") {
				in.Date = &opts.Date
			}
			if cmd.Flags().Changed("minutes") {
				in.DurationMinutes = &opts.Minutes
			}
			if in.Text == nil && in.Date == nil && in.DurationMinutes == nil {
				return fmt.Errorf("%w: nothing to change (use --text, --date or --minutes)", domain.ErrValidation)
			}

			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd, c, userID, args[0])
			if err != nil {
				return err
			}
			in.UserID, in.TaskID = userID, id

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q (%s) on %s\n",
				shortID(out.Task.ID), out.Task.Text, domain.FormatClock(out.Task.Duration), out.Task.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "New text")
	cmd.Flags().StringVar(&opts.Date, "date", "", "New date YYYY-MM-DD")
	cmd.Flags().IntVarP(&opts.Minutes, "minutes", "m", 0, "New duration in minutes")

	return cmd
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd, c, userID, args[0])
			if err != nil {
				return err
			}
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{UserID: userID, TaskID: id})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", out.Task.Text)
			return nil
		},
	}
}

// newRmGroupCommand creates the rm-group command.
func newRmGroupCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-group <group-id>",
		Short: "Delete every task of a plan or split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			id, err := resolveGroupID(cmd, c, userID, args[0])
			if err != nil {
				return err
			}
			out, err := c.DeleteGroupUseCase().Execute(cmd.Context(), usecase.DeleteGroupInput{UserID: userID, GroupID: id})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d tasks\n", out.Removed)
			return nil
		},
	}
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task on the board",
		Long: `Delete every task on the board, including completed ones.
History is not touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("%w: refusing to clear without --yes", domain.ErrValidation)
			}
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			out, err := c.ClearTasksUseCase().Execute(cmd.Context(), usecase.ClearTasksInput{UserID: userID})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d tasks\n", out.Removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting everything")

	return cmd
}
