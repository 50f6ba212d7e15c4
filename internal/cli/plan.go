package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase"
)

// newPlanCommand creates the plan command for work/rest cycles.
func newPlanCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date  string
		Kind  string
		Hours float64
	}

	cmd := &cobra.Command{
		Use:   "plan <text>",
		Short: "Add a block of alternating work and rest intervals",
		Long: `Add a cycle plan covering the given number of hours.

A short plan alternates 25 minute work and 5 minute rest intervals;
a long plan uses 45/15. The timings come from the [timer] config section.

Examples:
  focusday plan "Thesis" --hours 2
  focusday plan "Refactoring" --kind long --hours 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			out, err := c.AddPlanUseCase().Execute(cmd.Context(), usecase.AddPlanInput{
				UserID: userID,
				Text:   strings.Join(args, " "),
				Date:   opts.Date,
				Kind:   domain.System(opts.Kind),
				Hours:  opts.Hours,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Planned group %s with %d intervals\n", shortID(out.GroupID), len(out.Tasks))
			printTasks(w, out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.Kind, "kind", string(domain.SystemShort), "Cycle kind: short or long")
	cmd.Flags().Float64Var(&opts.Hours, "hours", 1, "Hours to cover")

	return cmd
}

// newSplitCommand creates the split command.
func newSplitCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date string
		Lang string
	}

	cmd := &cobra.Command{
		Use:   "split <text>",
		Short: "Ask the AI advisor to split a task into steps",
		Long: `Ask the AI advisor to decompose a task into timed steps and add them as one group.

The reply language follows the task text unless --lang is given.
Requires GEMINI_API_KEY.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLang(opts.Lang)
			if err != nil {
				return err
			}
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			out, err := c.SplitTaskUseCase().Execute(cmd.Context(), usecase.SplitTaskInput{
				UserID: userID,
				Text:   strings.Join(args, " "),
				Date:   opts.Date,
				Lang:   lang,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Added group %s with %d steps\n", shortID(out.GroupID), len(out.Tasks))
			printTasks(w, out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.Lang, "lang", "", "Reply language: en or ar (default: detected)")

	return cmd
}

// newReorderCommand creates the reorder command.
func newReorderCommand(c *app.Container) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Ask the AI advisor for a better task order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := parseLang(lang)
			if err != nil {
				return err
			}
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			out, err := c.ReorderTasksUseCase().Execute(cmd.Context(), usecase.ReorderTasksInput{UserID: userID, Lang: l})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.Message != "" {
				_, _ = fmt.Fprintln(w, out.Message)
				_, _ = fmt.Fprintln(w)
			}
			printTasks(w, out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Reply language: en or ar (default: detected)")

	return cmd
}
