package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/export"
	"github.com/runoshun/focusday/internal/usecase"
)

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date  string
		Limit int
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			out, err := c.ListHistoryUseCase().Execute(cmd.Context(), usecase.ListHistoryInput{
				UserID: userID,
				Date:   opts.Date,
				Limit:  opts.Limit,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Entries) == 0 {
				_, _ = fmt.Fprintln(w, "No history")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "DATE\tCOMPLETED\tSYSTEM\tDURATION\tTEXT")
			for _, e := range out.Entries {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Day(), e.CompletedAt.Local().Format("15:04"), e.System, domain.FormatClock(e.Duration), e.Text)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Only entries of this date")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum entries (0 = all)")

	return cmd
}

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion totals and the daily trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			out, err := c.ShowStatsUseCase().Execute(cmd.Context(), usecase.ShowStatsInput{UserID: userID})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printSummary(w io.Writer, out *usecase.ShowStatsOutput) {
	s := out.Summary
	_, _ = fmt.Fprintf(w, "Completed:     %d (%.0f min focused)\n", s.TotalCompleted, s.TotalFocusMinutes)
	_, _ = fmt.Fprintf(w, "Today:         %d (%+d vs yesterday, %s)\n", s.Today, s.Delta, s.Trend())
	_, _ = fmt.Fprintf(w, "Velocity:      %.1f tasks per active day over %d days\n", s.Velocity, s.ActiveDays)
	_, _ = fmt.Fprintf(w, "Pending:       %d (%d today)\n", out.Pending, out.PendingToday)

	systems := make([]string, 0, len(s.SystemShare))
	for sys := range s.SystemShare {
		systems = append(systems, string(sys))
	}
	sort.Strings(systems)
	_, _ = fmt.Fprint(w, "Systems:      ")
	for _, sys := range systems {
		_, _ = fmt.Fprintf(w, " %s %d%%", sys, s.SystemShare[domain.System(sys)])
	}
	_, _ = fmt.Fprintln(w)

	if len(s.Daily) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tTASKS\tMINUTES")
	for _, d := range s.Daily {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%.0f\n", d.Date, d.Count, d.FocusMinutes)
	}
	_ = tw.Flush()
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		Output string
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as JSON, CSV or YAML",
		Long: `Export every history entry. JSON and YAML documents include the summary.

The format defaults to the --output file extension, then to JSON.

Examples:
  focusday export --format csv > history.csv
  focusday export -o history.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := export.FormatJSON
			switch {
			case opts.Format != "":
				f, err := export.ParseFormat(opts.Format)
				if err != nil {
					return err
				}
				format = f
			case opts.Output != "":
				format = export.FormatFromPath(opts.Output)
			}

			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			hist, err := c.ListHistoryUseCase().Execute(cmd.Context(), usecase.ListHistoryInput{UserID: userID})
			if err != nil {
				return err
			}
			stats, err := c.ShowStatsUseCase().Execute(cmd.Context(), usecase.ShowStatsInput{UserID: userID})
			if err != nil {
				return err
			}

			now := c.Clock.Now()
			if opts.Output == "" {
				return export.Write(cmd.OutOrStdout(), format, hist.Entries, stats.Summary, now)
			}
			if err := export.ToFile(opts.Output, format, hist.Entries, stats.Summary, now); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(hist.Entries), opts.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: json, csv or yaml")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}
