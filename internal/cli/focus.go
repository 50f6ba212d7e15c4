package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/ticker"
	"github.com/runoshun/focusday/internal/tui"
	"github.com/runoshun/focusday/internal/usecase"
)

// launchFocusTUIFunc is a function variable for launching the focus view, allowing it to be mocked in tests.
var launchFocusTUIFunc = launchFocusTUI

func launchFocusTUI(s *usecase.FocusSession, pendingToday []domain.Task) error {
	model := tui.New(s, pendingToday)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// newFocusCommand creates the focus command that opens the timer view.
func newFocusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "focus",
		Short: "Open the interactive timer view",
		Long: `Open the interactive timer view over today's board.

The running task counts down once per second. Finished tasks ring the bell
and move to history; once the day window has passed and nothing is left
to do, the day is locked and its completed tasks are archived.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			s := c.FocusSession()
			start, err := s.Start(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return launchFocusTUIFunc(s, start.PendingToday)
		},
	}
}

// newRunCommand creates the run command: the countdown without a terminal UI.
func newRunCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Start    string
		Interval time.Duration
		ExitIdle bool
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the countdown headless, printing events",
		Long: `Drive the board's countdown without the interactive view, printing
completions and day rollovers as they happen. Stops on Ctrl-C, pausing the
running task first.

Examples:
  focusday toggle 3f2a && focusday run
  focusday run --start 3f2a --exit-when-idle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			if opts.Start != "" {
				id, err := resolveTaskID(cmd, c, userID, opts.Start)
				if err != nil {
					return err
				}
				if _, err := c.ToggleTimerUseCase().Execute(cmd.Context(), usecase.ToggleTimerInput{UserID: userID, TaskID: id}); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := c.FocusSession()
			start, err := s.Start(ctx, userID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if n := len(start.PendingToday); n > 0 {
				_, _ = fmt.Fprintf(w, "%d tasks pending today\n", n)
			}
			if r, ok := start.Board.Running(); ok {
				_, _ = fmt.Fprintf(w, "Running %q (%s left)\n", r.Text, domain.FormatClock(r.Remaining))
			}

			return runSession(ctx, s, w, cmd.ErrOrStderr(), opts.Interval, opts.ExitIdle)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "Start this task before running")
	cmd.Flags().DurationVar(&opts.Interval, "interval", time.Second, "Tick interval")
	cmd.Flags().BoolVar(&opts.ExitIdle, "exit-when-idle", false, "Stop once nothing is running")
	_ = cmd.Flags().MarkHidden("interval")

	return cmd
}

// runSession steps s on a ticker until ctx ends or, with exitIdle, until
// nothing runs. The running task is paused on the way out.
func runSession(ctx context.Context, s *usecase.FocusSession, out, errOut io.Writer, interval time.Duration, exitIdle bool) error {
	var once sync.Once
	idle := make(chan struct{})

	t := ticker.New(interval, func(time.Time) {
		res, err := s.Step(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Warning: %v\n", err)
		}
		if res == nil {
			return
		}
		for _, c := range res.Completions {
			_, _ = fmt.Fprintf(out, "\aDone: %s\n", c.Task.Text)
		}
		if r := res.Rollover; r != nil {
			_, _ = fmt.Fprintf(out, "Day %s closed, %d tasks archived\n", r.LockedDay, len(r.Archived))
		}
		if exitIdle {
			if _, running := res.Board.Running(); !running {
				once.Do(func() { close(idle) })
			}
		}
	})
	t.Start()

	select {
	case <-ctx.Done():
	case <-idle:
	}
	t.Stop()

	// ctx may already be cancelled; the pause must still reach the store.
	return s.Pause(context.WithoutCancel(ctx))
}
