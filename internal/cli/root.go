// Package cli provides the command-line interface for focusday.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
)

// Command group IDs.
const (
	groupAccount = "account"
	groupTask    = "task"
	groupFocus   = "focus"
	groupInsight = "insight"
	groupSetup   = "setup"
)

// NewRootCommand creates the root command for focusday.
// It receives the container for dependency injection and version for display.
// With a nil container only the commands that need no store are usable.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "focusday",
		Short: "Daily task timer with AI planning",
		Long: `focusday keeps a per-day board of timed tasks.

Add tasks by hand, from a Pomodoro or 52/17 plan, or let the AI split a
large task into steps. Run the timer with "focusday focus"; completed
tasks move to history and the day locks once its window has passed.

Without arguments it opens the timer view when you are logged in.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c == nil {
				return cmd.Help()
			}
			userID, err := sessionUserID(cmd, c)
			if errors.Is(err, domain.ErrNotLoggedIn) {
				return cmd.Help()
			}
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

	root.AddGroup(
		&cobra.Group{ID: groupAccount, Title: "Account:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupFocus, Title: "Focus:"},
		&cobra.Group{ID: groupInsight, Title: "History and Advice:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)

	add := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}

	add(groupSetup, newLangCommand())
	if c == nil {
		cfg := &cobra.Command{Use: "config", Short: "Manage configuration"}
		cfg.AddCommand(newConfigTemplateCommand())
		add(groupSetup, cfg)
		return root
	}

	add(groupAccount,
		newRegisterCommand(c),
		newLoginCommand(c),
		newLogoutCommand(c),
		newWhoamiCommand(c),
	)
	add(groupTask,
		newAddCommand(c),
		newListCommand(c),
		newEditCommand(c),
		newDoneCommand(c),
		newRmCommand(c),
		newRmGroupCommand(c),
		newClearCommand(c),
		newPlanCommand(c),
		newSplitCommand(c),
		newReorderCommand(c),
	)
	add(groupFocus,
		newFocusCommand(c),
		newToggleCommand(c),
		newRunCommand(c),
	)
	add(groupInsight,
		newHistoryCommand(c),
		newStatsCommand(c),
		newExportCommand(c),
		newCoachCommand(c),
		newChatCommand(c),
	)
	add(groupSetup,
		newConfigCommand(c),
		newHealthCommand(c),
		newServeCommand(c),
	)

	return root
}
