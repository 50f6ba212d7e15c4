package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase"
)

// sessionUserID returns the ID of the logged-in CLI user.
func sessionUserID(cmd *cobra.Command, c *app.Container) (string, error) {
	out, err := c.CurrentUserUseCase().Execute(cmd.Context(), usecase.CurrentUserInput{})
	if err != nil {
		return "", err
	}
	return out.User.ID, nil
}

// readPasswordFunc is a function variable for reading a password, allowing it to be mocked in tests.
var readPasswordFunc = readPassword

// readPassword reads a password without echo when stdin is a terminal,
// otherwise one line from in.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseLang converts the --lang flag. Empty means auto-detect.
func parseLang(s string) (domain.Language, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "en", "english":
		return domain.LangEnglish, nil
	case "ar", "arabic":
		return domain.LangArabic, nil
	}
	return "", fmt.Errorf("%w: unknown language %q (use en or ar)", domain.ErrValidation, s)
}

func taskState(t domain.Task) string {
	switch {
	case t.Completed:
		return "done"
	case t.Running:
		return "running"
	case t.Remaining < t.Duration:
		return "paused"
	}
	return "todo"
}

// printTasks writes tasks as a table.
func printTasks(w io.Writer, tasks []domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDATE\tSYSTEM\tSTATE\tREMAINING\tTEXT")
	for _, t := range tasks {
		sys := string(t.System)
		if t.Type != "" {
			sys += "/" + string(t.Type)
		}
		text := t.Text
		if t.GroupTitle != "" && !strings.HasPrefix(text, t.GroupTitle) {
			text = t.GroupTitle + ": " + text
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID), t.Date, sys, taskState(t), domain.FormatClock(t.Remaining), text)
	}
	_ = tw.Flush()
}

// shortID trims UUIDs for display. Commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveTaskID expands a unique ID prefix against the user's board.
func resolveTaskID(cmd *cobra.Command, c *app.Container, userID, prefix string) (string, error) {
	out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{UserID: userID})
	if err != nil {
		return "", err
	}
	match := ""
	for _, t := range out.Tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: task id %q is ambiguous", domain.ErrValidation, prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrTaskNotFound, prefix)
	}
	return match, nil
}

// resolveGroupID expands a unique group ID prefix against the user's board.
func resolveGroupID(cmd *cobra.Command, c *app.Container, userID, prefix string) (string, error) {
	out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{UserID: userID})
	if err != nil {
		return "", err
	}
	seen := map[string]bool{}
	for _, t := range out.Tasks {
		if t.GroupID == prefix {
			return t.GroupID, nil
		}
		if t.GroupID != "" && strings.HasPrefix(t.GroupID, prefix) {
			seen[t.GroupID] = true
		}
	}
	switch len(seen) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrGroupNotFound, prefix)
	case 1:
		for id := range seen {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: group id %q is ambiguous", domain.ErrValidation, prefix)
}
