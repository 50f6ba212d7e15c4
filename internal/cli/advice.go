package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase"
)

// newCoachCommand creates the coach command.
func newCoachCommand(c *app.Container) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Get an AI coaching report on your history",
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
			out, err := c.CoachUseCase().Execute(cmd.Context(), usecase.CoachInput{UserID: userID, Lang: l})
			if err != nil {
				return err
			}

			r := out.Report
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Focus score:   %d/100\n", r.FocusScore)
			_, _ = fmt.Fprintf(w, "Balance score: %d/100\n", r.BalanceScore)
			_, _ = fmt.Fprintf(w, "Velocity:      %.1f\n", r.Velocity)
			if r.TopCategory != "" {
				_, _ = fmt.Fprintf(w, "Top category:  %s\n", r.TopCategory)
			}
			_, _ = fmt.Fprintf(w, "\n%s\n", r.Message)
			if r.ProTip != "" {
				_, _ = fmt.Fprintf(w, "\nTip: %s\n", r.ProTip)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Reply language: en or ar (default: detected)")

	return cmd
}

// newChatCommand creates the chat command.
func newChatCommand(c *app.Container) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the AI execution coach",
		Long: `Send one message, or start an interactive conversation when no message is given.

In interactive mode every line is one message; an empty line or EOF ends the chat.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := parseLang(lang)
			if err != nil {
				return err
			}
			userID, err := sessionUserID(cmd, c)
			if err != nil {
				return err
			}
			uc := c.ChatUseCase()
			w := cmd.OutOrStdout()

			if len(args) > 0 {
				out, err := uc.Execute(cmd.Context(), usecase.ChatInput{
					UserID:  userID,
					Message: strings.Join(args, " "),
					Lang:    l,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(w, out.Reply)
				return nil
			}

			var transcript []domain.ChatMessage
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					break
				}
				out, err := uc.Execute(cmd.Context(), usecase.ChatInput{
					UserID:     userID,
					Message:    line,
					Lang:       l,
					Transcript: transcript,
				})
				if err != nil {
					// The conversation survives a failed reply.
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					continue
				}
				transcript = out.Transcript
				_, _ = fmt.Fprintf(w, "%s\n\n", out.Reply)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Reply language: en or ar (default: detected)")

	return cmd
}

// newLangCommand creates the lang command.
func newLangCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lang <text>",
		Short: "Show which reply language a text selects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := domain.DetectLanguage(strings.Join(args, " "))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", l, l.Name())
			return nil
		},
	}
}
