package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/usecase"
)

// newRegisterCommand creates the register command.
func newRegisterCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Username string
		Email    string
		Password string
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create an account on the active store and remember it as the CLI session.

The password is prompted for when --password is not given.

Examples:
  focusday register --username sara --email sara@example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := opts.Password
			if password == "" {
				p, err := readPasswordFunc(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			out, err := c.RegisterUserUseCase().Execute(cmd.Context(), usecase.RegisterUserInput{
				Username: opts.Username,
				Email:    opts.Email,
				Password: password,
			})
			if err != nil {
				return err
			}

			// Remember the new account the same way login does.
			if _, err := c.LoginUseCase().Execute(cmd.Context(), usecase.LoginInput{
				Email:    out.User.Email,
				Password: password,
				Remember: true,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", out.User.Username, out.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// newLoginCommand creates the login command.
func newLoginCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Email     string
		Password  string
		ShowToken bool
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := opts.Password
			if password == "" {
				p, err := readPasswordFunc(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			out, err := c.LoginUseCase().Execute(cmd.Context(), usecase.LoginInput{
				Email:    opts.Email,
				Password: password,
				Remember: true,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Logged in as %s\n", out.User.Username)
			if opts.ShowToken {
				if out.Token == "" {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no JWT secret configured; no API token issued")
				} else {
					_, _ = fmt.Fprintln(w, out.Token)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&opts.ShowToken, "token", false, "Print an API bearer token")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// newLogoutCommand creates the logout command.
func newLogoutCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the CLI session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.LogoutUseCase().Execute(cmd.Context(), usecase.LogoutInput{})
			if err != nil {
				return err
			}
			if out.Username == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s\n", out.Username)
			return nil
		},
	}
}

// newWhoamiCommand creates the whoami command.
func newWhoamiCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CurrentUserUseCase().Execute(cmd.Context(), usecase.CurrentUserInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", out.User.Username, out.User.Email)
			return nil
		},
	}
}
