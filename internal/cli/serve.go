package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/httpapi"
	"github.com/runoshun/focusday/internal/usecase"
)

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the JSON API used by the web client.

Requests authenticate with a bearer token from POST /api/auth/login,
so a JWT secret must be configured (JWT_SECRET or [server] jwt_secret).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := httpapi.New(c)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.AppConfig.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from [server] addr)")

	return cmd
}

// newHealthCommand creates the health command.
func newHealthCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show which store is active and whether the advisor is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CheckHealthUseCase().Execute(cmd.Context(), usecase.CheckHealthInput{})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			_, _ = fmt.Fprintf(w, "Status: %s\n", out.Status)
			_, _ = fmt.Fprintf(w, "Store:  %s (%s)", out.Store.Kind, out.Store.Mode)
			if out.Store.Path != "" {
				_, _ = fmt.Fprintf(w, " %s", out.Store.Path)
			}
			_, _ = fmt.Fprintln(w)
			ai := "not configured"
			if out.AIConfigured {
				ai = "configured"
			}
			_, _ = fmt.Fprintf(w, "AI:     %s\n", ai)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
