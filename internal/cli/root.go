package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/manas-foundation/manas-admin/internal/apiclient"
	"github.com/manas-foundation/manas-admin/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree around env
func NewRootCmd(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "manas-admin",
		Short: "MANAS admin panel - operator CLI",
		Long: `manas-admin signs operators in to the MANAS admin API and checks their
session with the same gate the dashboard uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&env.APIURL, "api-url", envOr("MANAS_API_URL", apiclient.DefaultBaseURL), "Admin API base URL (or set MANAS_API_URL)")
	flags.StringVar(&env.FallbackEmail, "fallback-email", os.Getenv("FALLBACK_ADMIN_EMAIL"), "Email always allowed in addition to the directory (or set FALLBACK_ADMIN_EMAIL)")
	flags.DurationVar(&env.Timeout, "timeout", 5*time.Second, "Authorization directory timeout")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "manas-admin version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewStatusCmd(env))
	rootCmd.AddCommand(commands.NewAdminsCmd(env))

	return rootCmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Execute runs the root command. Interrupting cancels any in-flight
// directory query, which leaves the stored token untouched.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(&commands.Env{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
