package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewAdminsCmd creates the admins command group
func NewAdminsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Inspect the admin authorization directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminsList(cmd.Context(), env)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List admin users allowed into the dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminsList(cmd.Context(), env)
		},
	})

	return cmd
}

func runAdminsList(ctx context.Context, env *Env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := env.out()

	client := env.client()
	store := env.credentials()

	res := env.gate(client).Evaluate(ctx, store)
	if !res.Granted() {
		return report(out, res)
	}

	token, err := store.Read()
	if err != nil {
		return err
	}

	users, err := client.ListAdminUsers(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to list admin users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No admin users found.")
	} else {
		fmt.Fprintf(out, "Admin users on %s:\n\n", client.BaseURL())

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tID\tCREATED AT")
		fmt.Fprintln(w, "─────\t──\t──────────")
		for _, user := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", user.Email, user.ID, user.CreatedAt)
		}
		w.Flush()
	}

	if env.FallbackEmail != "" {
		fmt.Fprintf(out, "\nFallback admin (always allowed): %s\n", env.FallbackEmail)
	}
	return nil
}
