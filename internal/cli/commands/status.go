package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the stored session may use the admin panel",
		Long: `Runs the dashboard's session gate against the token in the OS keyring.
Exits non-zero unless the session is authorized. Tokens that are expired,
malformed or no longer listed are removed from the keyring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), env)
		},
	}
}

func runStatus(ctx context.Context, env *Env) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client := env.client()
	res := env.gate(client).Evaluate(ctx, env.credentials())
	return report(env.out(), res)
}
