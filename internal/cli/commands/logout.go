package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(env)
		},
	}
}

func runLogout(env *Env) error {
	if err := env.credentials().Clear(); err != nil {
		return err
	}

	okColor.Fprint(env.out(), "✓ ")
	fmt.Fprintf(env.out(), "Logged out of %s\n", env.client().BaseURL())
	return nil
}
