package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/manas-foundation/manas-admin/internal/cli/userconfig"
)

var validate = validator.New()

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("a valid email address is required")
	}
	return nil
}

func validateOTP(otp string) error {
	if err := validate.Var(otp, "required,numeric,len=6"); err != nil {
		return fmt.Errorf("the OTP is a 6-digit code")
	}
	return nil
}

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, otp string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the admin panel with a one-time passcode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, email, otp)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (or set MANAS_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&otp, "otp", "", "One-time passcode (will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, otp string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := env.out()

	// Check for environment variables (useful for scripts)
	if email == "" {
		email = os.Getenv("MANAS_ADMIN_EMAIL")
	}

	if email == "" {
		remembered, err := userconfig.GetEmail()
		if err != nil {
			warnColor.Fprintf(out, "Ignoring user config: %v\n", err)
		}

		email, err = env.prompter().Ask(Question{
			Label:    "Email",
			Default:  remembered,
			Validate: validateEmail,
		})
		if err != nil {
			return err
		}
	}

	if err := validateEmail(email); err != nil {
		return err
	}

	client := env.client()

	fmt.Fprintf(out, "Sending OTP to %s...\n", email)
	if err := client.SendOTP(ctx, email); err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	fmt.Fprintln(out, "Please check your email for the OTP code.")

	if otp == "" {
		var err error
		otp, err = env.prompter().Ask(Question{
			Label:    "OTP",
			Secret:   true,
			Validate: validateOTP,
		})
		if err != nil {
			return err
		}
	}

	if err := validateOTP(otp); err != nil {
		return err
	}

	token, err := client.VerifyOTP(ctx, email, otp)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	store := env.credentials()
	if err := store.Write(token); err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	if err := userconfig.RememberLogin(client.BaseURL(), email); err != nil {
		warnColor.Fprintf(out, "Could not remember email: %v\n", err)
	}

	// Same check the dashboard runs on its first protected request
	return report(out, env.gate(client).Evaluate(ctx, store))
}
