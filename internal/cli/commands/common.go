package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/manas-foundation/manas-admin/internal/apiclient"
	"github.com/manas-foundation/manas-admin/internal/cli/auth"
	"github.com/manas-foundation/manas-admin/internal/session"
)

// Env carries what every command needs. The root command fills it from
// global flags before any subcommand runs.
type Env struct {
	APIURL        string
	FallbackEmail string
	Timeout       time.Duration

	Tokens   auth.TokenStore
	Prompter Prompter
	Out      io.Writer
}

func (e *Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e *Env) tokens() auth.TokenStore {
	if e.Tokens == nil {
		return auth.Default
	}
	return e.Tokens
}

func (e *Env) prompter() Prompter {
	if e.Prompter == nil {
		return terminalPrompter{}
	}
	return e.Prompter
}

func (e *Env) client() *apiclient.Client {
	return apiclient.New(e.APIURL)
}

// credentials returns the keyring slot of the selected API
func (e *Env) credentials() *auth.KeyringStore {
	return auth.NewKeyringStore(e.tokens(), e.client().BaseURL())
}

// gate builds the same session gate the dashboard server runs
func (e *Env) gate(client *apiclient.Client) *session.Gate {
	return session.NewGate(apiclient.NewDirectory(client), session.Config{
		FallbackEmail: e.FallbackEmail,
		Timeout:       e.Timeout,
		Retries:       1,
		RetryDelay:    250 * time.Millisecond,
	})
}

// Question is one interactive prompt
type Question struct {
	Label    string
	Default  string
	Secret   bool
	Validate func(string) error
}

// Prompter asks the operator for input
// This allows us to script answers in tests
type Prompter interface {
	Ask(q Question) (string, error)
}

type terminalPrompter struct{}

func (terminalPrompter) Ask(q Question) (string, error) {
	prompt := promptui.Prompt{
		Label:    q.Label,
		Default:  q.Default,
		Validate: q.Validate,
	}
	if q.Secret {
		prompt.Mask = '*'
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt cancelled: %w", q.Label, err)
	}
	return value, nil
}
