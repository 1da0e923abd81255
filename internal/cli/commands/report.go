package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/manas-foundation/manas-admin/internal/session"
)

// ErrSessionDenied is returned by commands whose gate evaluation did not
// end in Authorized
var ErrSessionDenied = errors.New("session not authorized")

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// report prints the gate decision and returns ErrSessionDenied unless the
// session is authorized
func report(w io.Writer, res session.Result) error {
	if res.Granted() {
		okColor.Fprint(w, "✓ ")
		fmt.Fprintf(w, "Authorized as %s (session expires %s)\n",
			res.Email, res.ExpiresAt.Local().Format(time.RFC1123))
		return nil
	}

	failColor.Fprint(w, "✗ ")
	switch res.Decision {
	case session.Unauthenticated:
		fmt.Fprintln(w, "Not logged in.")
	case session.Malformed:
		fmt.Fprintln(w, "Stored session token is malformed and was removed.")
	case session.Expired:
		fmt.Fprintf(w, "Session for %s expired and was removed.\n", res.Email)
	case session.DirectoryUnreachable:
		fmt.Fprintln(w, "Could not reach the authorization directory. Session was removed.")
		if res.Err != nil {
			warnColor.Fprintf(w, "  %v\n", res.Err)
		}
	case session.Unauthorized:
		fmt.Fprintf(w, "%s is not authorized to access the admin panel. Session was removed.\n", res.Email)
	default:
		fmt.Fprintln(w, "Session check was cancelled.")
	}

	if res.Decision != session.Unevaluated {
		fmt.Fprintln(w, "\nSign in with: manas-admin login")
	}
	return fmt.Errorf("%w: %s", ErrSessionDenied, res.Decision)
}
