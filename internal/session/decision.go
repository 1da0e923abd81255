package session

import "errors"

// Decision is the verdict of one gate evaluation
type Decision int

const (
	// Unevaluated is the state before the gate has reached a verdict, and the
	// result of an evaluation whose caller went away mid-flight
	Unevaluated Decision = iota
	Unauthenticated
	Malformed
	Expired
	DirectoryUnreachable
	Unauthorized
	Authorized
)

const (
	// LoginPath is where every non-authorized visitor is sent
	LoginPath = "/login"

	// UnauthorizedLoginPath carries a reason code for the login page notice
	UnauthorizedLoginPath = "/login?error=unauthorized"
)

var (
	ErrTokenAbsent          = errors.New("session token absent")
	ErrTokenMalformed       = errors.New("session token malformed")
	ErrTokenExpired         = errors.New("session token expired")
	ErrDirectoryUnreachable = errors.New("authorization directory unreachable")
	ErrEmailNotAuthorized   = errors.New("email not in authorization directory")
	ErrStale                = errors.New("evaluation superseded before completion")
)

func (d Decision) String() string {
	switch d {
	case Unevaluated:
		return "unevaluated"
	case Unauthenticated:
		return "unauthenticated"
	case Malformed:
		return "malformed"
	case Expired:
		return "expired"
	case DirectoryUnreachable:
		return "directory_unreachable"
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Terminal reports whether the decision ends an evaluation pass
func (d Decision) Terminal() bool {
	return d != Unevaluated
}
