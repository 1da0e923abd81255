package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 5 * time.Second
	maxRetries     = 3
)

// Config holds deployment constants for the gate
type Config struct {
	// FallbackEmail is always authorized in addition to the directory
	FallbackEmail string

	// Timeout bounds each directory query attempt
	Timeout time.Duration

	// Retries is the number of extra directory attempts before failing closed
	Retries int

	// RetryDelay is the pause between directory attempts
	RetryDelay time.Duration
}

// Result is the outcome of one evaluation pass
type Result struct {
	Decision  Decision
	Email     string
	ExpiresAt time.Time
	Err       error
}

// Granted reports whether protected content may be served
func (r Result) Granted() bool {
	return r.Decision == Authorized
}

// RedirectTarget returns where the visitor must be sent, or "" when no
// navigation should happen
func (r Result) RedirectTarget() string {
	switch r.Decision {
	case Authorized, Unevaluated:
		return ""
	case Unauthorized:
		return UnauthorizedLoginPath
	default:
		return LoginPath
	}
}

// Gate decides whether the holder of a stored token may use the dashboard
type Gate struct {
	directory Directory
	cache     AllowListCache
	cfg       Config
	now       func() time.Time
	logger    zerolog.Logger
}

// Option configures a Gate
type Option func(*Gate)

// WithCache enables a short-lived allow-list cache
func WithCache(cache AllowListCache) Option {
	return func(g *Gate) {
		g.cache = cache
	}
}

// WithClock overrides the wall clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// WithLogger sets the logger for decisions
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a gate querying directory for the allow-list
func NewGate(directory Directory, cfg Config, opts ...Option) *Gate {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Retries > maxRetries {
		cfg.Retries = maxRetries
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}

	g := &Gate{
		directory: directory,
		cfg:       cfg,
		now:       time.Now,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate runs one pass over the token held by store. The store is
// cleared for every structurally-present token that does not end in
// Authorized. If ctx is cancelled while the directory query is in
// flight the result is Unevaluated and store is left alone.
func (g *Gate) Evaluate(ctx context.Context, store CredentialStore) Result {
	token, err := store.Read()
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			g.logger.Warn().Err(err).Msg("Failed to read credential store")
		}
		return g.decide(Result{Decision: Unauthenticated, Err: ErrTokenAbsent})
	}

	claims, err := ParseClaims(token)
	if err != nil {
		g.clear(store)
		return g.decide(Result{Decision: Malformed, Err: err})
	}

	res := Result{Email: claims.Email, ExpiresAt: claims.ExpiresAt}

	if claims.Expired(g.now()) {
		g.clear(store)
		res.Decision = Expired
		res.Err = ErrTokenExpired
		return g.decide(res)
	}

	emails, err := g.fetch(ctx, token)
	if ctx.Err() != nil {
		res.Decision = Unevaluated
		res.Err = ErrStale
		g.logger.Debug().Str("email", res.Email).Msg("Discarding stale gate evaluation")
		return res
	}
	if err != nil {
		g.clear(store)
		res.Decision = DirectoryUnreachable
		res.Err = fmt.Errorf("%w: %w", ErrDirectoryUnreachable, err)
		return g.decide(res)
	}

	if !NewAllowList(emails, g.cfg.FallbackEmail).Contains(claims.Email) {
		g.clear(store)
		res.Decision = Unauthorized
		res.Err = ErrEmailNotAuthorized
		return g.decide(res)
	}

	res.Decision = Authorized
	return g.decide(res)
}

// InvalidateCache drops any cached allow-list (called on logout)
func (g *Gate) InvalidateCache(ctx context.Context) error {
	if g.cache == nil {
		return nil
	}
	return g.cache.Invalidate(ctx)
}

// temporary is implemented by directory errors that know whether a retry
// can help
type temporary interface {
	Temporary() bool
}

func (g *Gate) fetch(ctx context.Context, token string) ([]string, error) {
	if g.cache != nil {
		if emails, ok := g.cache.Get(ctx); ok {
			return emails, nil
		}
	}

	attempt := func() ([]string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		emails, err := g.directory.AuthorizedEmails(attemptCtx, token)
		if err == nil {
			return emails, nil
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		var t temporary
		if errors.As(err, &t) && !t.Temporary() {
			return nil, backoff.Permanent(err)
		}
		g.logger.Debug().Err(err).Msg("Authorization directory attempt failed")
		return nil, err
	}

	emails, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(g.cfg.RetryDelay)),
		backoff.WithMaxTries(uint(g.cfg.Retries+1)),
	)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		g.cache.Set(ctx, emails)
	}
	return emails, nil
}

func (g *Gate) clear(store CredentialStore) {
	if err := store.Clear(); err != nil {
		g.logger.Error().Err(err).Msg("Failed to clear credential store")
	}
}

func (g *Gate) decide(res Result) Result {
	var event *zerolog.Event
	switch res.Decision {
	case Authorized:
		event = g.logger.Debug()
	case Unauthenticated:
		event = g.logger.Info()
	default:
		event = g.logger.Warn()
	}

	event.
		Str("decision", res.Decision.String()).
		Str("email", res.Email).
		AnErr("reason", res.Err).
		Msg("Session gate decision")

	return res
}
