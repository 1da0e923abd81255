package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/manas-foundation/manas-admin/internal/models"
	"github.com/manas-foundation/manas-admin/internal/session"
)

const (
	// TokenCookieName holds the session token in the browser
	TokenCookieName = "admin_jwt"

	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	operatorKey     = "operator"
)

var (
	ErrMissingOperator = errors.New("no authorized operator on request")
)

// Operator is the authorized staff member behind a dashboard request
type Operator struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventRecorder persists gate decisions
type EventRecorder interface {
	Record(ctx context.Context, ev *models.GateEvent) error
}

func setOperator(c *gin.Context, op *Operator) {
	c.Set(operatorKey, op)
}

// GetOperator returns the operator set by RequireSession
func GetOperator(c *gin.Context) (*Operator, bool) {
	v, exists := c.Get(operatorKey)
	if !exists {
		return nil, false
	}

	op, ok := v.(*Operator)
	return op, ok
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
	c.Abort()
}

// requestIDMiddleware tags every request with an ID, keeping one supplied
// by a proxy
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequireSession runs the session gate on every request of the group.
// Only an Authorized decision reaches the handlers; every other verdict
// issues exactly one redirect and aborts the chain. A stale evaluation
// (the client went away mid-query) aborts without writing anything.
func RequireSession(gate *session.Gate, cookies CookieOptions, events EventRecorder, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := newCookieStore(c, cookies)
		res := gate.Evaluate(c.Request.Context(), store)

		recordDecision(c, events, log, res)

		if res.Decision == session.Unevaluated {
			c.Abort()
			return
		}

		if !res.Granted() {
			c.Redirect(http.StatusSeeOther, res.RedirectTarget())
			c.Abort()
			return
		}

		setOperator(c, &Operator{Email: res.Email, ExpiresAt: res.ExpiresAt})
		c.Next()
	}
}

func recordDecision(c *gin.Context, events EventRecorder, log zerolog.Logger, res session.Result) {
	if events == nil {
		return
	}

	ev := &models.GateEvent{
		Decision: res.Decision.String(),
		Email:    res.Email,
		Path:     c.Request.URL.Path,
		ClientIP: c.ClientIP(),
	}
	if res.Err != nil {
		ev.Reason = res.Err.Error()
	}

	// The request context may already be cancelled for stale evaluations
	ctx := context.WithoutCancel(c.Request.Context())
	if err := events.Record(ctx, ev); err != nil {
		log.Warn().Err(err).Str("decision", ev.Decision).Msg("Failed to record gate event")
	}
}
