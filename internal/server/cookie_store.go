package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manas-foundation/manas-admin/internal/session"
)

// CookieOptions configures the browser credential slot
type CookieOptions struct {
	Name   string
	Secure bool
}

// cookieStore is the per-request session.CredentialStore backed by the
// session cookie. Writes are visible to later reads in the same request.
type cookieStore struct {
	c       *gin.Context
	opts    CookieOptions
	now     func() time.Time
	written bool
	token   string
}

func newCookieStore(c *gin.Context, opts CookieOptions) *cookieStore {
	if opts.Name == "" {
		opts.Name = TokenCookieName
	}
	return &cookieStore{c: c, opts: opts, now: time.Now}
}

func (s *cookieStore) Read() (string, error) {
	if s.written {
		if s.token == "" {
			return "", session.ErrNoToken
		}
		return s.token, nil
	}

	token, err := s.c.Cookie(s.opts.Name)
	if err != nil || token == "" {
		return "", session.ErrNoToken
	}
	return token, nil
}

// Write stores token in a cookie living until the token's exp, or for the
// browser session when exp cannot be read
func (s *cookieStore) Write(token string) error {
	maxAge := 0
	if claims, err := session.ParseClaims(token); err == nil {
		if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 {
			maxAge = int(remaining.Seconds())
		}
	}

	s.set(token, maxAge)
	s.written, s.token = true, token
	return nil
}

func (s *cookieStore) Clear() error {
	s.set("", -1)
	s.written, s.token = true, ""
	return nil
}

func (s *cookieStore) set(value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.opts.Name, value, maxAge, "/", "", s.opts.Secure, true)
}
