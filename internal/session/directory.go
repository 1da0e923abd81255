package session

import (
	"context"
	"strings"
)

// Directory returns the emails currently permitted to hold admin sessions.
// token is the caller's bearer credential for the query.
type Directory interface {
	AuthorizedEmails(ctx context.Context, token string) ([]string, error)
}

// DirectoryFunc adapts a function to Directory
type DirectoryFunc func(ctx context.Context, token string) ([]string, error)

func (f DirectoryFunc) AuthorizedEmails(ctx context.Context, token string) ([]string, error) {
	return f(ctx, token)
}

// AllowListCache keeps a recently fetched allow-list. Only successful
// fetches are stored in it.
type AllowListCache interface {
	Get(ctx context.Context) ([]string, bool)
	Set(ctx context.Context, emails []string)
	Invalidate(ctx context.Context) error
}

// AllowList is the set of emails permitted for one decision
type AllowList map[string]struct{}

// NewAllowList builds the directory set unioned with the fallback email
func NewAllowList(emails []string, fallback string) AllowList {
	list := make(AllowList, len(emails)+1)
	for _, email := range emails {
		if email = strings.TrimSpace(email); email != "" {
			list[email] = struct{}{}
		}
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		list[fallback] = struct{}{}
	}
	return list
}

// Contains matches email exactly
func (a AllowList) Contains(email string) bool {
	if email == "" {
		return false
	}
	_, ok := a[email]
	return ok
}
