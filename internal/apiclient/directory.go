package apiclient

import (
	"context"
)

// Directory adapts the admin-users endpoint to session.Directory
type Directory struct {
	client *Client
}

// NewDirectory creates an authorization directory backed by client
func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

// AuthorizedEmails lists the email of every admin-user record
func (d *Directory) AuthorizedEmails(ctx context.Context, token string) ([]string, error) {
	users, err := d.client.ListAdminUsers(ctx, token)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(users))
	for _, user := range users {
		if user.Email != "" {
			emails = append(emails, user.Email)
		}
	}
	return emails, nil
}
