package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manas-foundation/manas-admin/internal/session"
)

// mockAPIServer serves the admin endpoints the client talks to
func mockAPIServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/")
}

func TestSendOTP(t *testing.T) {
	client := mockAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/send-otp", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req OTPRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin@x.org", req.Email)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"sent"}`))
	})

	require.NoError(t, client.SendOTP(context.Background(), "admin@x.org"))
}

func TestVerifyOTP(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
		wantErr   string
	}{
		{
			name:      "token returned",
			status:    http.StatusOK,
			body:      `{"token":"a.b.c"}`,
			wantToken: "a.b.c",
		},
		{
			name:    "missing token",
			status:  http.StatusOK,
			body:    `{}`,
			wantErr: "no token",
		},
		{
			name:    "rejected with message",
			status:  http.StatusUnauthorized,
			body:    `{"message":"Invalid OTP"}`,
			wantErr: "Invalid OTP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mockAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/admin/verify-otp", r.URL.Path)

				var req VerifyOTPRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "123456", req.OTP)

				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			token, err := client.VerifyOTP(context.Background(), "admin@x.org", "123456")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestListAdminUsers_SendsBearer(t *testing.T) {
	client := mockAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/admin/admin-users", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Write([]byte(`[{"_id":"1","email":"admin@x.org"},{"_id":"2","email":"ops@x.org","createdAt":"2025-01-01"}]`))
	})

	users, err := client.ListAdminUsers(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, "ops@x.org", users[1].Email)
}

func TestStatusError(t *testing.T) {
	client := mockAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	})

	_, err := client.ListAdminUsers(context.Background(), "tok")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Message)
	assert.True(t, statusErr.Temporary())

	assert.False(t, (&StatusError{StatusCode: http.StatusForbidden}).Temporary())
	assert.True(t, (&StatusError{StatusCode: http.StatusTooManyRequests}).Temporary())
}

func TestDirectory(t *testing.T) {
	client := mockAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"1","email":"admin@x.org"},{"_id":"2","email":""}]`))
	})

	var dir session.Directory = NewDirectory(client)
	emails, err := dir.AuthorizedEmails(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@x.org"}, emails)
}

func TestDirectory_PropagatesFailure(t *testing.T) {
	client := New("http://127.0.0.1:1")

	_, err := NewDirectory(client).AuthorizedEmails(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")
}

func TestNew_Defaults(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://api.example.org/api", New("http://api.example.org/api/").BaseURL())
}
