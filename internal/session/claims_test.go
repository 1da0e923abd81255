package session

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mintToken signs claims with a throwaway key; the gate never verifies it
func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// rawToken assembles a token around an arbitrary claims segment
func rawToken(payload string) string {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + enc.EncodeToString([]byte(payload)) + "." + enc.EncodeToString([]byte("sig"))
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		token     string
		wantEmail string
		wantErr   bool
	}{
		{
			name:      "valid token",
			token:     mintToken(t, jwt.MapClaims{"email": "admin@x.org", "exp": exp.Unix()}),
			wantEmail: "admin@x.org",
		},
		{
			name:    "empty string",
			token:   "",
			wantErr: true,
		},
		{
			name:    "two segments",
			token:   "abc.def",
			wantErr: true,
		},
		{
			name:    "claims segment not base64url",
			token:   "eyJhbGciOiJIUzI1NiJ9.!!!.sig",
			wantErr: true,
		},
		{
			name:    "claims segment not JSON",
			token:   rawToken("not json"),
			wantErr: true,
		},
		{
			name:    "missing email",
			token:   rawToken(`{"exp": 1893553445}`),
			wantErr: true,
		},
		{
			name:    "empty email",
			token:   rawToken(`{"email": "", "exp": 1893553445}`),
			wantErr: true,
		},
		{
			name:    "email is not a string",
			token:   rawToken(`{"email": 42, "exp": 1893553445}`),
			wantErr: true,
		},
		{
			name:    "missing exp",
			token:   rawToken(`{"email": "admin@x.org"}`),
			wantErr: true,
		},
		{
			name:    "exp is not a number",
			token:   rawToken(`{"email": "admin@x.org", "exp": "tomorrow"}`),
			wantErr: true,
		},
		{
			name:      "surrounding whitespace is ignored",
			token:     "  " + rawToken(`{"email": "admin@x.org", "exp": 1893553445}`) + "\n",
			wantEmail: "admin@x.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseClaims(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrTokenMalformed)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, claims.Email)
			assert.False(t, claims.ExpiresAt.IsZero())
		})
	}
}

func TestClaimsExpired(t *testing.T) {
	exp := time.Unix(1_700_000_000, 0)
	claims := &Claims{Email: "admin@x.org", ExpiresAt: exp}

	assert.False(t, claims.Expired(exp.Add(-time.Second)))
	assert.True(t, claims.Expired(exp), "a token is expired at exactly exp")
	assert.True(t, claims.Expired(exp.Add(time.Second)))
}

func TestAllowList(t *testing.T) {
	list := NewAllowList([]string{"admin@x.org", " ", "ops@x.org "}, "root@x.org")

	assert.True(t, list.Contains("admin@x.org"))
	assert.True(t, list.Contains("ops@x.org"))
	assert.True(t, list.Contains("root@x.org"))
	assert.False(t, list.Contains("user@x.org"))
	assert.False(t, list.Contains(""))
	assert.False(t, list.Contains("ADMIN@x.org"), "matching is exact")

	assert.Len(t, NewAllowList(nil, ""), 0)
}
