package auth

import (
	"chat-hub/domain"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"empty token", "Bearer   ", "", false},
		{"valid token", "Bearer abc.def.ghi", "abc.def.ghi", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/chats", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			token, ok := BearerToken(r)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.token, token)
		})
	}
}

func TestUserFromContext(t *testing.T) {
	req := require.New(t)

	_, ok := UserFromContext(context.Background())
	req.False(ok)

	alice := domain.User{ID: "alice-id", Username: "alice"}
	user, ok := UserFromContext(WithUser(context.Background(), alice))
	req.True(ok)
	req.Equal(alice, user)
}
