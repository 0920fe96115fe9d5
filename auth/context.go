package auth

import (
	"chat-hub/domain"
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userKey contextKey = "user"

// BearerToken extracts the token of a standard "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// WithUser injects the authenticated user for downstream handlers.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	return user, ok
}
