package handlers

import (
	"context"
	"net/http"
)

const catalogPath = "/astrologers"

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// WithUser stores the authenticated identity on the request context.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserFromContext returns the identity set by WithUser.
func UserFromContext(ctx context.Context) (userID, role string, ok bool) {
	userID, _ = ctx.Value(userIDKey).(string)
	role, _ = ctx.Value(roleKey).(string)
	return userID, role, userID != ""
}

// currentUser answers 401 when the request carries no identity.
func currentUser(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, role, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, role, ok
}
