// Package session carries the authenticated user explicitly through service
// calls instead of reading a process-wide current user.
package session

import (
	"context"
	"strings"

	"kisaan/pkg/apperr"
)

type Session struct {
	UserID string
}

func New(userID string) Session { return Session{UserID: strings.TrimSpace(userID)} }

func (s Session) Authenticated() bool { return s.UserID != "" }

// Require returns ErrNotAuthenticated for an anonymous session.
func (s Session) Require() error {
	if !s.Authenticated() {
		return apperr.ErrNotAuthenticated
	}
	return nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by the auth middleware, or an
// anonymous one.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Session{}
}
