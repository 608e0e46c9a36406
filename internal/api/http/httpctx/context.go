// Package httpctx carries the authenticated username through request
// contexts.
package httpctx

import (
	"context"
)

type contextKey int

const usernameKey contextKey = iota

// Manager implements model.ContextManager over plain context values.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUsernameToContext returns a context carrying the authenticated username.
func (m *Manager) SetUsernameToContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// GetUsernameFromContext retrieves the authenticated username, reporting
// whether one was set.
func (m *Manager) GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}
