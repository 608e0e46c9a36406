package model

import "context"

// ContextManager carries the authenticated username through a request
// context. An absent username means the request is anonymous.
type ContextManager interface {
	SetUsernameToContext(ctx context.Context, username string) context.Context
	GetUsernameFromContext(ctx context.Context) (string, bool)
}
