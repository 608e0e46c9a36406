package model

import "errors"

// Expected failure conditions surfaced to callers as distinct categories.
// Anything not listed here is treated as an internal fault and is never
// exposed beyond a generic server error.
var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidFilename    = errors.New("invalid filename")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPageNotFound       = errors.New("page not found")
	ErrPageAlreadyExists  = errors.New("page already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidInvite      = errors.New("invalid or expired invite")
)
