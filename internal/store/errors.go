package store

import "github.com/watchlogapp/watchlog-server/internal/errors"

// Store operations surface the shared domain error codes so callers can
// errors.Is against one set of sentinels regardless of layer.
var (
	ErrNotFound      = errors.ErrNotFound
	ErrAlreadyExists = errors.ErrAlreadyExists
)
