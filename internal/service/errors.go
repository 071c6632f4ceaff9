package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("post not found in any partition")
	ErrSessionNotFound = errors.New("approval session not found")
	ErrSessionExpired  = errors.New("approval session has expired")
	ErrForbidden       = errors.New("post is outside the session scope")
	ErrInvalidState    = errors.New("post status does not permit this operation")
	ErrValidation      = errors.New("invalid payload")
)

// LockConflictError reports an unexpired lock held by a different editor.
// It carries enough metadata for the caller to retry with force.
type LockConflictError struct {
	EditingBy int64
	Since     time.Time
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("post is being edited by user %d since %s", e.EditingBy, e.Since.Format(time.RFC3339))
}
