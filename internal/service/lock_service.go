package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
)

// EditLockTimeout is the window after which an unreleased lock is treated as
// abandoned and may be taken over without force.
const EditLockTimeout = 30 * time.Minute

// AnonymousEditor marks edits coming through the public approval flow. Such
// edits respect existing locks but never hold one themselves.
const AnonymousEditor int64 = 0

// LockService manages the advisory edit lock stored on the post record. There
// is no lock server and no sweeper: expiry is computed at read time.
type LockService interface {
	AcquireOrValidate(ctx context.Context, post *models.Post, editorID int64, force bool) error
	Release(ctx context.Context, post *models.Post, editorID int64) error
}

type lockService struct {
	rs  ResolverService
	now func() time.Time
}

func NewLockService(rs ResolverService) LockService {
	return &lockService{rs: rs, now: time.Now}
}

// AcquireOrValidate grants the lock when it is free, expired, already held by
// the same editor, or when force is set. On grant the lock is re-stamped and
// persisted to the owning partition. A held, unexpired lock from a different
// editor yields a LockConflictError.
func (s *lockService) AcquireOrValidate(ctx context.Context, post *models.Post, editorID int64, force bool) error {
	now := s.now()

	if post.LockActive(now, EditLockTimeout) && *post.CurrentlyEditingBy != editorID && !force {
		return &LockConflictError{
			EditingBy: *post.CurrentlyEditingBy,
			Since:     *post.EditingStartedAt,
		}
	}

	if editorID == AnonymousEditor {
		return nil
	}

	post.CurrentlyEditingBy = &editorID
	post.EditingStartedAt = &now

	if err := s.rs.SaveLock(ctx, post); err != nil {
		slog.Error(err.Error())
		return err
	}
	return nil
}

// Release clears the lock if the editor holds it. Releasing a lock held by
// someone else is a no-op, not an error.
func (s *lockService) Release(ctx context.Context, post *models.Post, editorID int64) error {
	if post.CurrentlyEditingBy == nil || *post.CurrentlyEditingBy != editorID {
		return nil
	}

	post.CurrentlyEditingBy = nil
	post.EditingStartedAt = nil

	if err := s.rs.SaveLock(ctx, post); err != nil {
		slog.Error(err.Error())
		return err
	}
	return nil
}
