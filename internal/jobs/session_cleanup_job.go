package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/approvalflow/internal/repository"
)

// SessionCleanupJob purges approval sessions past their expiry. Expiry itself
// is enforced at validation time; this job only reclaims storage. Edit locks
// are never swept, they expire at read time.
type SessionCleanupJob struct {
	sr repository.ApprovalSessionRepository
}

func NewSessionCleanupJob(sr repository.ApprovalSessionRepository) *SessionCleanupJob {
	return &SessionCleanupJob{sr: sr}
}

func (c *SessionCleanupJob) PurgeExpired() {
	ctx := context.Background()

	count, err := c.sr.DeleteExpired(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	if count > 0 {
		slog.Info(fmt.Sprintf("purged %d expired approval sessions", count))
	}
}
