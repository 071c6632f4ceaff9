package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maheshrc27/approvalflow/internal/models"
	"github.com/maheshrc27/approvalflow/internal/transfer"
)

const submitConcurrencyLimit = 10

// SubmissionService applies a batch of client decisions. Every decision is an
// independent unit of work: one failing never rolls back or cancels the rest.
type SubmissionService interface {
	Submit(ctx context.Context, session *models.ApprovalSession, decisions []transfer.Decision) *transfer.BatchResult
}

type submissionService struct {
	rs ResolverService
	ps PostService
	as ApprovalService
}

func NewSubmissionService(rs ResolverService, ps PostService, as ApprovalService) SubmissionService {
	return &submissionService{rs: rs, ps: ps, as: as}
}

func (s *submissionService) Submit(ctx context.Context, session *models.ApprovalSession, decisions []transfer.Decision) *transfer.BatchResult {
	results := make([]transfer.DecisionResult, len(decisions))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, submitConcurrencyLimit)

	for i, d := range decisions {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, d transfer.Decision) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := transfer.DecisionResult{PostID: d.PostID, PostType: d.PostType, Outcome: transfer.OutcomeOk}
			if err := s.applyDecision(ctx, session, &d); err != nil {
				slog.Info(fmt.Sprintf("session %d: decision for post %d failed: %v", session.ID, d.PostID, err))
				result.Outcome = transfer.OutcomeFailed
				result.Reason = reasonFor(err)
			}
			results[i] = result
		}(i, d)
	}

	wg.Wait()

	batch := transfer.BatchResult{Success: true, Results: results}
	for _, r := range results {
		if r.Outcome != transfer.OutcomeOk {
			batch.Success = false
			break
		}
	}
	return &batch
}

// applyDecision is one unit of work: scope check, optional caption edit, then
// the decision upsert. The edit runs before the upsert so a reapproval reset
// never clobbers the decision being recorded.
func (s *submissionService) applyDecision(ctx context.Context, session *models.ApprovalSession, d *transfer.Decision) error {
	post, err := s.rs.Resolve(ctx, d.PostID)
	if err != nil {
		return err
	}
	if post.PostType() != d.PostType {
		return ErrNotFound
	}

	if err := s.checkScope(session, post); err != nil {
		return err
	}

	if d.EditedCaption != nil && *d.EditedCaption != post.Caption {
		edit := transfer.PostEdit{Caption: d.EditedCaption}
		post, err = s.ps.ApplyEdit(ctx, post.ID, AnonymousEditor, &edit)
		if err != nil {
			return err
		}
	}

	saved, err := s.as.UpsertDecision(ctx, session.ID, d)
	if err != nil {
		return err
	}

	// Mirror the decision onto the post record so editors see it without
	// joining through the session.
	post.ApprovalStatus = saved.ApprovalStatus
	if saved.ApprovalStatus == models.ApprovalStatusApproved {
		post.NeedsReapproval = false
	}
	if err := s.rs.Save(ctx, post); err != nil {
		return fmt.Errorf("saving post %d approval state: %w", post.ID, err)
	}

	return nil
}

// checkScope enforces that the post belongs to the session's client and, when
// the session is project-bound, to that project. An ad-hoc session (nil
// project) must not admit project-scoped posts.
func (s *submissionService) checkScope(session *models.ApprovalSession, post *models.Post) error {
	if post.ClientID == nil || *post.ClientID != session.ClientID {
		return ErrForbidden
	}
	if session.ProjectID != nil {
		if post.ProjectID == nil || *post.ProjectID != *session.ProjectID {
			return ErrForbidden
		}
	} else if post.ProjectID != nil {
		return ErrForbidden
	}
	return nil
}

func reasonFor(err error) string {
	var conflict *LockConflictError
	switch {
	case errors.Is(err, ErrNotFound):
		return "post not found"
	case errors.Is(err, ErrForbidden):
		return "post is outside the session scope"
	case errors.Is(err, ErrInvalidState):
		return "post status does not permit edits"
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.As(err, &conflict):
		return conflict.Error()
	}
	return "internal error"
}
