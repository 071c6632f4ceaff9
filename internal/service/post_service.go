package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
	"github.com/maheshrc27/approvalflow/internal/transfer"
)

// validTransitions is the status graph for drafting posts. Planner posts have
// no status and skip transition checks entirely.
var validTransitions = map[string][]string{
	models.PostStatusDraft:     {models.PostStatusReady, models.PostStatusDeleted},
	models.PostStatusReady:     {models.PostStatusDraft, models.PostStatusScheduled, models.PostStatusDeleted},
	models.PostStatusScheduled: {models.PostStatusReady, models.PostStatusPublished, models.PostStatusDeleted},
	models.PostStatusPublished: {models.PostStatusArchived},
	models.PostStatusArchived:  {models.PostStatusDeleted},
}

func canTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PostService interface {
	Info(ctx context.Context, postID int64) (*models.Post, error)
	ApplyEdit(ctx context.Context, postID, editorID int64, changes *transfer.PostEdit) (*models.Post, error)
	ReleaseLock(ctx context.Context, postID, editorID int64) error
	Remove(ctx context.Context, postID int64) error
}

type postService struct {
	rs  ResolverService
	ls  LockService
	now func() time.Time
}

func NewPostService(rs ResolverService, ls LockService) PostService {
	return &postService{rs: rs, ls: ls, now: time.Now}
}

func (s *postService) Info(ctx context.Context, postID int64) (*models.Post, error) {
	if postID == 0 {
		slog.Info("post id is not valid")
		return nil, ErrValidation
	}
	return s.rs.Resolve(ctx, postID)
}

// ApplyEdit runs one content edit through the state machine: status gate,
// lock resolution, reapproval trigger, then a single write back to the owning
// partition. A caption change on an approved post always resets the approval
// to pending, because the client signed off on specific wording.
func (s *postService) ApplyEdit(ctx context.Context, postID, editorID int64, changes *transfer.PostEdit) (*models.Post, error) {
	if changes == nil || (changes.Caption == nil && changes.Status == nil) {
		slog.Info("edit carries no changes")
		return nil, ErrValidation
	}

	post, err := s.rs.Resolve(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.Editable() {
		slog.Info(fmt.Sprintf("post %d is %s and cannot be edited", post.ID, post.Status))
		return nil, ErrInvalidState
	}

	if err := s.ls.AcquireOrValidate(ctx, post, editorID, changes.Force); err != nil {
		return nil, err
	}

	if changes.Status != nil && post.Partition == models.PartitionDrafting {
		if !canTransition(post.Status, *changes.Status) {
			slog.Info(fmt.Sprintf("post %d: illegal transition %s -> %s", post.ID, post.Status, *changes.Status))
			return nil, ErrInvalidState
		}
		post.Status = *changes.Status
	}

	if changes.Caption != nil && *changes.Caption != post.Caption {
		if post.ApprovalStatus == models.ApprovalStatusApproved {
			post.NeedsReapproval = true
			post.ApprovalStatus = models.ApprovalStatusPending
		}
		post.Caption = *changes.Caption
	}

	post.EditCount++
	now := s.now()
	post.LastEditedAt = &now
	if editorID != AnonymousEditor {
		editor := editorID
		post.LastEditedBy = &editor
	}

	if err := s.rs.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("saving post %d: %w", post.ID, err)
	}

	return post, nil
}

func (s *postService) ReleaseLock(ctx context.Context, postID, editorID int64) error {
	post, err := s.rs.Resolve(ctx, postID)
	if err != nil {
		return err
	}
	return s.ls.Release(ctx, post, editorID)
}

// Remove deletes a post from its owning partition. Published posts are never
// hard-deleted.
func (s *postService) Remove(ctx context.Context, postID int64) error {
	post, err := s.rs.Resolve(ctx, postID)
	if err != nil {
		return err
	}

	if post.Partition == models.PartitionDrafting && post.Status == models.PostStatusPublished {
		slog.Info(fmt.Sprintf("post %d is published and cannot be removed", post.ID))
		return ErrInvalidState
	}

	return s.rs.Delete(ctx, post)
}
