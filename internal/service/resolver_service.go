package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
	"github.com/maheshrc27/approvalflow/internal/repository"
)

// ResolverService locates a post across the three partitions. Probe order is
// fixed: drafting, then scheduled, then unscheduled. Writes always go back to
// the partition the record was found in.
type ResolverService interface {
	Resolve(ctx context.Context, postID int64) (*models.Post, error)
	Save(ctx context.Context, post *models.Post) error
	SaveLock(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, post *models.Post) error
}

type resolverService struct {
	pr repository.PostRepository
	pl repository.PlannerPostRepository
}

func NewResolverService(pr repository.PostRepository, pl repository.PlannerPostRepository) ResolverService {
	return &resolverService{pr: pr, pl: pl}
}

func (s *resolverService) Resolve(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("probing drafting partition: %w", err)
	}
	if post != nil {
		return post, nil
	}

	post, err = s.pl.GetScheduledByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("probing scheduled partition: %w", err)
	}
	if post != nil {
		return post, nil
	}

	post, err = s.pl.GetUnscheduledByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("probing unscheduled partition: %w", err)
	}
	if post != nil {
		return post, nil
	}

	return nil, ErrNotFound
}

func (s *resolverService) Save(ctx context.Context, post *models.Post) error {
	switch post.Partition {
	case models.PartitionDrafting:
		return s.pr.Update(ctx, post)
	case models.PartitionScheduled, models.PartitionUnscheduled:
		return s.pl.Update(ctx, post)
	}
	return fmt.Errorf("unknown partition %q for post %d", post.Partition, post.ID)
}

func (s *resolverService) SaveLock(ctx context.Context, post *models.Post) error {
	var editorID *int64
	var startedAt *time.Time
	if post.CurrentlyEditingBy != nil {
		editorID = post.CurrentlyEditingBy
		startedAt = post.EditingStartedAt
	}

	switch post.Partition {
	case models.PartitionDrafting:
		return s.pr.UpdateLock(ctx, post.ID, editorID, startedAt)
	case models.PartitionScheduled, models.PartitionUnscheduled:
		return s.pl.UpdateLock(ctx, post.ID, editorID, startedAt)
	}
	return fmt.Errorf("unknown partition %q for post %d", post.Partition, post.ID)
}

func (s *resolverService) Delete(ctx context.Context, post *models.Post) error {
	switch post.Partition {
	case models.PartitionDrafting:
		return s.pr.Remove(ctx, post.ID)
	case models.PartitionScheduled, models.PartitionUnscheduled:
		return s.pl.Remove(ctx, post.ID)
	}
	return fmt.Errorf("unknown partition %q for post %d", post.Partition, post.ID)
}
