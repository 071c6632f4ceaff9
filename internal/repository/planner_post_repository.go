package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
)

// PlannerPostRepository owns the calendar posts (planner_posts table). Rows
// with a scheduled time form the scheduled partition, rows without one the
// unscheduled backlog. Planner posts have no restrictive status column.
type PlannerPostRepository interface {
	GetScheduledByID(ctx context.Context, id int64) (*models.Post, error)
	GetUnscheduledByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateLock(ctx context.Context, postID int64, editorID *int64, startedAt *time.Time) error
	Remove(ctx context.Context, id int64) error
}

type plannerPostRepository struct {
	db *sql.DB
}

func NewPlannerPostRepository(db *sql.DB) PlannerPostRepository {
	return &plannerPostRepository{db: db}
}

const plannerColumns = `id, client_id, project_id, caption, approval_status, needs_reapproval,
	edit_count, currently_editing_by, editing_started_at, last_edited_by, last_edited_at,
	scheduled_time, created_at, updated_at`

func (r *plannerPostRepository) getByID(ctx context.Context, id int64, scheduled bool) (*models.Post, error) {
	timeClause := "scheduled_time IS NULL"
	partition := models.PartitionUnscheduled
	if scheduled {
		timeClause = "scheduled_time IS NOT NULL"
		partition = models.PartitionScheduled
	}

	query := `SELECT ` + plannerColumns + ` FROM planner_posts WHERE id = $1 AND ` + timeClause
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.Post
	err := row.Scan(
		&post.ID, &post.ClientID, &post.ProjectID, &post.Caption,
		&post.ApprovalStatus, &post.NeedsReapproval, &post.EditCount,
		&post.CurrentlyEditingBy, &post.EditingStartedAt, &post.LastEditedBy,
		&post.LastEditedAt, &post.ScheduledTime, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	post.Partition = partition
	return &post, nil
}

func (r *plannerPostRepository) GetScheduledByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.getByID(ctx, id, true)
}

func (r *plannerPostRepository) GetUnscheduledByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.getByID(ctx, id, false)
}

func (r *plannerPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE planner_posts
		SET caption = $1,
			approval_status = $2,
			needs_reapproval = $3,
			edit_count = $4,
			last_edited_by = $5,
			last_edited_at = $6,
			updated_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		post.Caption, post.ApprovalStatus, post.NeedsReapproval, post.EditCount,
		post.LastEditedBy, post.LastEditedAt, time.Now(), post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *plannerPostRepository) UpdateLock(ctx context.Context, postID int64, editorID *int64, startedAt *time.Time) error {
	query := `
		UPDATE planner_posts
		SET currently_editing_by = $1,
			editing_started_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, editorID, startedAt, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *plannerPostRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM planner_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
