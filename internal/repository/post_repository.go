package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
)

// PostRepository owns the drafting partition (posts table).
type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateLock(ctx context.Context, postID int64, editorID *int64, startedAt *time.Time) error
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, client_id, project_id, caption, status, approval_status, needs_reapproval,
	edit_count, currently_editing_by, editing_started_at, last_edited_by, last_edited_at,
	scheduled_time, created_at, updated_at`

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.Post
	err := row.Scan(
		&post.ID, &post.ClientID, &post.ProjectID, &post.Caption, &post.Status,
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

	post.Partition = models.PartitionDrafting
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET caption = $1,
			status = $2,
			approval_status = $3,
			needs_reapproval = $4,
			edit_count = $5,
			last_edited_by = $6,
			last_edited_at = $7,
			updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		post.Caption, post.Status, post.ApprovalStatus, post.NeedsReapproval,
		post.EditCount, post.LastEditedBy, post.LastEditedAt, time.Now(), post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateLock(ctx context.Context, postID int64, editorID *int64, startedAt *time.Time) error {
	query := `
		UPDATE posts
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

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
