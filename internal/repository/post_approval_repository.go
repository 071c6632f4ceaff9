package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/approvalflow/internal/models"
)

type PostApprovalRepository interface {
	CreatePending(ctx context.Context, sessionID, postID int64, postType string) error
	Upsert(ctx context.Context, pa *models.PostApproval) (*models.PostApproval, error)
	GetByKey(ctx context.Context, sessionID, postID int64, postType string) (*models.PostApproval, error)
	ListBySessionID(ctx context.Context, sessionID int64) ([]*models.PostApproval, error)
}

type postApprovalRepository struct {
	db *sql.DB
}

func NewPostApprovalRepository(db *sql.DB) PostApprovalRepository {
	return &postApprovalRepository{db: db}
}

// CreatePending seeds the pending row for a selected post. Replays of session
// creation are harmless: the composite key keeps the row unique.
func (r *postApprovalRepository) CreatePending(ctx context.Context, sessionID, postID int64, postType string) error {
	query := `
		INSERT INTO post_approvals (session_id, post_id, post_type, approval_status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, post_id, post_type) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, postID, postType, models.ApprovalStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Upsert records a decision. The ON CONFLICT clause makes concurrent
// submissions for the same key converge on one row instead of duplicating.
func (r *postApprovalRepository) Upsert(ctx context.Context, pa *models.PostApproval) (*models.PostApproval, error) {
	query := `
		INSERT INTO post_approvals (session_id, post_id, post_type, approval_status, client_comments, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, post_id, post_type) DO UPDATE
		SET approval_status = EXCLUDED.approval_status,
			client_comments = EXCLUDED.client_comments,
			approved_at = EXCLUDED.approved_at,
			updated_at = NOW()
		RETURNING id, session_id, post_id, post_type, approval_status, client_comments, approved_at, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, query,
		pa.SessionID, pa.PostID, pa.PostType, pa.ApprovalStatus, pa.ClientComments, pa.ApprovedAt)

	var saved models.PostApproval
	err := row.Scan(&saved.ID, &saved.SessionID, &saved.PostID, &saved.PostType,
		&saved.ApprovalStatus, &saved.ClientComments, &saved.ApprovedAt,
		&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &saved, nil
}

func (r *postApprovalRepository) GetByKey(ctx context.Context, sessionID, postID int64, postType string) (*models.PostApproval, error) {
	query := `SELECT id, session_id, post_id, post_type, approval_status, client_comments, approved_at, created_at, updated_at
		FROM post_approvals WHERE session_id = $1 AND post_id = $2 AND post_type = $3`
	row := r.db.QueryRowContext(ctx, query, sessionID, postID, postType)

	var pa models.PostApproval
	err := row.Scan(&pa.ID, &pa.SessionID, &pa.PostID, &pa.PostType,
		&pa.ApprovalStatus, &pa.ClientComments, &pa.ApprovedAt, &pa.CreatedAt, &pa.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &pa, nil
}

func (r *postApprovalRepository) ListBySessionID(ctx context.Context, sessionID int64) ([]*models.PostApproval, error) {
	query := `SELECT id, session_id, post_id, post_type, approval_status, client_comments, approved_at, created_at, updated_at
		FROM post_approvals WHERE session_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var approvals []*models.PostApproval
	for rows.Next() {
		var pa models.PostApproval
		err := rows.Scan(&pa.ID, &pa.SessionID, &pa.PostID, &pa.PostType,
			&pa.ApprovalStatus, &pa.ClientComments, &pa.ApprovedAt, &pa.CreatedAt, &pa.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		approvals = append(approvals, &pa)
	}
	return approvals, nil
}
