package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
)

type ApprovalSessionRepository interface {
	Create(ctx context.Context, session *models.ApprovalSession) (int64, error)
	GetByToken(ctx context.Context, token string) (*models.ApprovalSession, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type approvalSessionRepository struct {
	db *sql.DB
}

func NewApprovalSessionRepository(db *sql.DB) ApprovalSessionRepository {
	return &approvalSessionRepository{db: db}
}

func (r *approvalSessionRepository) Create(ctx context.Context, session *models.ApprovalSession) (int64, error) {
	query := `
		INSERT INTO approval_sessions (share_token, client_id, project_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		session.ShareToken, session.ClientID, session.ProjectID, session.ExpiresAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *approvalSessionRepository) GetByToken(ctx context.Context, token string) (*models.ApprovalSession, error) {
	query := `SELECT id, share_token, client_id, project_id, expires_at, created_at
		FROM approval_sessions WHERE share_token = $1`
	row := r.db.QueryRowContext(ctx, query, token)

	var session models.ApprovalSession
	err := row.Scan(&session.ID, &session.ShareToken, &session.ClientID,
		&session.ProjectID, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &session, nil
}

// DeleteExpired removes sessions past their expiry along with their decision
// rows (post_approvals has ON DELETE CASCADE on session_id).
func (r *approvalSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM approval_sessions WHERE expires_at <= $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return count, nil
}
