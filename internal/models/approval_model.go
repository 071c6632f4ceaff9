package models

import "time"

type ApprovalSession struct {
	ID         int64     `db:"id" json:"id"`
	ShareToken string    `db:"share_token" json:"share_token"`
	ClientID   int64     `db:"client_id" json:"client_id"`
	ProjectID  *int64    `db:"project_id" json:"project_id"`
	ExpiresAt  time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (s *ApprovalSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PostApproval is one decision per (session, post, post_type). The post_type
// disambiguates posts whose ids coincide across partitions.
type PostApproval struct {
	ID             int64      `db:"id" json:"id"`
	SessionID      int64      `db:"session_id" json:"session_id"`
	PostID         int64      `db:"post_id" json:"post_id"`
	PostType       string     `db:"post_type" json:"post_type"`
	ApprovalStatus string     `db:"approval_status" json:"approval_status"`
	ClientComments *string    `db:"client_comments" json:"client_comments"`
	ApprovedAt     *time.Time `db:"approved_at" json:"approved_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	ApprovalStatusPending        = "pending"
	ApprovalStatusApproved       = "approved"
	ApprovalStatusRejected       = "rejected"
	ApprovalStatusNeedsAttention = "needs_attention"
)

// ValidDecisionStatus reports whether a status is part of the public decision
// vocabulary. Pending is the pre-seeded default, never a submitted decision.
func ValidDecisionStatus(status string) bool {
	switch status {
	case ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusNeedsAttention:
		return true
	}
	return false
}
