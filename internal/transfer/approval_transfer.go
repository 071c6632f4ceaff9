package transfer

import "time"

type SessionCreation struct {
	ClientID  int64   `json:"client_id"`
	ProjectID *int64  `json:"project_id"`
	PostIDs   []int64 `json:"post_ids"`
	TTLDays   int     `json:"ttl_days"`
}

type SessionInfo struct {
	SessionID int64     `json:"session_id"`
	ShareURL  string    `json:"share_url"`
	ExpiresAt time.Time `json:"expires_at"`
	Seeded    int       `json:"seeded_posts"`
}

type PostEdit struct {
	Caption *string `json:"caption"`
	Status  *string `json:"status"`
	Force   bool    `json:"force"`
}

type Decision struct {
	PostID         int64   `json:"post_id"`
	PostType       string  `json:"post_type"`
	ApprovalStatus string  `json:"approval_status"`
	Comments       *string `json:"comments"`
	EditedCaption  *string `json:"edited_caption"`
}

type BatchSubmission struct {
	Decisions []Decision `json:"decisions"`
}

const (
	OutcomeOk     = "ok"
	OutcomeFailed = "failed"
)

type DecisionResult struct {
	PostID   int64  `json:"post_id"`
	PostType string `json:"post_type"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason,omitempty"`
}

type BatchResult struct {
	Success bool             `json:"success"`
	Results []DecisionResult `json:"results"`
}

// LockConflict is the 409 body for edit attempts against a held lock. The
// caller may resubmit with force=true.
type LockConflict struct {
	Error              string    `json:"error"`
	CurrentlyEditingBy int64     `json:"currently_editing_by"`
	EditingStartedAt   time.Time `json:"editing_started_at"`
	RetryableWithForce bool      `json:"retryable_with_force"`
}
