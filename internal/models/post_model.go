package models

import "time"

// PostPartition names the logical store a post lives in. Drafting posts sit in
// the posts table; scheduled and unscheduled posts are both rows of the planner
// table, split on whether a scheduled time is set.
type PostPartition string

const (
	PartitionDrafting    PostPartition = "drafting"
	PartitionScheduled   PostPartition = "scheduled"
	PartitionUnscheduled PostPartition = "unscheduled"
)

// post_type values stored on approval rows. The two planner partitions share
// one id space, so a single type value covers both.
const (
	PostTypeScheduled        = "scheduled"
	PostTypePlannerScheduled = "planner_scheduled"
)

type Post struct {
	ID                 int64         `db:"id" json:"id"`
	Partition          PostPartition `db:"-" json:"partition"`
	ClientID           *int64        `db:"client_id" json:"client_id"`
	ProjectID          *int64        `db:"project_id" json:"project_id"`
	Caption            string        `db:"caption" json:"caption"`
	Status             string        `db:"status" json:"status,omitempty"`
	ApprovalStatus     string        `db:"approval_status" json:"approval_status"`
	NeedsReapproval    bool          `db:"needs_reapproval" json:"needs_reapproval"`
	EditCount          int           `db:"edit_count" json:"edit_count"`
	CurrentlyEditingBy *int64        `db:"currently_editing_by" json:"currently_editing_by"`
	EditingStartedAt   *time.Time    `db:"editing_started_at" json:"editing_started_at"`
	LastEditedBy       *int64        `db:"last_edited_by" json:"last_edited_by"`
	LastEditedAt       *time.Time    `db:"last_edited_at" json:"last_edited_at"`
	ScheduledTime      *time.Time    `db:"scheduled_time" json:"scheduled_time"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusReady     = "ready"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
	PostStatusDeleted   = "deleted"
)

// PostType maps the owning partition to the post_type recorded on approval rows.
func (p *Post) PostType() string {
	if p.Partition == PartitionDrafting {
		return PostTypeScheduled
	}
	return PostTypePlannerScheduled
}

// Editable reports whether the post accepts caption edits at all. Planner
// posts carry no publish-finality status and are always editable.
func (p *Post) Editable() bool {
	if p.Partition != PartitionDrafting {
		return true
	}
	switch p.Status {
	case PostStatusPublished, PostStatusArchived, PostStatusDeleted:
		return false
	}
	return true
}

// LockActive reports whether the edit lock is held and not yet expired.
func (p *Post) LockActive(now time.Time, timeout time.Duration) bool {
	if p.CurrentlyEditingBy == nil || p.EditingStartedAt == nil {
		return false
	}
	return now.Sub(*p.EditingStartedAt) < timeout
}
