package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
)

// In-memory stand-ins for the repository layer. They copy records on the way
// in and out so tests only observe state that was explicitly saved.

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[int64]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[int64]*models.Post{}}
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	return &cp
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := copyPost(p)
	cp.Partition = models.PartitionDrafting
	return cp, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %d not in drafting store", post.ID)
	}
	cp := copyPost(post)
	cp.CurrentlyEditingBy = stored.CurrentlyEditingBy
	cp.EditingStartedAt = stored.EditingStartedAt
	r.posts[post.ID] = cp
	return nil
}

func (r *fakePostRepo) UpdateLock(ctx context.Context, postID int64, editorID *int64, startedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[postID]
	if !ok {
		return fmt.Errorf("post %d not in drafting store", postID)
	}
	stored.CurrentlyEditingBy = editorID
	stored.EditingStartedAt = startedAt
	return nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type fakePlannerRepo struct {
	mu    sync.Mutex
	posts map[int64]*models.Post
}

func newFakePlannerRepo() *fakePlannerRepo {
	return &fakePlannerRepo{posts: map[int64]*models.Post{}}
}

func (r *fakePlannerRepo) GetScheduledByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.ScheduledTime == nil {
		return nil, nil
	}
	cp := copyPost(p)
	cp.Partition = models.PartitionScheduled
	return cp, nil
}

func (r *fakePlannerRepo) GetUnscheduledByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.ScheduledTime != nil {
		return nil, nil
	}
	cp := copyPost(p)
	cp.Partition = models.PartitionUnscheduled
	return cp, nil
}

func (r *fakePlannerRepo) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %d not in planner store", post.ID)
	}
	cp := copyPost(post)
	cp.CurrentlyEditingBy = stored.CurrentlyEditingBy
	cp.EditingStartedAt = stored.EditingStartedAt
	r.posts[post.ID] = cp
	return nil
}

func (r *fakePlannerRepo) UpdateLock(ctx context.Context, postID int64, editorID *int64, startedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[postID]
	if !ok {
		return fmt.Errorf("post %d not in planner store", postID)
	}
	stored.CurrentlyEditingBy = editorID
	stored.EditingStartedAt = startedAt
	return nil
}

func (r *fakePlannerRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	seq      int64
	sessions map[string]*models.ApprovalSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.ApprovalSession{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.ApprovalSession) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *session
	cp.ID = r.seq
	cp.CreatedAt = time.Now()
	r.sessions[cp.ShareToken] = &cp
	return cp.ID, nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, token string) (*models.ApprovalSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for token, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, token)
			count++
		}
	}
	return count, nil
}

type fakeApprovalRepo struct {
	mu    sync.Mutex
	seq   int64
	order []string
	rows  map[string]*models.PostApproval
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{rows: map[string]*models.PostApproval{}}
}

func approvalKey(sessionID, postID int64, postType string) string {
	return fmt.Sprintf("%d:%d:%s", sessionID, postID, postType)
}

func (r *fakeApprovalRepo) CreatePending(ctx context.Context, sessionID, postID int64, postType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := approvalKey(sessionID, postID, postType)
	if _, ok := r.rows[key]; ok {
		return nil
	}
	r.seq++
	r.rows[key] = &models.PostApproval{
		ID:             r.seq,
		SessionID:      sessionID,
		PostID:         postID,
		PostType:       postType,
		ApprovalStatus: models.ApprovalStatusPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	r.order = append(r.order, key)
	return nil
}

func (r *fakeApprovalRepo) Upsert(ctx context.Context, pa *models.PostApproval) (*models.PostApproval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := approvalKey(pa.SessionID, pa.PostID, pa.PostType)
	existing, ok := r.rows[key]
	if ok {
		existing.ApprovalStatus = pa.ApprovalStatus
		existing.ClientComments = pa.ClientComments
		existing.ApprovedAt = pa.ApprovedAt
		existing.UpdatedAt = time.Now()
		cp := *existing
		return &cp, nil
	}
	r.seq++
	saved := *pa
	saved.ID = r.seq
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = time.Now()
	r.rows[key] = &saved
	r.order = append(r.order, key)
	cp := saved
	return &cp, nil
}

func (r *fakeApprovalRepo) GetByKey(ctx context.Context, sessionID, postID int64, postType string) (*models.PostApproval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pa, ok := r.rows[approvalKey(sessionID, postID, postType)]
	if !ok {
		return nil, nil
	}
	cp := *pa
	return &cp, nil
}

func (r *fakeApprovalRepo) ListBySessionID(ctx context.Context, sessionID int64) ([]*models.PostApproval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var approvals []*models.PostApproval
	for _, key := range r.order {
		pa := r.rows[key]
		if pa != nil && pa.SessionID == sessionID {
			cp := *pa
			approvals = append(approvals, &cp)
		}
	}
	return approvals, nil
}

func (r *fakeApprovalRepo) rowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Test data builders.

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func draftPost(id int64, clientID, projectID *int64, caption, status string) *models.Post {
	return &models.Post{
		ID:             id,
		ClientID:       clientID,
		ProjectID:      projectID,
		Caption:        caption,
		Status:         status,
		ApprovalStatus: models.ApprovalStatusPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func plannerPost(id int64, clientID, projectID *int64, caption string, scheduledAt *time.Time) *models.Post {
	return &models.Post{
		ID:             id,
		ClientID:       clientID,
		ProjectID:      projectID,
		Caption:        caption,
		ApprovalStatus: models.ApprovalStatusPending,
		ScheduledTime:  scheduledAt,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}
