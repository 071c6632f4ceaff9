package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/approvalflow/internal/models"
	"github.com/maheshrc27/approvalflow/internal/repository"
	"github.com/maheshrc27/approvalflow/internal/transfer"
	"github.com/maheshrc27/approvalflow/pkg/utils"
)

const shareTokenBytes = 32

// ApprovalService manages client approval sessions and their decision rows.
// Possession of a valid, unexpired share token is the only authorization the
// public flow has; the session's decision rows are its scope.
type ApprovalService interface {
	CreateSession(ctx context.Context, clientID int64, projectID *int64, postIDs []int64, ttlDays int) (*models.ApprovalSession, int, error)
	ValidateToken(ctx context.Context, token string) (*models.ApprovalSession, error)
	ListEligiblePosts(ctx context.Context, session *models.ApprovalSession) ([]*models.Post, error)
	UpsertDecision(ctx context.Context, sessionID int64, d *transfer.Decision) (*models.PostApproval, error)
}

type approvalService struct {
	sr  repository.ApprovalSessionRepository
	ar  repository.PostApprovalRepository
	rs  ResolverService
	now func() time.Time
}

func NewApprovalService(
	sr repository.ApprovalSessionRepository,
	ar repository.PostApprovalRepository,
	rs ResolverService) ApprovalService {
	return &approvalService{sr: sr, ar: ar, rs: rs, now: time.Now}
}

// CreateSession mints a share token, persists the session, and pre-seeds a
// pending decision row for every selected post that resolves. Unresolvable
// ids are logged and skipped; the session stays usable for the rest. Returns
// the session and the number of rows seeded.
func (s *approvalService) CreateSession(ctx context.Context, clientID int64, projectID *int64, postIDs []int64, ttlDays int) (*models.ApprovalSession, int, error) {
	if clientID == 0 || len(postIDs) == 0 {
		slog.Info("session creation needs a client and at least one post")
		return nil, 0, ErrValidation
	}
	if ttlDays <= 0 {
		return nil, 0, fmt.Errorf("%w: ttl_days must be positive", ErrValidation)
	}

	token, err := utils.GenerateRandomKey(shareTokenBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("generating share token: %w", err)
	}

	session := models.ApprovalSession{
		ShareToken: token,
		ClientID:   clientID,
		ProjectID:  projectID,
		ExpiresAt:  s.now().AddDate(0, 0, ttlDays),
	}

	id, err := s.sr.Create(ctx, &session)
	if err != nil {
		return nil, 0, fmt.Errorf("creating approval session: %w", err)
	}
	session.ID = id

	seeded := 0
	for _, postID := range postIDs {
		post, err := s.rs.Resolve(ctx, postID)
		if err != nil {
			slog.Warn(fmt.Sprintf("session %d: skipping post %d: %v", id, postID, err))
			continue
		}
		if err := s.ar.CreatePending(ctx, id, post.ID, post.PostType()); err != nil {
			slog.Warn(fmt.Sprintf("session %d: seeding post %d failed: %v", id, postID, err))
			continue
		}
		seeded++
	}

	return &session, seeded, nil
}

// ValidateToken checks expiry on every call. A session already handed out
// stops working the moment it crosses expires_at.
func (s *approvalService) ValidateToken(ctx context.Context, token string) (*models.ApprovalSession, error) {
	if token == "" {
		return nil, ErrValidation
	}

	session, err := s.sr.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// ListEligiblePosts resolves only the posts with a decision row under this
// session. This is the authorization boundary for the public flow: the token
// sees exactly the posts it was scoped to, never the whole project.
func (s *approvalService) ListEligiblePosts(ctx context.Context, session *models.ApprovalSession) ([]*models.Post, error) {
	approvals, err := s.ar.ListBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("listing session approvals: %w", err)
	}

	posts := make([]*models.Post, 0, len(approvals))
	for _, pa := range approvals {
		post, err := s.rs.Resolve(ctx, pa.PostID)
		if err != nil {
			slog.Info(fmt.Sprintf("session %d: post %d no longer resolvable", session.ID, pa.PostID))
			continue
		}
		// Same id may exist in another partition; only the seeded one counts.
		if post.PostType() != pa.PostType {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// UpsertDecision records one decision for the composite key, updating in
// place when the row exists. approved_at is recomputed on every call.
func (s *approvalService) UpsertDecision(ctx context.Context, sessionID int64, d *transfer.Decision) (*models.PostApproval, error) {
	if !models.ValidDecisionStatus(d.ApprovalStatus) {
		slog.Info(fmt.Sprintf("rejecting decision status %q", d.ApprovalStatus))
		return nil, fmt.Errorf("%w: approval_status must be approved, rejected or needs_attention", ErrValidation)
	}
	if d.PostType != models.PostTypeScheduled && d.PostType != models.PostTypePlannerScheduled {
		return nil, fmt.Errorf("%w: unknown post_type %q", ErrValidation, d.PostType)
	}

	pa := models.PostApproval{
		SessionID:      sessionID,
		PostID:         d.PostID,
		PostType:       d.PostType,
		ApprovalStatus: d.ApprovalStatus,
		ClientComments: d.Comments,
	}
	if d.ApprovalStatus == models.ApprovalStatusApproved {
		now := s.now()
		pa.ApprovedAt = &now
	}

	saved, err := s.ar.Upsert(ctx, &pa)
	if err != nil {
		return nil, fmt.Errorf("upserting decision: %w", err)
	}
	return saved, nil
}
