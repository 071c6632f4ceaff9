package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/approvalflow/internal/models"
	"github.com/maheshrc27/approvalflow/internal/transfer"
)

func approvalFixture(t *testing.T) (*fakePostRepo, *fakePlannerRepo, *fakeSessionRepo, *fakeApprovalRepo, *approvalService) {
	t.Helper()
	pr := newFakePostRepo()
	pl := newFakePlannerRepo()
	sr := newFakeSessionRepo()
	ar := newFakeApprovalRepo()
	rs := NewResolverService(pr, pl)
	as := &approvalService{sr: sr, ar: ar, rs: rs, now: time.Now}
	return pr, pl, sr, ar, as
}

func TestCreateSessionSeedsPendingRows(t *testing.T) {
	ctx := context.Background()
	pr, pl, _, ar, as := approvalFixture(t)

	pr.posts[1] = draftPost(1, int64Ptr(10), nil, "one", models.PostStatusReady)
	pl.posts[2] = plannerPost(2, int64Ptr(10), nil, "two", nil)

	session, seeded, err := as.CreateSession(ctx, 10, nil, []int64{1, 2}, 7)
	require.NoError(t, err)
	require.NotEmpty(t, session.ShareToken)
	assert.Equal(t, 2, seeded)

	rows, err := ar.ListBySessionID(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.PostTypeScheduled, rows[0].PostType)
	assert.Equal(t, models.ApprovalStatusPending, rows[0].ApprovalStatus)
	assert.Equal(t, models.PostTypePlannerScheduled, rows[1].PostType)
	assert.Equal(t, models.ApprovalStatusPending, rows[1].ApprovalStatus)
}

func TestCreateSessionSkipsUnresolvableIDs(t *testing.T) {
	ctx := context.Background()
	pr, _, _, ar, as := approvalFixture(t)
	pr.posts[1] = draftPost(1, int64Ptr(10), nil, "one", models.PostStatusReady)

	session, seeded, err := as.CreateSession(ctx, 10, nil, []int64{1, 404, 405}, 7)
	require.NoError(t, err, "partial pre-seed failure must not fail session creation")
	assert.Equal(t, 1, seeded)

	rows, _ := ar.ListBySessionID(ctx, session.ID)
	assert.Len(t, rows, 1)
}

func TestCreateSessionExpiry(t *testing.T) {
	ctx := context.Background()
	pr, _, _, _, as := approvalFixture(t)
	pr.posts[1] = draftPost(1, int64Ptr(10), nil, "one", models.PostStatusReady)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	as.now = func() time.Time { return start }

	session, _, err := as.CreateSession(ctx, 10, nil, []int64{1}, 3)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 3), session.ExpiresAt)
}

func TestValidateTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	pr, _, _, _, as := approvalFixture(t)
	pr.posts[1] = draftPost(1, int64Ptr(10), nil, "one", models.PostStatusReady)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	as.now = func() time.Time { return start }

	session, _, err := as.CreateSession(ctx, 10, nil, []int64{1}, 1)
	require.NoError(t, err)

	got, err := as.ValidateToken(ctx, session.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = as.ValidateToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// the instant the session crosses expires_at it stops working
	as.now = func() time.Time { return session.ExpiresAt }
	_, err = as.ValidateToken(ctx, session.ShareToken)
	assert.ErrorIs(t, err, ErrSessionExpired)

	as.now = func() time.Time { return session.ExpiresAt.Add(time.Hour) }
	_, err = as.ValidateToken(ctx, session.ShareToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestListEligiblePostsIsScopeBound(t *testing.T) {
	ctx := context.Background()
	pr, pl, _, _, as := approvalFixture(t)

	pr.posts[1] = draftPost(1, int64Ptr(10), nil, "in scope", models.PostStatusReady)
	pr.posts[2] = draftPost(2, int64Ptr(10), nil, "same client, not selected", models.PostStatusReady)
	pl.posts[3] = plannerPost(3, int64Ptr(10), nil, "also in scope", nil)

	session, _, err := as.CreateSession(ctx, 10, nil, []int64{1, 3}, 7)
	require.NoError(t, err)

	posts, err := as.ListEligiblePosts(ctx, session)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(1), posts[0].ID)
	assert.Equal(t, int64(3), posts[1].ID)
}

func TestListEligiblePostsIgnoresPartitionIDCollisions(t *testing.T) {
	ctx := context.Background()
	pr, pl, _, _, as := approvalFixture(t)

	// only the planner post is selected; later a drafting post appears with
	// the same id and shadows it in the probe order
	pl.posts[5] = plannerPost(5, int64Ptr(10), nil, "planner five", nil)
	session, _, err := as.CreateSession(ctx, 10, nil, []int64{5}, 7)
	require.NoError(t, err)

	pr.posts[5] = draftPost(5, int64Ptr(10), nil, "drafting five", models.PostStatusReady)

	posts, err := as.ListEligiblePosts(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, posts, "a colliding id from another partition must not leak in")
}

func TestUpsertDecisionValidation(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, as := approvalFixture(t)

	for _, status := range []string{"pending", "maybe", ""} {
		_, err := as.UpsertDecision(ctx, 1, &transfer.Decision{
			PostID:         1,
			PostType:       models.PostTypeScheduled,
			ApprovalStatus: status,
		})
		assert.ErrorIs(t, err, ErrValidation, "status %q must be rejected", status)
	}

	_, err := as.UpsertDecision(ctx, 1, &transfer.Decision{
		PostID:         1,
		PostType:       "mystery",
		ApprovalStatus: models.ApprovalStatusApproved,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpsertDecisionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, _, _, ar, as := approvalFixture(t)

	d := transfer.Decision{
		PostID:         7,
		PostType:       models.PostTypeScheduled,
		ApprovalStatus: models.ApprovalStatusApproved,
	}

	first, err := as.UpsertDecision(ctx, 1, &d)
	require.NoError(t, err)
	require.NotNil(t, first.ApprovedAt)

	for i := 0; i < 5; i++ {
		_, err := as.UpsertDecision(ctx, 1, &d)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, ar.rowCount(), "replays must never create extra rows")

	// flipping the decision updates in place and drops approved_at
	d.ApprovalStatus = models.ApprovalStatusRejected
	d.Comments = strPtr("resize image")
	updated, err := as.UpsertDecision(ctx, 1, &d)
	require.NoError(t, err)
	assert.Equal(t, 1, ar.rowCount())
	assert.Equal(t, models.ApprovalStatusRejected, updated.ApprovalStatus)
	assert.Nil(t, updated.ApprovedAt)
	require.NotNil(t, updated.ClientComments)
	assert.Equal(t, "resize image", *updated.ClientComments)
}

func TestSessionCleanupPurgesExpired(t *testing.T) {
	ctx := context.Background()
	pr, _, sr, _, as := approvalFixture(t)
	pr.posts[1] = draftPost(1, int64Ptr(10), nil, "one", models.PostStatusReady)

	session, _, err := as.CreateSession(ctx, 10, nil, []int64{1}, 1)
	require.NoError(t, err)

	count, err := sr.DeleteExpired(ctx, session.ExpiresAt.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = as.ValidateToken(ctx, session.ShareToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
