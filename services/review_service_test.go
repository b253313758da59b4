package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/elevateacademy/portal-api/database"
	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/errs"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A file-backed DB (not ":memory:") so every pooled connection sees the
	// same migrated schema.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "x",
		FullName:     "Test User",
		Role:         model.RoleStudent,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestReviewSubmit(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Changed how I work"})

	require.NoError(t, err)
	assert.Equal(t, model.ModerationPending, review.Status)
	assert.False(t, review.IsFeatured)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewSubmitRejectsSecondReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	_, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "First"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 4, ReviewText: "Second"})
	assert.ErrorIs(t, err, errs.ErrDuplicateSubmission)
}

func TestReviewSubmitValidatesInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	_, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 6, ReviewText: "x"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 3, ReviewText: "   "})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestReviewUpdateOwnWhilePending(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	_, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 3, ReviewText: "Decent"})
	require.NoError(t, err)

	updated, err := svc.UpdateOwn(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Actually great"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Actually great", updated.ReviewText)
	assert.Equal(t, model.ModerationPending, updated.Status)
}

func TestReviewUpdateOwnDistinguishesMissingFromModerated(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	// No review yet.
	_, err := svc.UpdateOwn(ctx, user.ID, SubmitReviewRequest{Rating: 4, ReviewText: "Edit"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 4, ReviewText: "Original"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, review.ID, model.ModerationApproved, false)
	require.NoError(t, err)

	// Review exists but has been moderated.
	_, err = svc.UpdateOwn(ctx, user.ID, SubmitReviewRequest{Rating: 4, ReviewText: "Edit"})
	assert.ErrorIs(t, err, errs.ErrNotEditable)
}

func TestReviewSetStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Great"})
	require.NoError(t, err)

	approved, err := svc.SetStatus(ctx, review.ID, model.ModerationApproved, false)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationApproved, approved.Status)

	// Approved and rejected may flip between each other.
	rejected, err := svc.SetStatus(ctx, review.ID, model.ModerationRejected, false)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationRejected, rejected.Status)

	// But nothing returns to pending.
	_, err = svc.SetStatus(ctx, review.ID, model.ModerationPending, false)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestReviewFeatureRequiresApproval(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Great"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, review.ID, model.ModerationRejected, true)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	featured, err := svc.SetStatus(ctx, review.ID, model.ModerationApproved, true)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)
}

func TestReviewFeaturedOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	ctx := context.Background()

	ratings := []int{3, 5, 4}
	for i, rating := range ratings {
		user := createTestUser(t, db, string(rune('a'+i))+"@example.com")
		review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: rating, ReviewText: "Review"})
		require.NoError(t, err)
		_, err = svc.SetStatus(ctx, review.ID, model.ModerationApproved, true)
		require.NoError(t, err)
	}

	featured, err := svc.Featured(ctx, 2)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, 5, featured[0].Rating)
	assert.Equal(t, 4, featured[1].Rating)

	_, err = svc.Featured(ctx, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestReviewFeaturedExcludesUnapproved(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	_, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Still pending"})
	require.NoError(t, err)

	featured, err := svc.Featured(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, featured)
}

func TestReviewDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Great"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, review.ID))

	_, err = svc.ByID(ctx, review.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, review.ID), errs.ErrNotFound)
}

func TestReviewBulkTargetApprovesAndFeatures(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Great"})
	require.NoError(t, err)

	target := &ReviewBulkTarget{Service: svc}
	require.NoError(t, target.Apply(ctx, "feature", review.ID))

	got, err := svc.ByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationApproved, got.Status)
	assert.True(t, got.IsFeatured)
}

func TestReviewBulkApproveKeepsFeaturedFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Great"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, review.ID, model.ModerationApproved, true)
	require.NoError(t, err)

	target := &ReviewBulkTarget{Service: svc}
	require.NoError(t, target.Apply(ctx, "approve", review.ID))

	got, err := svc.ByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationApproved, got.Status)
	assert.True(t, got.IsFeatured, "approving only changes status, never the featured flag")
}

func TestReviewBulkUnfeatureKeepsStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	review, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 2, ReviewText: "Not for me"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, review.ID, model.ModerationRejected, false)
	require.NoError(t, err)

	target := &ReviewBulkTarget{Service: svc}
	require.NoError(t, target.Apply(ctx, "unfeature", review.ID))

	got, err := svc.ByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationRejected, got.Status, "unfeaturing only changes the flag, never the status")
	assert.False(t, got.IsFeatured)
}
