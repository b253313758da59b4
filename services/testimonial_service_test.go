package services

import (
	"context"
	"testing"

	"github.com/elevateacademy/portal-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestimonialBulkApproveKeepsFeaturedFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestimonialService(db, nil)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	testimonial, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 5, ReviewText: "Changed my career"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, testimonial.ID, model.ModerationApproved, true)
	require.NoError(t, err)

	target := &TestimonialBulkTarget{Service: svc}
	require.NoError(t, target.Apply(ctx, "approve", testimonial.ID))

	got, err := svc.ByID(ctx, testimonial.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationApproved, got.Status)
	assert.True(t, got.IsFeatured, "approving only changes status, never the featured flag")
}

func TestTestimonialBulkUnfeatureKeepsStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestimonialService(db, nil)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	testimonial, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 1, ReviewText: "Not my thing"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, testimonial.ID, model.ModerationRejected, false)
	require.NoError(t, err)

	target := &TestimonialBulkTarget{Service: svc}
	require.NoError(t, target.Apply(ctx, "unfeature", testimonial.ID))

	got, err := svc.ByID(ctx, testimonial.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationRejected, got.Status, "unfeaturing only changes the flag, never the status")
	assert.False(t, got.IsFeatured)
}

func TestTestimonialFeaturedCacheServesFullListAcrossLimits(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestimonialService(db, nil)
	svc.cache = newMemoryCache()
	ctx := context.Background()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := createTestUser(t, db, email)
		testimonial, err := svc.Submit(ctx, user.ID, SubmitReviewRequest{Rating: 3 + i%3, ReviewText: "Worth it"})
		require.NoError(t, err)
		_, err = svc.SetStatus(ctx, testimonial.ID, model.ModerationApproved, true)
		require.NoError(t, err)
	}

	one, err := svc.Featured(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)

	all, err := svc.Featured(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, all, 3, "a small first request must not pin its truncated result")
}
