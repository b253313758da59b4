package services

import (
	"context"
	"testing"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB) *PaymentService {
	return NewPaymentService(db, NewUserService(db))
}

func TestPaymentSubmit(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	payment, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "bank_transfer"})

	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)
	assert.NotEmpty(t, payment.Reference)
	assert.Equal(t, float64(15000), payment.AmountNaira)
}

func TestPaymentSubmitRejectsSecondPendingClaim(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	_, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "bank_transfer"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "card"})
	assert.ErrorIs(t, err, errs.ErrDuplicateSubmission)
}

func TestPaymentSubmitAfterRejectionAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	ctx := context.Background()

	first, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "bank_transfer"})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, first.ID, admin.ID, "amount mismatch")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "bank_transfer"})
	assert.NoError(t, err)
}

func TestPaymentVerifyActivatesMembership(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	ctx := context.Background()

	payment, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "bank_transfer"})
	require.NoError(t, err)

	verified, err := svc.Verify(ctx, payment.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, admin.ID, *verified.VerifiedBy)
	assert.NotNil(t, verified.VerifiedAt)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, model.PaymentVerified, updated.PaymentStatus)
	assert.Equal(t, model.MembershipActive, updated.MembershipStatus)
	assert.NotEmpty(t, updated.MemberID)
}

func TestPaymentVerifyKeepsExistingMemberID(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	ctx := context.Background()

	require.NoError(t, db.Model(user).Update("member_id", "ELV-2025-0007").Error)

	payment, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "card"})
	require.NoError(t, err)
	_, err = svc.Verify(ctx, payment.ID, admin.ID)
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "ELV-2025-0007", updated.MemberID, "a returning member keeps their id")
}

func TestPaymentVerifyRefusesNonPending(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	ctx := context.Background()

	payment, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "ussd"})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, payment.ID, admin.ID)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, payment.ID, admin.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestPaymentRejectRecordsNote(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	ctx := context.Background()

	payment, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 500, Method: "bank_transfer"})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, payment.ID, admin.ID, "amount below membership fee")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRejected, rejected.Status)
	assert.Equal(t, "amount below membership fee", rejected.Note)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, model.PaymentRejected, updated.PaymentStatus)
	assert.Equal(t, model.MembershipPending, updated.MembershipStatus, "rejection never touches the membership")
}

func TestPaymentExpireStale(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	user := createTestUser(t, db, "ada@example.com")
	other := createTestUser(t, db, "ben@example.com")
	ctx := context.Background()

	stale, err := svc.Submit(ctx, user.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "bank_transfer"})
	require.NoError(t, err)
	fresh, err := svc.Submit(ctx, other.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "card"})
	require.NoError(t, err)

	// Backdate one claim past the pending TTL.
	old := time.Now().Add(-pendingPaymentTTL - time.Hour)
	require.NoError(t, db.Model(&model.Payment{}).Where("id = ?", stale.ID).Update("created_at", old).Error)

	expired, err := svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	got, err := svc.ByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentExpired, got.Status)

	got, err = svc.ByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, got.Status)
}

func TestPaymentPendingQueueOldestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db)
	first := createTestUser(t, db, "first@example.com")
	second := createTestUser(t, db, "second@example.com")
	ctx := context.Background()

	p1, err := svc.Submit(ctx, first.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "bank_transfer"})
	require.NoError(t, err)
	p2, err := svc.Submit(ctx, second.ID, SubmitPaymentRequest{AmountNaira: 15000, Method: "card"})
	require.NoError(t, err)

	// Separate the timestamps explicitly; sqlite's clock granularity can
	// collapse two inserts into the same instant.
	require.NoError(t, db.Model(&model.Payment{}).Where("id = ?", p1.ID).Update("created_at", time.Now().Add(-time.Minute)).Error)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, p1.ID, pending[0].ID)
	assert.Equal(t, p2.ID, pending[1].ID)
}
