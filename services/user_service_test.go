package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/auth"
	"github.com/elevateacademy/portal-api/utils/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
		FullName: "Ada Obi",
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, model.MembershipPending, user.MembershipStatus)
	assert.Equal(t, model.PaymentPending, user.PaymentStatus)
	assert.Empty(t, user.MemberID)
	assert.NoError(t, auth.VerifyPassword(user.PasswordHash, "correct-horse"))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserRequest{Email: "ada@example.com", Password: "password1", FullName: "Ada"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserRequest{Email: "ada@example.com", Password: "password2", FullName: "Other Ada"})
	assert.ErrorIs(t, err, errs.ErrDuplicateSubmission)
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "x@example.com",
		Password: "password1",
		FullName: "X",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUserUpdatePasswordBumpsTokenVersion(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "new-password-1"))

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, user.TokenVersion+1, updated.TokenVersion, "every outstanding token must stop working")
	assert.NoError(t, auth.VerifyPassword(updated.PasswordHash, "new-password-1"))
}

func TestUserUpdatePasswordValidatesLength(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "ada@example.com")

	err := svc.UpdatePassword(context.Background(), user.ID, "short")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUserUpdatePasswordMissingUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	err := svc.UpdatePassword(context.Background(), 999, "long-enough-pass")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserActivationAssignsSequentialMemberIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	first := createTestUser(t, db, "first@example.com")
	second := createTestUser(t, db, "second@example.com")

	activatedFirst, err := svc.SetMembershipStatus(ctx, first.ID, model.MembershipActive)
	require.NoError(t, err)
	activatedSecond, err := svc.SetMembershipStatus(ctx, second.ID, model.MembershipActive)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("ELV-%d-0001", year), activatedFirst.MemberID)
	assert.Equal(t, fmt.Sprintf("ELV-%d-0002", year), activatedSecond.MemberID)
}

func TestUserReactivationKeepsMemberID(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	activated, err := svc.SetMembershipStatus(ctx, user.ID, model.MembershipActive)
	require.NoError(t, err)
	memberID := activated.MemberID

	_, err = svc.SetMembershipStatus(ctx, user.ID, model.MembershipSuspended)
	require.NoError(t, err)
	reactivated, err := svc.SetMembershipStatus(ctx, user.ID, model.MembershipActive)
	require.NoError(t, err)

	assert.Equal(t, memberID, reactivated.MemberID)
}

func TestUserSetMembershipRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "ada@example.com")

	_, err := svc.SetMembershipStatus(context.Background(), user.ID, "banned")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUserBulkTargetExportSanitizes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	target := &UserBulkTarget{Service: svc}
	require.NoError(t, target.Apply(ctx, "export", user.ID))

	require.Len(t, target.Exported, 1)
	assert.Empty(t, target.Exported[0].PasswordHash)
	assert.Equal(t, user.Email, target.Exported[0].Email)
}

func TestUserDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "ada@example.com")
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, user.ID))
	assert.ErrorIs(t, svc.Delete(ctx, user.ID), errs.ErrNotFound)
}

func TestUserMemberIDNotReusedAfterDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	first := createTestUser(t, db, "first@example.com")
	second := createTestUser(t, db, "second@example.com")

	_, err := svc.SetMembershipStatus(ctx, first.ID, model.MembershipActive)
	require.NoError(t, err)
	_, err = svc.SetMembershipStatus(ctx, second.ID, model.MembershipActive)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))

	third := createTestUser(t, db, "third@example.com")
	activated, err := svc.SetMembershipStatus(ctx, third.ID, model.MembershipActive)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("ELV-%d-0003", year), activated.MemberID, "a deleted member's code is never handed out again")
}
