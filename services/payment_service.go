package services

import (
	"context"
	"fmt"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/errs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// pendingPaymentTTL is how long a payment claim may sit unverified before
// the hourly sweep marks it expired.
const pendingPaymentTTL = 72 * time.Hour

// PaymentService handles membership payment claims and admin verification.
type PaymentService struct {
	db          *gorm.DB
	userService *UserService
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, userService *UserService) *PaymentService {
	return &PaymentService{
		db:          db,
		userService: userService,
	}
}

// SubmitPaymentRequest is a member's claim that they have paid.
type SubmitPaymentRequest struct {
	AmountNaira float64 `json:"amount_naira" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"required,oneof=bank_transfer card ussd"`
	Note        string  `json:"note" validate:"max=500"`
}

// All returns every payment, most recent first.
func (s *PaymentService) All(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return payments, nil
}

// Pending returns unverified payment claims, oldest first so the admin
// works the queue in arrival order.
func (s *PaymentService) Pending(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.PaymentPending).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return payments, nil
}

// ByID returns one payment by id.
func (s *PaymentService) ByID(ctx context.Context, id uint) (*model.Payment, error) {
	var payment model.Payment
	if err := s.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &payment, nil
}

// ByUser returns a user's payment history, most recent first.
func (s *PaymentService) ByUser(ctx context.Context, userID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return payments, nil
}

// Submit records a payment claim with a generated reference. A user with a
// claim already pending cannot open a second one.
func (s *PaymentService) Submit(ctx context.Context, userID uint, req SubmitPaymentRequest) (*model.Payment, error) {
	if req.AmountNaira <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", errs.ErrValidation)
	}

	var pending int64
	err := s.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("user_id = ? AND status = ?", userID, model.PaymentPending).
		Count(&pending).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	if pending > 0 {
		return nil, errs.ErrDuplicateSubmission
	}

	payment := model.Payment{
		UserID:      userID,
		Reference:   uuid.New().String(),
		AmountNaira: req.AmountNaira,
		Method:      req.Method,
		Status:      model.PaymentPending,
		Note:        req.Note,
	}

	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	return &payment, nil
}

// Verify confirms a payment and activates the member in one transaction:
// payment moves to verified, the user's payment status mirrors it, the
// membership goes active, and a member id is assigned when missing.
func (s *PaymentService) Verify(ctx context.Context, id uint, adminID uint) (*model.Payment, error) {
	payment, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentPending {
		return nil, fmt.Errorf("%w: payment is already %s", errs.ErrInvalidTransition, payment.Status)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Updates(map[string]interface{}{
			"status":      model.PaymentVerified,
			"verified_by": adminID,
			"verified_at": now,
			"updated_at":  now,
		}).Error; err != nil {
			return err
		}

		var user model.User
		if err := tx.First(&user, payment.UserID).Error; err != nil {
			return err
		}

		userUpdates := map[string]interface{}{
			"payment_status":    model.PaymentVerified,
			"membership_status": model.MembershipActive,
			"updated_at":        now,
		}
		if user.MemberID == "" {
			memberID, err := s.userService.nextMemberID(ctx)
			if err != nil {
				return err
			}
			userUpdates["member_id"] = memberID
		}

		return tx.Model(&user).Updates(userUpdates).Error
	})
	if err != nil {
		return nil, errs.Normalize(err)
	}

	return s.ByID(ctx, id)
}

// Reject declines a payment claim with an admin note. The membership is
// left untouched so the user can submit a corrected claim.
func (s *PaymentService) Reject(ctx context.Context, id uint, adminID uint, note string) (*model.Payment, error) {
	payment, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentPending {
		return nil, fmt.Errorf("%w: payment is already %s", errs.ErrInvalidTransition, payment.Status)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Updates(map[string]interface{}{
			"status":      model.PaymentRejected,
			"verified_by": adminID,
			"verified_at": now,
			"note":        note,
			"updated_at":  now,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", payment.UserID).
			Update("payment_status", model.PaymentRejected).Error
	})
	if err != nil {
		return nil, errs.Normalize(err)
	}

	return s.ByID(ctx, id)
}

// ExpireStale marks payment claims older than the pending TTL as expired.
// Called by the hourly sweep; returns how many rows were expired.
func (s *PaymentService) ExpireStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-pendingPaymentTTL)

	result := s.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("status = ? AND created_at < ?", model.PaymentPending, cutoff).
		Updates(map[string]interface{}{
			"status":     model.PaymentExpired,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, errs.Normalize(result.Error)
	}

	return result.RowsAffected, nil
}
