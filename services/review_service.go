package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/services/bulk"
	"github.com/elevateacademy/portal-api/services/listview"
	"github.com/elevateacademy/portal-api/utils/errs"
	"gorm.io/gorm"
)

// ReviewService handles member course reviews and their moderation
// lifecycle: pending -> approved/rejected, plus the featured flag on
// approved reviews. Nothing ever returns to pending.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// SubmitReviewRequest represents a member submitting or editing a review
type SubmitReviewRequest struct {
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText string `json:"review_text" validate:"required,max=2000"`
}

func (r SubmitReviewRequest) validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", errs.ErrValidation)
	}
	text := strings.TrimSpace(r.ReviewText)
	if text == "" {
		return fmt.Errorf("%w: review text is required", errs.ErrValidation)
	}
	if len(text) > model.MaxReviewTextLength {
		return fmt.Errorf("%w: review text exceeds %d characters", errs.ErrValidation, model.MaxReviewTextLength)
	}
	return nil
}

// All returns every review, most recent first.
func (s *ReviewService) All(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return reviews, nil
}

// Approved returns reviews visible to the public, most recent first.
func (s *ReviewService) Approved(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Where("status = ?", model.ModerationApproved).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return reviews, nil
}

// Featured returns up to limit featured reviews, best rated first.
func (s *ReviewService) Featured(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", errs.ErrValidation)
	}
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Where("status = ? AND is_featured = ?", model.ModerationApproved, true).
		Order("rating DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return reviews, nil
}

// ByID returns one review by id.
func (s *ReviewService) ByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &review, nil
}

// ByUser returns the user's own review, if any.
func (s *ReviewService) ByUser(ctx context.Context, userID uint) (*model.Review, error) {
	var review model.Review
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&review).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &review, nil
}

// Submit creates the user's review in pending state. The read-before-write
// existence check is only a fast path; the unique index on user_id is the
// authoritative one-review-per-user rule, so a concurrent double submit
// still comes back as ErrDuplicateSubmission.
func (s *ReviewService) Submit(ctx context.Context, userID uint, req SubmitReviewRequest) (*model.Review, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Review{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	if count > 0 {
		return nil, errs.ErrDuplicateSubmission
	}

	review := model.Review{
		UserID:     userID,
		Rating:     req.Rating,
		ReviewText: strings.TrimSpace(req.ReviewText),
		Status:     model.ModerationPending,
	}

	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		if errs.IsDuplicateKey(err) {
			return nil, errs.ErrDuplicateSubmission
		}
		return nil, errs.Normalize(err)
	}

	return &review, nil
}

// UpdateOwn edits the user's review while it is still pending. Once the
// review has been moderated the edit is refused with ErrNotEditable, which
// is distinct from ErrNotFound when no review exists at all.
func (s *ReviewService) UpdateOwn(ctx context.Context, userID uint, req SubmitReviewRequest) (*model.Review, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("user_id = ? AND status = ?", userID, model.ModerationPending).
		Updates(map[string]interface{}{
			"rating":      req.Rating,
			"review_text": strings.TrimSpace(req.ReviewText),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return nil, errs.Normalize(result.Error)
	}

	if result.RowsAffected == 0 {
		// Zero rows means either no review or one that already left
		// pending. Distinguish the two for the caller.
		var existing model.Review
		err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		if err != nil {
			return nil, errs.Normalize(err)
		}
		return nil, errs.ErrNotEditable
	}

	return s.ByUser(ctx, userID)
}

// SetStatus applies an admin moderation decision. Allowed transitions:
// pending -> approved/rejected, approved <-> rejected. Returning to pending
// is never allowed, and the featured flag requires approved status in the
// same request.
func (s *ReviewService) SetStatus(ctx context.Context, id uint, status string, isFeatured bool) (*model.Review, error) {
	if !model.IsValidModerationStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", errs.ErrValidation, status)
	}
	if isFeatured && status != model.ModerationApproved {
		return nil, fmt.Errorf("%w: only approved reviews can be featured", errs.ErrInvalidTransition)
	}

	review, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == model.ModerationPending && review.Status != model.ModerationPending {
		return nil, fmt.Errorf("%w: a moderated review cannot return to pending", errs.ErrInvalidTransition)
	}

	updates := map[string]interface{}{
		"status":      status,
		"is_featured": isFeatured,
		"updated_at":  time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(review).Updates(updates).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	return s.ByID(ctx, id)
}

// Approve marks a review approved, leaving its featured flag as it is.
func (s *ReviewService) Approve(ctx context.Context, id uint) (*model.Review, error) {
	review, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, id, model.ModerationApproved, review.IsFeatured)
}

// SetFeatured toggles the featured flag without touching moderation status.
// Only approved reviews can gain the flag.
func (s *ReviewService) SetFeatured(ctx context.Context, id uint, featured bool) (*model.Review, error) {
	review, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if featured && review.Status != model.ModerationApproved {
		return nil, fmt.Errorf("%w: only approved reviews can be featured", errs.ErrInvalidTransition)
	}

	updates := map[string]interface{}{
		"is_featured": featured,
		"updated_at":  time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(review).Updates(updates).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	return s.ByID(ctx, id)
}

// Delete removes a review permanently.
func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.Review{}, id)
	if result.Error != nil {
		return errs.Normalize(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ReviewBulkTarget adapts ReviewService to the bulk dispatcher for the
// moderation queue.
type ReviewBulkTarget struct {
	Service  *ReviewService
	Exported []model.Review
}

// Apply maps each bulk action onto exactly one service call.
func (t *ReviewBulkTarget) Apply(ctx context.Context, action bulk.Action, id uint) error {
	switch action {
	case bulk.ActionApprove:
		_, err := t.Service.Approve(ctx, id)
		return err
	case bulk.ActionReject:
		_, err := t.Service.SetStatus(ctx, id, model.ModerationRejected, false)
		return err
	case bulk.ActionFeature:
		// Featuring approves as a side effect.
		_, err := t.Service.SetStatus(ctx, id, model.ModerationApproved, true)
		return err
	case bulk.ActionUnfeature:
		_, err := t.Service.SetFeatured(ctx, id, false)
		return err
	case bulk.ActionDelete:
		return t.Service.Delete(ctx, id)
	case bulk.ActionExport:
		review, err := t.Service.ByID(ctx, id)
		if err != nil {
			return err
		}
		t.Exported = append(t.Exported, *review)
		return nil
	default:
		return fmt.Errorf("%w: action %q not supported for reviews", errs.ErrValidation, action)
	}
}

// ReviewListAdapter teaches the listview engine to read reviews.
func ReviewListAdapter() listview.Adapter[model.Review] {
	return listview.Adapter[model.Review]{
		ID: func(r model.Review) uint { return r.ID },
		SearchText: func(r model.Review) []string {
			return []string{r.ReviewText, r.User.FullName, r.User.Email}
		},
		FilterValue: func(r model.Review, field string) string {
			switch field {
			case "status":
				return r.Status
			case "rating":
				return fmt.Sprintf("%d", r.Rating)
			}
			return ""
		},
		SortValue: func(r model.Review, key string) listview.SortValue {
			switch key {
			case "rating":
				return listview.NumberValue(float64(r.Rating))
			case "status":
				return listview.StringValue(r.Status)
			case "created_at":
				return listview.TimeValue(r.CreatedAt)
			case "updated_at":
				return listview.TimeValue(r.UpdatedAt)
			}
			return listview.NullValue()
		},
	}
}
