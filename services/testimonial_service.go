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
	"github.com/elevateacademy/portal-api/utils/cache"
	"github.com/elevateacademy/portal-api/utils/errs"
	"gorm.io/gorm"
)

const featuredTestimonialsCacheKey = "testimonials:featured"

// TestimonialService handles community testimonials. Same lifecycle as
// reviews, plus a cached featured read for the marketing site landing page.
type TestimonialService struct {
	db    *gorm.DB
	cache FeaturedCache // optional, nil disables caching
}

// NewTestimonialService creates a new testimonial service
func NewTestimonialService(db *gorm.DB, redisCache *cache.RedisCache) *TestimonialService {
	s := &TestimonialService{db: db}
	if redisCache != nil {
		s.cache = redisCache
	}
	return s
}

// All returns every testimonial, most recent first.
func (s *TestimonialService) All(ctx context.Context) ([]model.Testimonial, error) {
	var testimonials []model.Testimonial
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&testimonials).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return testimonials, nil
}

// Approved returns testimonials visible to the public, most recent first.
func (s *TestimonialService) Approved(ctx context.Context) ([]model.Testimonial, error) {
	var testimonials []model.Testimonial
	err := s.db.WithContext(ctx).
		Where("status = ?", model.ModerationApproved).
		Order("created_at DESC").
		Find(&testimonials).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return testimonials, nil
}

// Featured returns up to limit featured testimonials for the landing page,
// best rated first. Results are cached briefly so the public page does not
// hit the database on every render.
func (s *TestimonialService) Featured(ctx context.Context, limit int) ([]model.Testimonial, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", errs.ErrValidation)
	}

	// The cache holds the complete featured list; each request slices its
	// own limit off the top.
	if s.cache != nil {
		var cached []model.Testimonial
		if err := s.cache.GetJSON(ctx, featuredTestimonialsCacheKey, &cached); err == nil && len(cached) > 0 {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	var testimonials []model.Testimonial
	err := s.db.WithContext(ctx).
		Where("status = ? AND is_featured = ?", model.ModerationApproved, true).
		Order("rating DESC").
		Find(&testimonials).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}

	if s.cache != nil && len(testimonials) > 0 {
		_ = s.cache.SetJSON(ctx, featuredTestimonialsCacheKey, testimonials, 5*time.Minute)
	}

	if len(testimonials) > limit {
		testimonials = testimonials[:limit]
	}
	return testimonials, nil
}

// ByID returns one testimonial by id.
func (s *TestimonialService) ByID(ctx context.Context, id uint) (*model.Testimonial, error) {
	var testimonial model.Testimonial
	if err := s.db.WithContext(ctx).First(&testimonial, id).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &testimonial, nil
}

// ByUser returns the user's own testimonial, if any.
func (s *TestimonialService) ByUser(ctx context.Context, userID uint) (*model.Testimonial, error) {
	var testimonial model.Testimonial
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&testimonial).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &testimonial, nil
}

// Submit creates the user's testimonial in pending state. The unique index
// on user_id is the authoritative one-per-user rule.
func (s *TestimonialService) Submit(ctx context.Context, userID uint, req SubmitReviewRequest) (*model.Testimonial, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Testimonial{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	if count > 0 {
		return nil, errs.ErrDuplicateSubmission
	}

	testimonial := model.Testimonial{
		UserID:     userID,
		Rating:     req.Rating,
		ReviewText: strings.TrimSpace(req.ReviewText),
		Status:     model.ModerationPending,
	}

	if err := s.db.WithContext(ctx).Create(&testimonial).Error; err != nil {
		if errs.IsDuplicateKey(err) {
			return nil, errs.ErrDuplicateSubmission
		}
		return nil, errs.Normalize(err)
	}

	return &testimonial, nil
}

// UpdateOwn edits the user's testimonial while it is still pending.
// ErrNotEditable means a testimonial exists but has been moderated.
func (s *TestimonialService) UpdateOwn(ctx context.Context, userID uint, req SubmitReviewRequest) (*model.Testimonial, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(&model.Testimonial{}).
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
		var existing model.Testimonial
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

// SetStatus applies an admin moderation decision under the same transition
// rules as reviews: no return to pending, featured requires approved.
func (s *TestimonialService) SetStatus(ctx context.Context, id uint, status string, isFeatured bool) (*model.Testimonial, error) {
	if !model.IsValidModerationStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", errs.ErrValidation, status)
	}
	if isFeatured && status != model.ModerationApproved {
		return nil, fmt.Errorf("%w: only approved testimonials can be featured", errs.ErrInvalidTransition)
	}

	testimonial, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == model.ModerationPending && testimonial.Status != model.ModerationPending {
		return nil, fmt.Errorf("%w: a moderated testimonial cannot return to pending", errs.ErrInvalidTransition)
	}

	updates := map[string]interface{}{
		"status":      status,
		"is_featured": isFeatured,
		"updated_at":  time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(testimonial).Updates(updates).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	s.invalidateFeatured(ctx)
	return s.ByID(ctx, id)
}

// Approve marks a testimonial approved, leaving its featured flag as it is.
func (s *TestimonialService) Approve(ctx context.Context, id uint) (*model.Testimonial, error) {
	testimonial, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, id, model.ModerationApproved, testimonial.IsFeatured)
}

// SetFeatured toggles the featured flag without touching moderation status.
// Only approved testimonials can gain the flag.
func (s *TestimonialService) SetFeatured(ctx context.Context, id uint, featured bool) (*model.Testimonial, error) {
	testimonial, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if featured && testimonial.Status != model.ModerationApproved {
		return nil, fmt.Errorf("%w: only approved testimonials can be featured", errs.ErrInvalidTransition)
	}

	updates := map[string]interface{}{
		"is_featured": featured,
		"updated_at":  time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(testimonial).Updates(updates).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	s.invalidateFeatured(ctx)
	return s.ByID(ctx, id)
}

// Delete removes a testimonial permanently.
func (s *TestimonialService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.Testimonial{}, id)
	if result.Error != nil {
		return errs.Normalize(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	s.invalidateFeatured(ctx)
	return nil
}

func (s *TestimonialService) invalidateFeatured(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, featuredTestimonialsCacheKey)
	}
}

// TestimonialBulkTarget adapts TestimonialService to the bulk dispatcher.
type TestimonialBulkTarget struct {
	Service  *TestimonialService
	Exported []model.Testimonial
}

// Apply maps each bulk action onto exactly one service call.
func (t *TestimonialBulkTarget) Apply(ctx context.Context, action bulk.Action, id uint) error {
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
		testimonial, err := t.Service.ByID(ctx, id)
		if err != nil {
			return err
		}
		t.Exported = append(t.Exported, *testimonial)
		return nil
	default:
		return fmt.Errorf("%w: action %q not supported for testimonials", errs.ErrValidation, action)
	}
}

// TestimonialListAdapter teaches the listview engine to read testimonials.
func TestimonialListAdapter() listview.Adapter[model.Testimonial] {
	return listview.Adapter[model.Testimonial]{
		ID: func(t model.Testimonial) uint { return t.ID },
		SearchText: func(t model.Testimonial) []string {
			return []string{t.ReviewText, t.User.FullName, t.User.Email}
		},
		FilterValue: func(t model.Testimonial, field string) string {
			switch field {
			case "status":
				return t.Status
			case "rating":
				return fmt.Sprintf("%d", t.Rating)
			}
			return ""
		},
		SortValue: func(t model.Testimonial, key string) listview.SortValue {
			switch key {
			case "rating":
				return listview.NumberValue(float64(t.Rating))
			case "status":
				return listview.StringValue(t.Status)
			case "created_at":
				return listview.TimeValue(t.CreatedAt)
			case "updated_at":
				return listview.TimeValue(t.UpdatedAt)
			}
			return listview.NullValue()
		},
	}
}
