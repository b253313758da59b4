package services

import (
	"context"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/errs"
	"gorm.io/gorm"
)

// StatsService aggregates dashboard counts. Each stats call issues several
// independent reads; a failed read zeroes its fields and the first error is
// reported alongside whatever did load, so the dashboard can render the
// partial picture instead of going blank.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// CourseStats summarizes the catalog for the admin dashboard.
type CourseStats struct {
	Total         int64   `json:"total"`
	Published     int64   `json:"published"`
	Draft         int64   `json:"draft"`
	Archived      int64   `json:"archived"`
	Featured      int64   `json:"featured"`
	AverageRating float64 `json:"average_rating"`
}

// ReviewStats summarizes the moderation queue.
type ReviewStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Featured int64 `json:"featured"`
}

// UserStats summarizes the member base.
type UserStats struct {
	Total           int64 `json:"total"`
	ActiveMembers   int64 `json:"active_members"`
	PendingMembers  int64 `json:"pending_members"`
	Suspended       int64 `json:"suspended"`
	PaymentVerified int64 `json:"payment_verified"`
	PendingPayments int64 `json:"pending_payments"`
}

// GetCourseStats collects catalog counts.
func (s *StatsService) GetCourseStats(ctx context.Context) (*CourseStats, error) {
	stats := &CourseStats{}
	var firstErr error

	count := func(dest *int64, query *gorm.DB) {
		if err := query.Count(dest).Error; err != nil {
			*dest = 0
			if firstErr == nil {
				firstErr = errs.Normalize(err)
			}
		}
	}

	courses := func() *gorm.DB { return s.db.WithContext(ctx).Model(&model.Course{}) }
	count(&stats.Total, courses())
	count(&stats.Published, courses().Where("status = ?", model.CoursePublished))
	count(&stats.Draft, courses().Where("status = ?", model.CourseDraft))
	count(&stats.Archived, courses().Where("status = ?", model.CourseArchived))
	count(&stats.Featured, courses().Where("is_featured = ?", true))

	var avg *float64
	err := courses().
		Where("status = ? AND rating > 0", model.CoursePublished).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		if firstErr == nil {
			firstErr = errs.Normalize(err)
		}
	} else if avg != nil {
		stats.AverageRating = *avg
	}

	return stats, firstErr
}

// GetReviewStats collects moderation queue counts.
func (s *StatsService) GetReviewStats(ctx context.Context) (*ReviewStats, error) {
	stats := &ReviewStats{}
	var firstErr error

	count := func(dest *int64, query *gorm.DB) {
		if err := query.Count(dest).Error; err != nil {
			*dest = 0
			if firstErr == nil {
				firstErr = errs.Normalize(err)
			}
		}
	}

	reviews := func() *gorm.DB { return s.db.WithContext(ctx).Model(&model.Review{}) }
	count(&stats.Total, reviews())
	count(&stats.Pending, reviews().Where("status = ?", model.ModerationPending))
	count(&stats.Approved, reviews().Where("status = ?", model.ModerationApproved))
	count(&stats.Rejected, reviews().Where("status = ?", model.ModerationRejected))
	count(&stats.Featured, reviews().Where("is_featured = ?", true))

	return stats, firstErr
}

// GetUserStats collects member base counts.
func (s *StatsService) GetUserStats(ctx context.Context) (*UserStats, error) {
	stats := &UserStats{}
	var firstErr error

	count := func(dest *int64, query *gorm.DB) {
		if err := query.Count(dest).Error; err != nil {
			*dest = 0
			if firstErr == nil {
				firstErr = errs.Normalize(err)
			}
		}
	}

	users := func() *gorm.DB { return s.db.WithContext(ctx).Model(&model.User{}) }
	count(&stats.Total, users())
	count(&stats.ActiveMembers, users().Where("membership_status = ?", model.MembershipActive))
	count(&stats.PendingMembers, users().Where("membership_status = ?", model.MembershipPending))
	count(&stats.Suspended, users().Where("membership_status = ?", model.MembershipSuspended))
	count(&stats.PaymentVerified, users().Where("payment_status = ?", model.PaymentVerified))
	count(&stats.PendingPayments, s.db.WithContext(ctx).Model(&model.Payment{}).Where("status = ?", model.PaymentPending))

	return stats, firstErr
}
