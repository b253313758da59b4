package model

import (
	"time"

	"gorm.io/gorm"
)

// Moderation statuses shared by reviews and testimonials
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// MaxReviewTextLength bounds user-submitted review/testimonial text.
const MaxReviewTextLength = 2000

// Review is a member's course review. One review per user, enforced by the
// unique index on user_id; the service-level pre-check is only a fast path.
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Rating     int            `gorm:"not null" json:"rating"` // 1-5
	ReviewText string         `gorm:"type:varchar(2000);not null" json:"review_text"`
	Status     string         `gorm:"type:varchar(20);default:'pending';index" json:"status"` // pending, approved, rejected
	IsFeatured bool           `gorm:"default:false" json:"is_featured"`                       // only meaningful when approved

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// Testimonial is a member's community testimonial surfaced on the marketing
// site once approved. Same lifecycle and one-per-user rule as Review.
type Testimonial struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Rating     int            `gorm:"not null" json:"rating"` // 1-5
	ReviewText string         `gorm:"type:varchar(2000);not null" json:"review_text"`
	Status     string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	IsFeatured bool           `gorm:"default:false" json:"is_featured"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// IsValidModerationStatus reports whether status is a known moderation state.
func IsValidModerationStatus(status string) bool {
	return status == ModerationPending || status == ModerationApproved || status == ModerationRejected
}
