package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course statuses
const (
	CourseDraft     = "draft"
	CoursePublished = "published"
	CourseArchived  = "archived"
)

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course represents a paid AI course offered by the academy
type Course struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Level         string         `gorm:"type:varchar(20);default:'beginner'" json:"level"` // beginner, intermediate, advanced
	DurationWeeks int            `gorm:"default:1" json:"duration_weeks"`
	PriceNaira    float64        `gorm:"default:0" json:"price_naira"`
	Topics        datatypes.JSON `gorm:"type:jsonb" json:"topics"` // ordered list of topic strings
	ImageURL      string         `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	Status        string         `gorm:"type:varchar(20);default:'draft';index" json:"status"` // draft, published, archived
	IsFeatured    bool           `gorm:"default:false" json:"is_featured"`
	InstructorID  uint           `gorm:"index" json:"instructor_id"`

	// Denormalized aggregates. They go stale after deletes and are
	// reconciled by the nightly recompute job, not on every write.
	EnrollmentCount int     `gorm:"default:0" json:"enrollment_count"`
	Rating          float64 `gorm:"default:0" json:"rating"` // 0.0 - 5.0

	// Relationships
	Instructor  User         `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Enrollment links a member to a course they have joined
type Enrollment struct {
	UserID     uint      `gorm:"primaryKey" json:"user_id"`
	CourseID   uint      `gorm:"primaryKey" json:"course_id"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// IsValidCourseStatus reports whether status is a known course state.
func IsValidCourseStatus(status string) bool {
	return status == CourseDraft || status == CoursePublished || status == CourseArchived
}

// IsValidCourseLevel reports whether level is a known course level.
func IsValidCourseLevel(level string) bool {
	return level == LevelBeginner || level == LevelIntermediate || level == LevelAdvanced
}
