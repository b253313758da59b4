package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/services/bulk"
	"github.com/elevateacademy/portal-api/services/listview"
	"github.com/elevateacademy/portal-api/utils/cache"
	"github.com/elevateacademy/portal-api/utils/errs"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const featuredCoursesCacheKey = "courses:featured"

// FeaturedCache is the cache surface the featured reads use.
// *cache.RedisCache satisfies it.
type FeaturedCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CourseService handles course catalog CRUD and domain reads
type CourseService struct {
	db    *gorm.DB
	cache FeaturedCache // optional, nil disables caching
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB, redisCache *cache.RedisCache) *CourseService {
	s := &CourseService{db: db}
	if redisCache != nil {
		s.cache = redisCache
	}
	return s
}

// CreateCourseRequest represents the request to create a course
type CreateCourseRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	Description   string   `json:"description"`
	Level         string   `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	DurationWeeks int      `json:"duration_weeks" validate:"required,gt=0"`
	PriceNaira    float64  `json:"price_naira" validate:"gte=0"`
	Topics        []string `json:"topics"`
	ImageURL      string   `json:"image_url"`
	InstructorID  uint     `json:"instructor_id"`
}

// All returns every course, most recent first.
func (s *CourseService) All(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return courses, nil
}

// Published returns courses visible on the public catalog. Archived and draft
// courses never appear here.
func (s *CourseService) Published(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := s.db.WithContext(ctx).
		Where("status = ?", model.CoursePublished).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return courses, nil
}

// Featured returns up to limit featured published courses, best rated first.
func (s *CourseService) Featured(ctx context.Context, limit int) ([]model.Course, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", errs.ErrValidation)
	}

	// The cache holds the complete featured list; each request slices its
	// own limit off the top.
	if s.cache != nil {
		var cached []model.Course
		if err := s.cache.GetJSON(ctx, featuredCoursesCacheKey, &cached); err == nil && len(cached) > 0 {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	var courses []model.Course
	err := s.db.WithContext(ctx).
		Where("status = ? AND is_featured = ?", model.CoursePublished, true).
		Order("rating DESC").
		Find(&courses).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}

	if s.cache != nil && len(courses) > 0 {
		_ = s.cache.SetJSON(ctx, featuredCoursesCacheKey, courses, 5*time.Minute)
	}

	if len(courses) > limit {
		courses = courses[:limit]
	}
	return courses, nil
}

// ByID returns one course by id.
func (s *CourseService) ByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &course, nil
}

// BySlug returns one published course by slug for the public catalog page.
func (s *CourseService) BySlug(ctx context.Context, courseSlug string) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).
		Where("slug = ? AND status = ?", courseSlug, model.CoursePublished).
		First(&course).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return &course, nil
}

// Create inserts a new draft course. Business validation is the caller's job;
// the service only derives the slug and encodes topics.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*model.Course, error) {
	topics, err := encodeTopics(req.Topics)
	if err != nil {
		return nil, err
	}

	course := model.Course{
		Slug:          s.uniqueSlug(ctx, req.Title),
		Title:         req.Title,
		Description:   req.Description,
		Level:         req.Level,
		DurationWeeks: req.DurationWeeks,
		PriceNaira:    req.PriceNaira,
		Topics:        topics,
		ImageURL:      req.ImageURL,
		Status:        model.CourseDraft,
		InstructorID:  req.InstructorID,
	}

	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	s.invalidateFeatured(ctx)
	return &course, nil
}

// Update merges fields onto the existing record and returns the updated
// course. updated_at is stamped on every call.
func (s *CourseService) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Course, error) {
	if status, ok := fields["status"].(string); ok && !model.IsValidCourseStatus(status) {
		return nil, fmt.Errorf("%w: unknown course status %q", errs.ErrValidation, status)
	}
	if level, ok := fields["level"].(string); ok && !model.IsValidCourseLevel(level) {
		return nil, fmt.Errorf("%w: unknown course level %q", errs.ErrValidation, level)
	}
	if topics, ok := fields["topics"].([]string); ok {
		encoded, err := encodeTopics(topics)
		if err != nil {
			return nil, err
		}
		fields["topics"] = encoded
	}

	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	fields["updated_at"] = time.Now()
	if err := s.db.WithContext(ctx).Model(&course).Updates(fields).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	s.invalidateFeatured(ctx)

	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &course, nil
}

// Delete removes a course permanently. Enrollment counts on other records
// referencing it go stale until the nightly recompute.
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.Course{}, id)
	if result.Error != nil {
		return errs.Normalize(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	s.invalidateFeatured(ctx)
	return nil
}

// Duplicate clones a course as an unfeatured draft with fresh counters.
func (s *CourseService) Duplicate(ctx context.Context, id uint) (*model.Course, error) {
	source, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	copyTitle := source.Title + " (Copy)"
	duplicate := model.Course{
		Slug:          s.uniqueSlug(ctx, copyTitle),
		Title:         copyTitle,
		Description:   source.Description,
		Level:         source.Level,
		DurationWeeks: source.DurationWeeks,
		PriceNaira:    source.PriceNaira,
		Topics:        source.Topics,
		ImageURL:      source.ImageURL,
		Status:        model.CourseDraft,
		InstructorID:  source.InstructorID,
	}

	if err := s.db.WithContext(ctx).Create(&duplicate).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &duplicate, nil
}

// uniqueSlug derives a URL slug from the title, suffixing a short random id
// when the plain slug is already taken.
func (s *CourseService) uniqueSlug(ctx context.Context, title string) string {
	base := slug.Make(title)

	var count int64
	s.db.WithContext(ctx).Model(&model.Course{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
}

func (s *CourseService) invalidateFeatured(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, featuredCoursesCacheKey)
	}
}

// encodeTopics normalizes a topic list (trimmed, duplicates dropped, order
// preserved) into the JSON column representation.
func encodeTopics(topics []string) (datatypes.JSON, error) {
	seen := make(map[string]bool, len(topics))
	normalized := make([]string, 0, len(topics))
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" || seen[strings.ToLower(topic)] {
			continue
		}
		seen[strings.ToLower(topic)] = true
		normalized = append(normalized, topic)
	}

	jsonBytes, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid topics", errs.ErrValidation)
	}
	return datatypes.JSON(jsonBytes), nil
}

// CourseBulkTarget adapts CourseService to the bulk dispatcher. Exported
// rows are collected on the target for the caller to serialize.
type CourseBulkTarget struct {
	Service  *CourseService
	Exported []model.Course
}

// Apply maps each bulk action onto exactly one service call.
func (t *CourseBulkTarget) Apply(ctx context.Context, action bulk.Action, id uint) error {
	switch action {
	case bulk.ActionPublish:
		_, err := t.Service.Update(ctx, id, map[string]interface{}{"status": model.CoursePublished})
		return err
	case bulk.ActionUnpublish:
		_, err := t.Service.Update(ctx, id, map[string]interface{}{"status": model.CourseDraft})
		return err
	case bulk.ActionArchive:
		_, err := t.Service.Update(ctx, id, map[string]interface{}{"status": model.CourseArchived})
		return err
	case bulk.ActionFeature:
		_, err := t.Service.Update(ctx, id, map[string]interface{}{"is_featured": true})
		return err
	case bulk.ActionUnfeature:
		_, err := t.Service.Update(ctx, id, map[string]interface{}{"is_featured": false})
		return err
	case bulk.ActionDelete:
		return t.Service.Delete(ctx, id)
	case bulk.ActionDuplicate:
		_, err := t.Service.Duplicate(ctx, id)
		return err
	case bulk.ActionExport:
		course, err := t.Service.ByID(ctx, id)
		if err != nil {
			return err
		}
		t.Exported = append(t.Exported, *course)
		return nil
	default:
		return fmt.Errorf("%w: action %q not supported for courses", errs.ErrValidation, action)
	}
}

// CourseListAdapter teaches the listview engine to read courses.
func CourseListAdapter() listview.Adapter[model.Course] {
	return listview.Adapter[model.Course]{
		ID: func(c model.Course) uint { return c.ID },
		SearchText: func(c model.Course) []string {
			fields := []string{c.Title, c.Description}
			var topics []string
			if err := json.Unmarshal([]byte(c.Topics), &topics); err == nil {
				fields = append(fields, topics...)
			}
			return fields
		},
		FilterValue: func(c model.Course, field string) string {
			switch field {
			case "status":
				return c.Status
			case "level":
				return c.Level
			case "instructor_id":
				return fmt.Sprintf("%d", c.InstructorID)
			}
			return ""
		},
		SortValue: func(c model.Course, key string) listview.SortValue {
			switch key {
			case "title":
				return listview.StringValue(c.Title)
			case "price_naira":
				return listview.NumberValue(c.PriceNaira)
			case "duration_weeks":
				return listview.NumberValue(float64(c.DurationWeeks))
			case "rating":
				if c.Rating == 0 {
					return listview.NullValue()
				}
				return listview.NumberValue(c.Rating)
			case "enrollment_count":
				return listview.NumberValue(float64(c.EnrollmentCount))
			case "created_at":
				return listview.TimeValue(c.CreatedAt)
			case "updated_at":
				return listview.TimeValue(c.UpdatedAt)
			}
			return listview.NullValue()
		},
	}
}
