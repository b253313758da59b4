package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-process FeaturedCache for tests.
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return fmt.Errorf("cache miss: %s", key)
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func TestCourseCreateDerivesSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	course, err := svc.Create(ctx, CreateCourseRequest{
		Title:         "Intro to Prompt Engineering",
		Level:         model.LevelBeginner,
		DurationWeeks: 4,
		PriceNaira:    25000,
		Topics:        []string{"Prompting", " prompting ", "Evaluation"},
	})

	require.NoError(t, err)
	assert.Equal(t, "intro-to-prompt-engineering", course.Slug)
	assert.Equal(t, model.CourseDraft, course.Status)

	var topics []string
	require.NoError(t, json.Unmarshal(course.Topics, &topics))
	assert.Equal(t, []string{"Prompting", "Evaluation"}, topics, "topics are deduplicated case-insensitively, order preserved")
}

func TestCourseCreateSlugCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	req := CreateCourseRequest{Title: "Data Basics", Level: model.LevelBeginner, DurationWeeks: 2}

	first, err := svc.Create(ctx, req)
	require.NoError(t, err)
	second, err := svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "data-basics", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "data-basics-")
}

func TestCoursePublishedExcludesDrafts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateCourseRequest{Title: "Draft Course", Level: model.LevelBeginner, DurationWeeks: 1})
	require.NoError(t, err)
	published, err := svc.Create(ctx, CreateCourseRequest{Title: "Live Course", Level: model.LevelBeginner, DurationWeeks: 1})
	require.NoError(t, err)
	_, err = svc.Update(ctx, published.ID, map[string]interface{}{"status": model.CoursePublished})
	require.NoError(t, err)

	catalog, err := svc.Published(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, published.ID, catalog[0].ID)

	// The draft is still reachable by id for the admin surface.
	_, err = svc.ByID(ctx, draft.ID)
	assert.NoError(t, err)
}

func TestCourseBySlugOnlyPublished(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	course, err := svc.Create(ctx, CreateCourseRequest{Title: "Hidden Course", Level: model.LevelBeginner, DurationWeeks: 1})
	require.NoError(t, err)

	_, err = svc.BySlug(ctx, course.Slug)
	assert.ErrorIs(t, err, errs.ErrNotFound, "drafts are invisible on the public catalog")

	_, err = svc.Update(ctx, course.ID, map[string]interface{}{"status": model.CoursePublished})
	require.NoError(t, err)

	got, err := svc.BySlug(ctx, course.Slug)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)
}

func TestCourseUpdateValidatesEnums(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	course, err := svc.Create(ctx, CreateCourseRequest{Title: "Course", Level: model.LevelBeginner, DurationWeeks: 1})
	require.NoError(t, err)

	_, err = svc.Update(ctx, course.ID, map[string]interface{}{"status": "live"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.Update(ctx, course.ID, map[string]interface{}{"level": "expert"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCourseUpdateMissingCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)

	_, err := svc.Update(context.Background(), 999, map[string]interface{}{"title": "New"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCourseDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	course, err := svc.Create(ctx, CreateCourseRequest{Title: "Course", Level: model.LevelBeginner, DurationWeeks: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, course.ID))
	assert.ErrorIs(t, svc.Delete(ctx, course.ID), errs.ErrNotFound)
}

func TestCourseDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	source, err := svc.Create(ctx, CreateCourseRequest{
		Title:         "Applied AI",
		Level:         model.LevelAdvanced,
		DurationWeeks: 8,
		PriceNaira:    50000,
	})
	require.NoError(t, err)
	_, err = svc.Update(ctx, source.ID, map[string]interface{}{
		"status":      model.CoursePublished,
		"is_featured": true,
		"rating":      4.7,
	})
	require.NoError(t, err)

	copy, err := svc.Duplicate(ctx, source.ID)
	require.NoError(t, err)

	assert.Equal(t, "Applied AI (Copy)", copy.Title)
	assert.NotEqual(t, source.Slug, copy.Slug)
	assert.Equal(t, model.CourseDraft, copy.Status, "a duplicate always starts unpublished")
	assert.False(t, copy.IsFeatured)
	assert.Zero(t, copy.Rating)
	assert.Zero(t, copy.EnrollmentCount)
	assert.Equal(t, source.PriceNaira, copy.PriceNaira)
}

func TestCourseFeaturedOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	ratings := map[string]float64{"Low": 3.1, "High": 4.9, "Mid": 4.2}
	for title, rating := range ratings {
		course, err := svc.Create(ctx, CreateCourseRequest{Title: title, Level: model.LevelBeginner, DurationWeeks: 1})
		require.NoError(t, err)
		_, err = svc.Update(ctx, course.ID, map[string]interface{}{
			"status":      model.CoursePublished,
			"is_featured": true,
			"rating":      rating,
		})
		require.NoError(t, err)
	}

	featured, err := svc.Featured(ctx, 2)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, "High", featured[0].Title)
	assert.Equal(t, "Mid", featured[1].Title)

	_, err = svc.Featured(ctx, -1)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCourseBulkTargetLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	ctx := context.Background()

	course, err := svc.Create(ctx, CreateCourseRequest{Title: "Course", Level: model.LevelBeginner, DurationWeeks: 1})
	require.NoError(t, err)

	target := &CourseBulkTarget{Service: svc}

	require.NoError(t, target.Apply(ctx, "publish", course.ID))
	got, err := svc.ByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CoursePublished, got.Status)

	require.NoError(t, target.Apply(ctx, "archive", course.ID))
	got, err = svc.ByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseArchived, got.Status)
}

func TestCourseFeaturedCacheServesFullListAcrossLimits(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db, nil)
	svc.cache = newMemoryCache()
	ctx := context.Background()

	ratings := map[string]float64{"Low": 3.1, "High": 4.9, "Mid": 4.2}
	for title, rating := range ratings {
		course, err := svc.Create(ctx, CreateCourseRequest{Title: title, Level: model.LevelBeginner, DurationWeeks: 1})
		require.NoError(t, err)
		_, err = svc.Update(ctx, course.ID, map[string]interface{}{
			"status":      model.CoursePublished,
			"is_featured": true,
			"rating":      rating,
		})
		require.NoError(t, err)
	}

	// A small first request must not pin its truncated result for the
	// larger requests that follow it.
	one, err := svc.Featured(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "High", one[0].Title)

	all, err := svc.Featured(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
