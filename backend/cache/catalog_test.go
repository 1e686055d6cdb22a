package cache

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"project/backend/models"
	"project/backend/utils"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCatalog(t *testing.T) (*CatalogCache, *gorm.DB, *MemoryKV) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := utils.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	kv := NewMemoryKV()
	return NewCatalogCache(db, kv, time.Minute, log.New(io.Discard, "", 0)), db, kv
}

func seedCourse(t *testing.T, db *gorm.DB) models.Course {
	t.Helper()
	course := models.Course{
		Name: "Intro to Go",
		Contents: []models.CourseContent{
			{Title: "Getting started", VideoURL: "https://cdn.example.com/videos/1.mp4", Suggestion: "Watch first"},
		},
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func TestGetCourseReadsThroughOnce(t *testing.T) {
	catalog, db, _ := newCatalog(t)
	seeded := seedCourse(t, db)
	ctx := context.Background()

	first, err := catalog.GetCourse(ctx, seeded.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Intro to Go", first.Name)

	// drop the row: only the cache can answer now
	assert.NoError(t, db.Unscoped().Delete(&models.Course{}, seeded.ID).Error)

	second, err := catalog.GetCourse(ctx, seeded.ID)
	assert.NoError(t, err)
	assert.NotNil(t, second)
	assert.Equal(t, "Intro to Go", second.Name)
}

func TestGetCourseRedactsBeforeCaching(t *testing.T) {
	catalog, db, kv := newCatalog(t)
	seeded := seedCourse(t, db)
	ctx := context.Background()

	course, err := catalog.GetCourse(ctx, seeded.ID)
	assert.NoError(t, err)
	assert.Empty(t, course.Contents[0].VideoURL)
	assert.Empty(t, course.Contents[0].Suggestion)
	assert.Nil(t, course.Contents[0].Questions)

	cached, hit, err := kv.Get(ctx, courseKey(seeded.ID))
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.NotContains(t, cached, "cdn.example.com")
}

func TestGetCourseMissingIsNotAnError(t *testing.T) {
	catalog, _, kv := newCatalog(t)
	ctx := context.Background()

	course, err := catalog.GetCourse(ctx, 4242)
	assert.NoError(t, err)
	assert.Nil(t, course)

	// the null result is cached too
	cached, hit, err := kv.Get(ctx, courseKey(4242))
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "null", cached)
}

func TestGetAllCoursesUsesWellKnownKey(t *testing.T) {
	catalog, db, kv := newCatalog(t)
	seedCourse(t, db)
	ctx := context.Background()

	courses, err := catalog.GetAllCourses(ctx)
	assert.NoError(t, err)
	assert.Len(t, courses, 1)

	_, hit, err := kv.Get(ctx, AllCoursesKey)
	assert.NoError(t, err)
	assert.True(t, hit)
}

func TestInvalidateDropsCourseAndListing(t *testing.T) {
	catalog, db, kv := newCatalog(t)
	seeded := seedCourse(t, db)
	ctx := context.Background()

	_, err := catalog.GetCourse(ctx, seeded.ID)
	assert.NoError(t, err)
	_, err = catalog.GetAllCourses(ctx)
	assert.NoError(t, err)

	catalog.Invalidate(ctx, seeded.ID)

	_, hit, _ := kv.Get(ctx, courseKey(seeded.ID))
	assert.False(t, hit)
	_, hit, _ = kv.Get(ctx, AllCoursesKey)
	assert.False(t, hit)
}

func TestMemoryKVTTL(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	assert.NoError(t, kv.Set(ctx, "k", "v", 10*time.Millisecond))
	_, hit, _ := kv.Get(ctx, "k")
	assert.True(t, hit)

	time.Sleep(20 * time.Millisecond)
	_, hit, _ = kv.Get(ctx, "k")
	assert.False(t, hit)
}
