package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"project/backend/models"

	"gorm.io/gorm"
)

// AllCoursesKey holds the serialized full listing.
const AllCoursesKey = "allCourses"

// CatalogCache serves catalog reads cache-aside: check the KV first, fall
// back to the store on a miss and populate the KV with the redacted
// result. The store stays the source of truth; cached entries are a
// disposable projection bounded by the TTL and purged on every
// engagement mutation.
type CatalogCache struct {
	DB  *gorm.DB
	KV  KV
	TTL time.Duration
	Log *log.Logger
}

func NewCatalogCache(db *gorm.DB, kv KV, ttl time.Duration, logger *log.Logger) *CatalogCache {
	return &CatalogCache{DB: db, KV: kv, TTL: ttl, Log: logger}
}

func courseKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// GetCourse returns the redacted course. A missing course is not an
// error: the nil result is cached and propagated unchanged, exactly as
// the store reported it.
func (cc *CatalogCache) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	key := courseKey(id)

	cached, hit, err := cc.KV.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if hit {
		var course *models.Course
		if err := json.Unmarshal([]byte(cached), &course); err != nil {
			return nil, err
		}
		return course, nil
	}

	var result *models.Course
	var course models.Course
	err = cc.DB.WithContext(ctx).
		Preload("Contents", orderByID).
		Preload("Reviews", orderByID).
		First(&course, id).Error
	switch {
	case err == nil:
		redacted := course.Redacted()
		result = &redacted
	case errors.Is(err, gorm.ErrRecordNotFound):
		// cached as "null" so repeated lookups of an unknown id
		// do not hammer the store
	default:
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if err := cc.KV.Set(ctx, key, string(payload), cc.TTL); err != nil {
		return nil, err
	}

	return result, nil
}

// GetAllCourses is the same cache-aside shape under the single
// well-known key.
func (cc *CatalogCache) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	cached, hit, err := cc.KV.Get(ctx, AllCoursesKey)
	if err != nil {
		return nil, err
	}
	if hit {
		var courses []models.Course
		if err := json.Unmarshal([]byte(cached), &courses); err != nil {
			return nil, err
		}
		return courses, nil
	}

	var courses []models.Course
	if err := cc.DB.WithContext(ctx).
		Preload("Contents", orderByID).
		Preload("Reviews", orderByID).
		Order("id").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	redacted := make([]models.Course, len(courses))
	for i, course := range courses {
		redacted[i] = course.Redacted()
	}

	payload, err := json.Marshal(redacted)
	if err != nil {
		return nil, err
	}
	if err := cc.KV.Set(ctx, AllCoursesKey, string(payload), cc.TTL); err != nil {
		return nil, err
	}

	return redacted, nil
}

// Invalidate drops a course's entry together with the full listing.
// Called after every engagement mutation so the catalog never serves a
// stale rating or Q&A count for longer than one in-flight read.
func (cc *CatalogCache) Invalidate(ctx context.Context, id uint) {
	if err := cc.KV.Del(ctx, courseKey(id), AllCoursesKey); err != nil {
		cc.Log.Printf("cache invalidate failed for course %d: %v", id, err)
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
