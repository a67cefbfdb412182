// Package cache keeps published course details in Redis
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-redis/redis/v8"
)

const courseKeyPrefix = "lms:course:"

// CourseCache is a read-through cache for course details
type CourseCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCourseCache creates a course cache; entries expire after ttl
func NewCourseCache(rdb redis.Cmdable, ttl time.Duration) *CourseCache {
	return &CourseCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func courseKey(id string) string {
	return courseKeyPrefix + id
}

// Get returns the cached course, or nil without an error on a miss
func (c *CourseCache) Get(ctx context.Context, id string) (*models.Course, error) {
	data, err := c.rdb.Get(ctx, courseKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached course: %w", err)
	}

	var course models.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("failed to decode cached course: %w", err)
	}
	return &course, nil
}

// Set stores a course
func (c *CourseCache) Set(ctx context.Context, course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to encode course: %w", err)
	}
	if err := c.rdb.Set(ctx, courseKey(course.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache course: %w", err)
	}
	return nil
}

// Invalidate removes courses from the cache
func (c *CourseCache) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = courseKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached courses: %w", err)
	}
	return nil
}
