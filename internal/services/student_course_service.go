package services

import (
	"context"
	"strings"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// StudentCourseRepository defines methods for course data access for students
type StudentCourseRepository interface {
	// GetByID retrieves a course with its curriculum and students
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// GetPublished retrieves summaries of published courses matching the filter
	GetPublished(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, error)
	// HasPurchased reports whether the student is enrolled in the course
	HasPurchased(ctx context.Context, courseID, studentID string) (bool, error)
}

// CourseDetailsCache is a read-through cache of course details
type CourseDetailsCache interface {
	// Get returns nil without an error on a miss
	Get(ctx context.Context, id string) (*models.Course, error)
	Set(ctx context.Context, course *models.Course) error
}

// StudentCourseService handles the published course catalogue
type StudentCourseService struct {
	repo   StudentCourseRepository
	cache  CourseDetailsCache
	logger *zap.Logger
}

// NewStudentCourseService creates a new student course service
func NewStudentCourseService(repo StudentCourseRepository, cache CourseDetailsCache, logger *zap.Logger) *StudentCourseService {
	return &StudentCourseService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// List returns the published courses matching the filter
func (s *StudentCourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, error) {
	return s.repo.GetPublished(ctx, filter)
}

// Details returns a published course. Unpublished and unknown courses are not found.
func (s *StudentCourseService) Details(ctx context.Context, id string) (*models.Course, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("failed to read course cache", zap.String("course_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, apperr.NotFound("No course details found")
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, apperr.NotFound("No course details found")
	}

	if err := s.cache.Set(ctx, course); err != nil {
		s.logger.Warn("failed to cache course", zap.String("course_id", id), zap.Error(err))
	}
	return course, nil
}

// HasPurchased reports whether the student is enrolled in the course
func (s *StudentCourseService) HasPurchased(ctx context.Context, courseID, studentID string) (bool, error) {
	return s.repo.HasPurchased(ctx, courseID, studentID)
}
