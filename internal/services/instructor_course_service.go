package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/curriculum"
	"github.com/coursecraft/lms/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotCourseOwner is returned when an instructor manages a course created by someone else
var ErrNotCourseOwner = errors.New("you do not have rights to manage this course")

// InstructorCourseRepository defines methods for course data access for instructors
type InstructorCourseRepository interface {
	// Create stores a course with its curriculum and students
	//
	// "ctx" is the context for the request.
	// "course" is the course to create; its ID must be set.
	//
	// Returns an error if any.
	Create(ctx context.Context, course *models.Course) error
	// GetByID retrieves a course with its curriculum and students
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any. The error contains "not found" for unknown courses.
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// GetByInstructor retrieves summaries of the courses created by an instructor
	//
	// "ctx" is the context for the request.
	// "instructorID" is the ID of the instructor.
	//
	// Returns a list of course summaries and an error if any.
	GetByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error)
	// Update replaces the landing fields and the curriculum of a course
	//
	// "ctx" is the context for the request.
	// "course" is the course to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, course *models.Course) error
	// Delete deletes a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id string) error
}

// CourseCacheInvalidator drops stale course details
type CourseCacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...string) error
}

// MediaCleanupScheduler queues media assets for deletion
type MediaCleanupScheduler interface {
	EnqueueMediaCleanup(ctx context.Context, assetIDs []string, reason string) error
}

// InstructorCourseService handles course management for instructors
type InstructorCourseService struct {
	repo    InstructorCourseRepository
	cache   CourseCacheInvalidator
	cleanup MediaCleanupScheduler
	logger  *zap.Logger
	now     func() time.Time
}

// NewInstructorCourseService creates a new instructor course service
func NewInstructorCourseService(repo InstructorCourseRepository, cache CourseCacheInvalidator, cleanup MediaCleanupScheduler, logger *zap.Logger) *InstructorCourseService {
	return &InstructorCourseService{
		repo:    repo,
		cache:   cache,
		cleanup: cleanup,
		logger:  logger,
		now:     time.Now,
	}
}

// Create validates and stores a new course owned by instructor.
// A new course starts without enrollments; students in the request are ignored.
func (s *InstructorCourseService) Create(ctx context.Context, instructor models.Identity, req *models.CourseRequest) (*models.Course, error) {
	if err := validateCourseRequest(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:             uuid.NewString(),
		InstructorID:   instructor.UserID,
		InstructorName: strings.TrimSpace(req.InstructorName),
		Date:           s.now().UTC(),
		Landing:        req.Landing,
		Students:       []models.CourseStudent{},
		Curriculum:     req.Curriculum,
		IsPublished:    req.IsPublished,
	}
	if course.InstructorName == "" {
		course.InstructorName = instructor.UserName
	}
	if req.Date != nil {
		course.Date = req.Date.UTC()
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		zap.String("course_id", course.ID),
		zap.String("instructor_id", course.InstructorID),
		zap.Int("lectures", len(course.Curriculum)),
	)
	return course, nil
}

// Update replaces the landing metadata and curriculum of an owned course.
// Enrolled students and the creation date are kept. Assets of lectures that were removed
// or re-bound are queued for cleanup.
func (s *InstructorCourseService) Update(ctx context.Context, id string, instructor models.Identity, req *models.CourseRequest) (*models.Course, error) {
	existing, err := s.ownedCourse(ctx, id, instructor.UserID)
	if err != nil {
		return nil, err
	}

	if err := validateCourseRequest(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:             existing.ID,
		InstructorID:   existing.InstructorID,
		InstructorName: existing.InstructorName,
		Date:           existing.Date,
		Landing:        req.Landing,
		Students:       existing.Students,
		Curriculum:     req.Curriculum,
		IsPublished:    req.IsPublished,
	}
	if name := strings.TrimSpace(req.InstructorName); name != "" {
		course.InstructorName = name
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	s.scheduleCleanup(ctx, removedAssets(existing.Curriculum, course.Curriculum), "lecture video replaced or removed")

	s.logger.Info("course updated", zap.String("course_id", course.ID))
	return course, nil
}

// List returns the summaries of the instructor's courses
func (s *InstructorCourseService) List(ctx context.Context, instructorID string) ([]models.CourseSummary, error) {
	return s.repo.GetByInstructor(ctx, instructorID)
}

// Details returns a course owned by the instructor
func (s *InstructorCourseService) Details(ctx context.Context, id, instructorID string) (*models.Course, error) {
	return s.ownedCourse(ctx, id, instructorID)
}

// Delete deletes an owned course and queues its lecture assets for cleanup
func (s *InstructorCourseService) Delete(ctx context.Context, id, instructorID string) error {
	course, err := s.ownedCourse(ctx, id, instructorID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.scheduleCleanup(ctx, removedAssets(course.Curriculum, nil), "course deleted")

	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *InstructorCourseService) ownedCourse(ctx context.Context, id, instructorID string) (*models.Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}

// invalidate drops cached details; a failure only leaves details stale until the TTL expires
func (s *InstructorCourseService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate course cache", zap.String("course_id", id), zap.Error(err))
	}
}

// scheduleCleanup queues assets for deletion; assets it fails to queue are picked up by the orphan sweep
func (s *InstructorCourseService) scheduleCleanup(ctx context.Context, assetIDs []string, reason string) {
	if len(assetIDs) == 0 {
		return
	}
	if err := s.cleanup.EnqueueMediaCleanup(ctx, assetIDs, reason); err != nil {
		s.logger.Warn("failed to schedule media cleanup", zap.Strings("assets", assetIDs), zap.Error(err))
	}
}

// validateCourseRequest checks the landing fields and the curriculum of a create or update request
func validateCourseRequest(req *models.CourseRequest) error {
	if req == nil {
		return apperr.Validation("course is required")
	}
	if missing := req.Landing.MissingFields(); len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}

	list, err := curriculum.FromLectures(req.Curriculum)
	if err != nil {
		return fmt.Errorf("invalid curriculum: %w", err)
	}
	return list.Validate()
}

// removedAssets returns the asset ids bound in before that after no longer references
func removedAssets(before, after []models.Lecture) []string {
	kept := make(map[string]bool, len(after))
	for _, lecture := range after {
		kept[lecture.PublicID] = true
	}

	var removed []string
	for _, lecture := range before {
		if lecture.PublicID != "" && !kept[lecture.PublicID] {
			removed = append(removed, lecture.PublicID)
		}
	}
	return removed
}
