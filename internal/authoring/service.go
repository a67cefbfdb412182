// Package authoring assembles course drafts into persisted courses and keeps the
// instructor's course directory.
package authoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/curriculum"
	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// CourseStore is the course persistence collaborator
type CourseStore interface {
	// Create stores a new course.
	//
	// Returns the stored course with its generated id.
	Create(ctx context.Context, req models.CourseRequest) (*models.Course, error)
	// Update replaces the course with the given id.
	//
	// Returns an error matching apperr.ErrNotFound if the course does not exist.
	Update(ctx context.Context, id string, req models.CourseRequest) (*models.Course, error)
	// Details returns the course with the given id.
	Details(ctx context.Context, id string) (*models.Course, error)
}

// Draft is a course being authored: landing metadata, curriculum and, when editing, the stored course id
type Draft struct {
	Landing    models.Landing
	Curriculum *curriculum.Editor
	EditedID   string
}

// IsEditing reports whether the draft replaces a stored course
func (d *Draft) IsEditing() bool {
	return d.EditedID != ""
}

// Service builds course drafts and submits them for the signed-in instructor
type Service struct {
	courses    CourseStore
	gateway    curriculum.MediaGateway
	instructor models.Identity
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates an authoring service acting for instructor
func NewService(courses CourseStore, gateway curriculum.MediaGateway, instructor models.Identity, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		courses:    courses,
		gateway:    gateway,
		instructor: instructor,
		logger:     logger,
		now:        time.Now,
	}
}

// NewDraft returns an empty draft with a single blank lecture
func (s *Service) NewDraft() *Draft {
	return &Draft{Curriculum: curriculum.NewEditor(s.gateway, s.logger)}
}

// Edit loads a stored course into a new draft
func (s *Service) Edit(ctx context.Context, id string) (*Draft, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("course id is required")
	}

	course, err := s.courses.Details(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load course %s: %w", id, err)
	}

	draft := s.NewDraft()
	draft.Landing = course.Landing
	draft.EditedID = course.ID
	if draft.EditedID == "" {
		draft.EditedID = id
	}
	if err := draft.Curriculum.Load(course.Curriculum); err != nil {
		return nil, fmt.Errorf("failed to load curriculum of course %s: %w", id, err)
	}

	return draft, nil
}

// Submit creates the course, or replaces it when the draft is editing one.
//
// Landing fields and the curriculum are checked before any call is made. On success the
// draft is reset to an empty new course.
func (s *Service) Submit(ctx context.Context, draft *Draft) (*models.Course, error) {
	if draft == nil || draft.Curriculum == nil {
		return nil, apperr.Validation("draft is required")
	}
	if draft.Curriculum.IsUploading() {
		return nil, curriculum.ErrUploadInProgress
	}
	if missing := draft.Landing.MissingFields(); len(missing) > 0 {
		return nil, apperr.Validation("course landing is incomplete: missing %s", strings.Join(missing, ", "))
	}
	if err := draft.Curriculum.Validate(); err != nil {
		return nil, err
	}

	req := s.buildRequest(draft)

	var (
		course *models.Course
		err    error
	)
	if draft.IsEditing() {
		course, err = s.courses.Update(ctx, draft.EditedID, req)
	} else {
		course, err = s.courses.Create(ctx, req)
	}
	if err != nil {
		s.logger.Warn("course submit failed",
			zap.String("course_id", draft.EditedID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to submit course: %w", err)
	}

	s.logger.Info("course submitted",
		zap.String("course_id", course.ID),
		zap.Bool("updated", draft.IsEditing()),
		zap.Int("lectures", len(req.Curriculum)),
	)

	draft.Landing = models.Landing{}
	draft.EditedID = ""
	if err := draft.Curriculum.Reset(); err != nil {
		s.logger.Warn("failed to reset draft curriculum", zap.Error(err))
	}

	return course, nil
}

func (s *Service) buildRequest(draft *Draft) models.CourseRequest {
	now := s.now()
	return models.CourseRequest{
		InstructorID:   s.instructor.UserID,
		InstructorName: s.instructor.UserName,
		Date:           &now,
		Landing:        draft.Landing,
		Students:       []models.CourseStudent{},
		Curriculum:     draft.Curriculum.Lectures(),
		IsPublished:    true,
	}
}
