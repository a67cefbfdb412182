package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/curriculum"
	"github.com/coursecraft/lms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockInstructorCourseRepository is a mock implementation of InstructorCourseRepository
type mockInstructorCourseRepository struct {
	course    *models.Course
	summaries []models.CourseSummary
	created   *models.Course
	updated   *models.Course
	deletedID string
	err       error
	createErr error
	updateErr error
	deleteErr error
}

func (m *mockInstructorCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = course
	return nil
}

func (m *mockInstructorCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.course, nil
}

func (m *mockInstructorCourseRepository) GetByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summaries, nil
}

func (m *mockInstructorCourseRepository) Update(ctx context.Context, course *models.Course) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = course
	return nil
}

func (m *mockInstructorCourseRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

// mockInvalidator is a mock implementation of CourseCacheInvalidator
type mockInvalidator struct {
	ids []string
	err error
}

func (m *mockInvalidator) Invalidate(ctx context.Context, ids ...string) error {
	m.ids = append(m.ids, ids...)
	return m.err
}

// mockCleanupScheduler is a mock implementation of MediaCleanupScheduler
type mockCleanupScheduler struct {
	ids    []string
	reason string
	err    error
}

func (m *mockCleanupScheduler) EnqueueMediaCleanup(ctx context.Context, assetIDs []string, reason string) error {
	if m.err != nil {
		return m.err
	}
	m.ids = append(m.ids, assetIDs...)
	m.reason = reason
	return nil
}

var instructor = models.Identity{UserID: "inst-1", UserName: "Ada", Role: models.RoleInstructor}

func validLanding() models.Landing {
	return models.Landing{
		Title:           "Go in Practice",
		Category:        "development",
		Level:           "beginner",
		PrimaryLanguage: "english",
		Subtitle:        "Build services",
		Description:     "A course about Go",
		Image:           "http://media/cover.png",
		WelcomeMessage:  "Welcome",
		Pricing:         49,
		Objectives:      "Write Go",
	}
}

func lecture(title, assetID string, preview bool) models.Lecture {
	return models.Lecture{Title: title, VideoURL: "http://media/" + assetID, PublicID: assetID, FreePreview: preview}
}

func validRequest() *models.CourseRequest {
	return &models.CourseRequest{
		Landing:     validLanding(),
		Curriculum:  []models.Lecture{lecture("Intro", "a1", true), lecture("Types", "a2", false)},
		IsPublished: true,
	}
}

func newInstructorService(repo *mockInstructorCourseRepository, cache *mockInvalidator, cleanup *mockCleanupScheduler) *InstructorCourseService {
	svc := NewInstructorCourseService(repo, cache, cleanup, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestInstructorCourseService_Create(t *testing.T) {
	tests := []struct {
		name             string
		req              func() *models.CourseRequest
		repo             *mockInstructorCourseRepository
		expectedError    bool
		expectValidation bool
		expectedErrMsg   string
	}{
		{
			name: "success",
			req:  validRequest,
			repo: &mockInstructorCourseRepository{},
		},
		{
			name:             "nil request",
			req:              func() *models.CourseRequest { return nil },
			repo:             &mockInstructorCourseRepository{},
			expectedError:    true,
			expectValidation: true,
		},
		{
			name: "missing landing fields",
			req: func() *models.CourseRequest {
				req := validRequest()
				req.Title = " "
				req.Pricing = 0
				return req
			},
			repo:             &mockInstructorCourseRepository{},
			expectedError:    true,
			expectValidation: true,
			expectedErrMsg:   "missing required fields: title, pricing",
		},
		{
			name: "lecture without video",
			req: func() *models.CourseRequest {
				req := validRequest()
				req.Curriculum = append(req.Curriculum, models.Lecture{Title: "Draft"})
				return req
			},
			repo:             &mockInstructorCourseRepository{},
			expectedError:    true,
			expectValidation: true,
			expectedErrMsg:   "lecture 3: video is required",
		},
		{
			name: "no free preview",
			req: func() *models.CourseRequest {
				req := validRequest()
				req.Curriculum[0].FreePreview = false
				return req
			},
			repo:             &mockInstructorCourseRepository{},
			expectedError:    true,
			expectValidation: true,
		},
		{
			name: "half bound video",
			req: func() *models.CourseRequest {
				req := validRequest()
				req.Curriculum[1].PublicID = ""
				return req
			},
			repo:             &mockInstructorCourseRepository{},
			expectedError:    true,
			expectValidation: true,
		},
		{
			name:          "repository error",
			req:           validRequest,
			repo:          &mockInstructorCourseRepository{createErr: errors.New("database error")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newInstructorService(tt.repo, &mockInvalidator{}, &mockCleanupScheduler{})

			course, err := svc.Create(context.Background(), instructor, tt.req())

			if tt.expectedError {
				require.Error(t, err)
				assert.Nil(t, course)
				assert.Equal(t, tt.expectValidation, apperr.IsValidation(err))
				if tt.expectedErrMsg != "" {
					assert.Contains(t, err.Error(), tt.expectedErrMsg)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, course)
			assert.NotEmpty(t, course.ID)
			assert.Equal(t, "inst-1", course.InstructorID)
			assert.Equal(t, "Ada", course.InstructorName)
			assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), course.Date)
			assert.NotNil(t, course.Students)
			assert.Equal(t, course, tt.repo.created)
		})
	}
}

func TestInstructorCourseService_Create_UsesRequestDateAndName(t *testing.T) {
	repo := &mockInstructorCourseRepository{}
	svc := newInstructorService(repo, &mockInvalidator{}, &mockCleanupScheduler{})
	date := time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC)
	req := validRequest()
	req.Date = &date
	req.InstructorName = "Ada Lovelace"
	req.InstructorID = "someone-else"

	course, err := svc.Create(context.Background(), instructor, req)

	require.NoError(t, err)
	assert.Equal(t, date, course.Date)
	assert.Equal(t, "Ada Lovelace", course.InstructorName)
	assert.Equal(t, "inst-1", course.InstructorID)
}

func TestInstructorCourseService_Create_IgnoresRequestStudents(t *testing.T) {
	repo := &mockInstructorCourseRepository{}
	svc := newInstructorService(repo, &mockInvalidator{}, &mockCleanupScheduler{})
	req := validRequest()
	req.Students = []models.CourseStudent{{StudentID: "s1", StudentName: "Alan", PaidAmount: 0}}

	course, err := svc.Create(context.Background(), instructor, req)

	require.NoError(t, err)
	assert.Empty(t, course.Students)
	assert.NotNil(t, course.Students)
	require.NotNil(t, repo.created)
	assert.Empty(t, repo.created.Students)
}

func storedCourse() *models.Course {
	return &models.Course{
		ID:             "c1",
		InstructorID:   "inst-1",
		InstructorName: "Ada",
		Date:           time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Landing:        validLanding(),
		Students:       []models.CourseStudent{{StudentID: "s1", PaidAmount: 49}},
		Curriculum:     []models.Lecture{lecture("Intro", "a1", true), lecture("Old", "a0", false)},
		IsPublished:    true,
	}
}

func TestInstructorCourseService_Update(t *testing.T) {
	tests := []struct {
		name           string
		repo           *mockInstructorCourseRepository
		cache          *mockInvalidator
		cleanup        *mockCleanupScheduler
		identity       models.Identity
		expectedError  error
		expectedErrMsg string
		expectCleanup  []string
	}{
		{
			name:          "success",
			repo:          &mockInstructorCourseRepository{course: storedCourse()},
			cache:         &mockInvalidator{},
			cleanup:       &mockCleanupScheduler{},
			identity:      instructor,
			expectCleanup: []string{"a0"},
		},
		{
			name:     "cache and queue failures do not fail the update",
			repo:     &mockInstructorCourseRepository{course: storedCourse()},
			cache:    &mockInvalidator{err: errors.New("redis down")},
			cleanup:  &mockCleanupScheduler{err: errors.New("redis down")},
			identity: instructor,
		},
		{
			name:           "course not found",
			repo:           &mockInstructorCourseRepository{err: errors.New("course not found")},
			cache:          &mockInvalidator{},
			cleanup:        &mockCleanupScheduler{},
			identity:       instructor,
			expectedErrMsg: "not found",
		},
		{
			name:          "not the owner",
			repo:          &mockInstructorCourseRepository{course: storedCourse()},
			cache:         &mockInvalidator{},
			cleanup:       &mockCleanupScheduler{},
			identity:      models.Identity{UserID: "inst-2", Role: models.RoleInstructor},
			expectedError: ErrNotCourseOwner,
		},
		{
			name:           "repository error",
			repo:           &mockInstructorCourseRepository{course: storedCourse(), updateErr: errors.New("database error")},
			cache:          &mockInvalidator{},
			cleanup:        &mockCleanupScheduler{},
			identity:       instructor,
			expectedErrMsg: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newInstructorService(tt.repo, tt.cache, tt.cleanup)

			course, err := svc.Update(context.Background(), "c1", tt.identity, validRequest())

			if tt.expectedError != nil || tt.expectedErrMsg != "" {
				require.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				assert.Contains(t, err.Error(), tt.expectedErrMsg)
				assert.Nil(t, tt.repo.updated)
				assert.Empty(t, tt.cache.ids)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "c1", course.ID)
			assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), course.Date)
			assert.Equal(t, []models.CourseStudent{{StudentID: "s1", PaidAmount: 49}}, course.Students)
			assert.Equal(t, validRequest().Curriculum, course.Curriculum)
			assert.Equal(t, course, tt.repo.updated)
			assert.Equal(t, []string{"c1"}, tt.cache.ids)
			assert.Equal(t, tt.expectCleanup, tt.cleanup.ids)
		})
	}
}

func TestInstructorCourseService_Update_InvalidCurriculum(t *testing.T) {
	repo := &mockInstructorCourseRepository{course: storedCourse()}
	svc := newInstructorService(repo, &mockInvalidator{}, &mockCleanupScheduler{})
	req := validRequest()
	req.Curriculum = append(req.Curriculum, lecture("Copy", "a1", false))

	_, err := svc.Update(context.Background(), "c1", instructor, req)

	assert.ErrorIs(t, err, curriculum.ErrDuplicateIdentity)
	assert.True(t, apperr.IsValidation(err))
	assert.Nil(t, repo.updated)
}

func TestInstructorCourseService_ListAndDetails(t *testing.T) {
	summaries := []models.CourseSummary{{ID: "c1", Title: "Go", Pricing: 10, StudentCount: 3}}
	repo := &mockInstructorCourseRepository{course: storedCourse(), summaries: summaries}
	svc := newInstructorService(repo, &mockInvalidator{}, &mockCleanupScheduler{})

	list, err := svc.List(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.Equal(t, summaries, list)

	course, err := svc.Details(context.Background(), "c1", "inst-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", course.ID)

	_, err = svc.Details(context.Background(), "c1", "inst-2")
	assert.ErrorIs(t, err, ErrNotCourseOwner)
}

func TestInstructorCourseService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		repo          *mockInstructorCourseRepository
		instructorID  string
		expectedError bool
	}{
		{
			name:         "success",
			repo:         &mockInstructorCourseRepository{course: storedCourse()},
			instructorID: "inst-1",
		},
		{
			name:          "not found",
			repo:          &mockInstructorCourseRepository{err: errors.New("course not found")},
			instructorID:  "inst-1",
			expectedError: true,
		},
		{
			name:          "not the owner",
			repo:          &mockInstructorCourseRepository{course: storedCourse()},
			instructorID:  "inst-2",
			expectedError: true,
		},
		{
			name:          "repository error",
			repo:          &mockInstructorCourseRepository{course: storedCourse(), deleteErr: errors.New("database error")},
			instructorID:  "inst-1",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &mockInvalidator{}
			cleanup := &mockCleanupScheduler{}
			svc := newInstructorService(tt.repo, cache, cleanup)

			err := svc.Delete(context.Background(), "c1", tt.instructorID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Empty(t, cleanup.ids)
				assert.Empty(t, cache.ids)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "c1", tt.repo.deletedID)
			assert.Equal(t, []string{"c1"}, cache.ids)
			assert.Equal(t, []string{"a1", "a0"}, cleanup.ids)
			assert.Equal(t, "course deleted", cleanup.reason)
		})
	}
}

func TestRemovedAssets(t *testing.T) {
	before := []models.Lecture{lecture("A", "a1", true), lecture("B", "a2", false), {Title: "C"}}
	after := []models.Lecture{lecture("A", "a1", true), lecture("B", "a3", false)}

	assert.Equal(t, []string{"a2"}, removedAssets(before, after))
	assert.Equal(t, []string{"a1", "a2"}, removedAssets(before, nil))
	assert.Nil(t, removedAssets(nil, after))
}
