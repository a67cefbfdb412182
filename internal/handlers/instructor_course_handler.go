package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InstructorCourseService is the interface that wraps methods for instructor course management
type InstructorCourseService interface {
	// Create validates and stores a new course owned by instructor.
	Create(ctx context.Context, instructor models.Identity, req *models.CourseRequest) (*models.Course, error)
	// Update replaces the landing metadata and curriculum of a course owned by instructor.
	Update(ctx context.Context, id string, instructor models.Identity, req *models.CourseRequest) (*models.Course, error)
	// List returns the summaries of the instructor's courses.
	List(ctx context.Context, instructorID string) ([]models.CourseSummary, error)
	// Details returns a course owned by the instructor.
	Details(ctx context.Context, id, instructorID string) (*models.Course, error)
	// Delete deletes a course owned by the instructor.
	Delete(ctx context.Context, id, instructorID string) error
}

// InstructorCourseHandler handles instructor course HTTP requests
type InstructorCourseHandler struct {
	BaseHandler
	service InstructorCourseService
}

// NewInstructorCourseHandler creates a new instructor course handler
func NewInstructorCourseHandler(svc InstructorCourseService, logger *zap.Logger) *InstructorCourseHandler {
	return &InstructorCourseHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all instructor course routes
func (h *InstructorCourseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/instructor/course", func(r chi.Router) {
		r.Post("/add", h.Create)
		r.Get("/get", h.List)
		r.Get("/get/details/{id}", h.Details)
		r.Put("/update/{id}", h.Update)
		r.Delete("/delete/{id}", h.Delete)
	})
}

// Create handles POST /instructor/course/add
// @Summary Create a course
// @Description Create a course owned by the authenticated instructor. Every landing field is required, every lecture needs a title and a video, and at least one lecture must be a free preview.
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CourseRequest true "Course"
// @Success 201 {object} map[string]interface{} "success and the created course"
// @Failure 400 {object} map[string]interface{} "Invalid course"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /instructor/course/add [post]
func (h *InstructorCourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.getIdentity(w, r)
	if !ok {
		return
	}

	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.service.Create(r.Context(), identity, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create course")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, course)
}

// List handles GET /instructor/course/get
// @Summary List own courses
// @Description List the authenticated instructor's courses with students count
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "success and the course summaries"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /instructor/course/get [get]
func (h *InstructorCourseHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.getIdentity(w, r)
	if !ok {
		return
	}

	courses, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get courses")
		return
	}
	if courses == nil {
		courses = []models.CourseSummary{}
	}

	h.RespondSuccess(w, http.StatusOK, courses)
}

// Details handles GET /instructor/course/get/details/{id}
// @Summary Get own course details
// @Description Get a course owned by the authenticated instructor
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{} "success and the course"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Not the course owner"
// @Failure 404 {object} map[string]interface{} "Course not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /instructor/course/get/details/{id} [get]
func (h *InstructorCourseHandler) Details(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.getIdentity(w, r)
	if !ok {
		return
	}

	course, err := h.service.Details(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get course")
		return
	}

	h.RespondSuccess(w, http.StatusOK, course)
}

// Update handles PUT /instructor/course/update/{id}
// @Summary Update a course
// @Description Replace the landing metadata and curriculum of an owned course. Enrolled students are kept.
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body models.CourseRequest true "Course"
// @Success 200 {object} map[string]interface{} "success and the updated course"
// @Failure 400 {object} map[string]interface{} "Invalid course"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Not the course owner"
// @Failure 404 {object} map[string]interface{} "Course not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /instructor/course/update/{id} [put]
func (h *InstructorCourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.getIdentity(w, r)
	if !ok {
		return
	}

	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), identity, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update course")
		return
	}

	h.RespondSuccess(w, http.StatusOK, course)
}

// Delete handles DELETE /instructor/course/delete/{id}
// @Summary Delete a course
// @Description Delete an owned course; its lecture videos are queued for removal
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{} "Course deleted successfully"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Not the course owner"
// @Failure 404 {object} map[string]interface{} "Course not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /instructor/course/delete/{id} [delete]
func (h *InstructorCourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.getIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		h.RespondServiceError(w, err, "failed to delete course")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Course deleted successfully")
}
