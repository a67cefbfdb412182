package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StudentCourseService is the interface that wraps methods for the published course catalogue
type StudentCourseService interface {
	// List returns the published courses matching the filter.
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, error)
	// Details returns a published course, or an apperr not found error.
	Details(ctx context.Context, id string) (*models.Course, error)
	// HasPurchased reports whether the student is enrolled in the course.
	HasPurchased(ctx context.Context, courseID, studentID string) (bool, error)
}

// StudentCourseHandler handles student course HTTP requests
type StudentCourseHandler struct {
	BaseHandler
	service StudentCourseService
}

// NewStudentCourseHandler creates a new student course handler
func NewStudentCourseHandler(svc StudentCourseService, logger *zap.Logger) *StudentCourseHandler {
	return &StudentCourseHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all student course routes
func (h *StudentCourseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/student/course", func(r chi.Router) {
		r.Get("/get", h.List)
		r.Get("/get/details/{id}", h.Details)
		r.Get("/purchase-info/{id}/{studentId}", h.PurchaseInfo)
	})
}

// List handles GET /student/course/get
// @Summary List published courses
// @Description List published courses filtered by comma-separated categories, levels and languages
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param category query string false "Comma-separated categories"
// @Param level query string false "Comma-separated levels"
// @Param primaryLanguage query string false "Comma-separated languages"
// @Param sortBy query string false "price-lowtohigh (default), price-hightolow, title-atoz or title-ztoa"
// @Success 200 {object} map[string]interface{} "success and the course summaries"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Some error occurred!"
// @Router /student/course/get [get]
func (h *StudentCourseHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.CourseFilter{
		Categories:       splitList(query.Get("category")),
		Levels:           splitList(query.Get("level")),
		PrimaryLanguages: splitList(query.Get("primaryLanguage")),
		SortBy:           models.ParseCourseSort(query.Get("sortBy")),
	}

	courses, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list courses", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Some error occurred!")
		return
	}
	if courses == nil {
		courses = []models.CourseSummary{}
	}

	h.RespondSuccess(w, http.StatusOK, courses)
}

// Details handles GET /student/course/get/details/{id}
// @Summary Get published course details
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{} "success and the course"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "No course details found"
// @Failure 500 {object} map[string]interface{} "Some error occurred!"
// @Router /student/course/get/details/{id} [get]
func (h *StudentCourseHandler) Details(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.RespondError(w, http.StatusNotFound, "No course details found")
			return
		}
		h.Logger.Error("failed to get course details", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Some error occurred!")
		return
	}

	h.RespondSuccess(w, http.StatusOK, course)
}

// PurchaseInfo handles GET /student/course/purchase-info/{id}/{studentId}
// @Summary Check a course purchase
// @Description Report whether the student bought the course. Students can only check themselves.
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} map[string]interface{} "success and a boolean"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Another student's purchases"
// @Failure 500 {object} map[string]interface{} "Some error occurred!"
// @Router /student/course/purchase-info/{id}/{studentId} [get]
func (h *StudentCourseHandler) PurchaseInfo(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.getIdentity(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "studentId")
	if studentID != identity.UserID {
		h.RespondError(w, http.StatusForbidden, "you can only check your own purchases")
		return
	}

	purchased, err := h.service.HasPurchased(r.Context(), chi.URLParam(r, "id"), studentID)
	if err != nil {
		h.Logger.Error("failed to check purchase", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Some error occurred!")
		return
	}

	h.RespondSuccess(w, http.StatusOK, purchased)
}

// splitList splits a comma-separated query value, dropping empty items
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
