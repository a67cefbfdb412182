// Package courseclient calls the instructor and student course endpoints
package courseclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/coursecraft/lms/internal/apiclient"
	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
)

// Client is the course API client
type Client struct {
	api *apiclient.Client
}

// New creates a course client on top of the shared API transport
func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Create stores a new course
func (c *Client) Create(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	var course models.Course
	if err := c.api.JSON(ctx, "create course", http.MethodPost, "/instructor/course/add", req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Update replaces the landing and curriculum of course id
func (c *Client) Update(ctx context.Context, id string, req models.CourseRequest) (*models.Course, error) {
	path, err := coursePath("/instructor/course/update/", id)
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := c.api.JSON(ctx, "update course", http.MethodPut, path, req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns the summaries of the caller's courses
func (c *Client) List(ctx context.Context) ([]models.CourseSummary, error) {
	var courses []models.CourseSummary
	if err := c.api.JSON(ctx, "list courses", http.MethodGet, "/instructor/course/get", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Details returns one of the caller's courses
func (c *Client) Details(ctx context.Context, id string) (*models.Course, error) {
	path, err := coursePath("/instructor/course/get/details/", id)
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := c.api.JSON(ctx, "get course", http.MethodGet, path, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Delete removes course id
func (c *Client) Delete(ctx context.Context, id string) error {
	path, err := coursePath("/instructor/course/delete/", id)
	if err != nil {
		return err
	}
	return c.api.JSON(ctx, "delete course", http.MethodDelete, path, nil, nil)
}

// StudentCourses returns the published courses matching filter
func (c *Client) StudentCourses(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, error) {
	query := url.Values{}
	if len(filter.Categories) > 0 {
		query.Set("category", strings.Join(filter.Categories, ","))
	}
	if len(filter.Levels) > 0 {
		query.Set("level", strings.Join(filter.Levels, ","))
	}
	if len(filter.PrimaryLanguages) > 0 {
		query.Set("primaryLanguage", strings.Join(filter.PrimaryLanguages, ","))
	}
	if filter.SortBy != "" {
		query.Set("sortBy", string(filter.SortBy))
	}

	path := "/student/course/get"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var courses []models.CourseSummary
	if err := c.api.JSON(ctx, "list student courses", http.MethodGet, path, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// StudentCourseDetails returns a published course
func (c *Client) StudentCourseDetails(ctx context.Context, id string) (*models.Course, error) {
	path, err := coursePath("/student/course/get/details/", id)
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := c.api.JSON(ctx, "get student course", http.MethodGet, path, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// HasPurchased reports whether studentID bought course courseID
func (c *Client) HasPurchased(ctx context.Context, courseID, studentID string) (bool, error) {
	courseID = strings.TrimSpace(courseID)
	studentID = strings.TrimSpace(studentID)
	if courseID == "" || studentID == "" {
		return false, apperr.Validation("course id and student id are required")
	}

	var purchased bool
	path := "/student/course/purchase-info/" + url.PathEscape(courseID) + "/" + url.PathEscape(studentID)
	if err := c.api.JSON(ctx, "check purchase", http.MethodGet, path, nil, &purchased); err != nil {
		return false, err
	}
	return purchased, nil
}

func coursePath(prefix, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperr.Validation("course id is required")
	}
	return prefix + url.PathEscape(id), nil
}
