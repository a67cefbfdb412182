package courseclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursecraft/lms/internal/apiclient"
	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := apiclient.New(apiclient.Options{BaseURL: server.URL + "/api/v1", Token: "token"})
	require.NoError(t, err)
	return New(api)
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	raw, err := json.Marshal(data)
	assert.NoError(t, err)
	assert.NoError(t, json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: raw}))
}

func TestClient_Create(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/instructor/course/add", r.URL.Path)

		var req models.CourseRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Go Basics", req.Title)
		assert.True(t, req.IsPublished)
		assert.NotNil(t, req.Students)

		writeData(t, w, models.Course{ID: "c1", Landing: req.Landing, Curriculum: req.Curriculum})
	})

	req := models.CourseRequest{
		InstructorID: "i1",
		Landing:      models.Landing{Title: "Go Basics"},
		Students:     []models.CourseStudent{},
		Curriculum:   []models.Lecture{{Title: "Intro", VideoURL: "http://media/a1", PublicID: "a1", FreePreview: true}},
		IsPublished:  true,
	}
	course, err := client.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "c1", course.ID)
	assert.Equal(t, req.Curriculum, course.Curriculum)
}

func TestClient_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/v1/instructor/course/update/c1", r.URL.Path)
			writeData(t, w, models.Course{ID: "c1"})
		})

		course, err := client.Update(context.Background(), "c1", models.CourseRequest{})

		require.NoError(t, err)
		assert.Equal(t, "c1", course.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := client.Update(context.Background(), " ", models.CourseRequest{})

		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("not found", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"success":false,"message":"Course not found!"}`)
		})

		_, err := client.Update(context.Background(), "missing", models.CourseRequest{})

		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestClient_ListAndDetails(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/instructor/course/get":
			writeData(t, w, []models.CourseSummary{{ID: "c1", Title: "Go", Pricing: 10, StudentCount: 3}})
		case "/api/v1/instructor/course/get/details/c1":
			writeData(t, w, models.Course{ID: "c1", Landing: models.Landing{Title: "Go"}})
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"success":false,"message":"Course not found!"}`)
		}
	})

	courses, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 30.0, courses[0].Revenue())

	course, err := client.Details(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Go", course.Title)

	_, err = client.Details(context.Background(), "c2")
	assert.True(t, apperr.IsNotFound(err))
}

func TestClient_Delete(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/instructor/course/delete/c1", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"message":"Course deleted successfully"}`)
	})

	assert.NoError(t, client.Delete(context.Background(), "c1"))
}

func TestClient_StudentCourses(t *testing.T) {
	tests := []struct {
		name          string
		filter        models.CourseFilter
		expectedQuery string
	}{
		{
			name:          "no filter",
			filter:        models.CourseFilter{},
			expectedQuery: "",
		},
		{
			name: "all filters",
			filter: models.CourseFilter{
				Categories:       []string{"web", "data"},
				Levels:           []string{"beginner"},
				PrimaryLanguages: []string{"english"},
				SortBy:           models.SortTitleAToZ,
			},
			expectedQuery: "category=web%2Cdata&level=beginner&primaryLanguage=english&sortBy=title-atoz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/student/course/get", r.URL.Path)
				assert.Equal(t, tt.expectedQuery, r.URL.RawQuery)
				writeData(t, w, []models.CourseSummary{{ID: "c1"}})
			})

			courses, err := client.StudentCourses(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Len(t, courses, 1)
		})
	}
}

func TestClient_StudentCourseDetails(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success":false,"message":"No course details found"}`)
	})

	_, err := client.StudentCourseDetails(context.Background(), "c1")

	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "No course details found")
}

func TestClient_HasPurchased(t *testing.T) {
	for _, purchased := range []bool{true, false} {
		t.Run(fmt.Sprintf("purchased=%v", purchased), func(t *testing.T) {
			client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/student/course/purchase-info/c1/s1", r.URL.Path)
				writeData(t, w, purchased)
			})

			got, err := client.HasPurchased(context.Background(), "c1", "s1")

			require.NoError(t, err)
			assert.Equal(t, purchased, got)
		})
	}

	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := client.HasPurchased(context.Background(), "c1", "")
	assert.True(t, apperr.IsValidation(err))
}
