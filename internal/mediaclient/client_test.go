package mediaclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/coursecraft/lms/internal/apiclient"
	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)

	api, err := apiclient.New(apiclient.Options{BaseURL: server.URL + "/api/v1", Token: "instructor-token"})
	require.NoError(t, err)

	return New(api), server.Close
}

type progressRecorder struct {
	mu     sync.Mutex
	values []float64
}

func (p *progressRecorder) record(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = append(p.values, v)
}

func (p *progressRecorder) assertMonotonicToOne(t *testing.T) {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	require.NotEmpty(t, p.values)
	for i := 1; i < len(p.values); i++ {
		assert.GreaterOrEqual(t, p.values[i], p.values[i-1])
	}
	assert.Equal(t, 1.0, p.values[len(p.values)-1])
}

func mediaFile(name, content string) models.MediaFile {
	return models.MediaFile{Name: name, Content: strings.NewReader(content)}
}

func TestClient_UploadOne(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/media/upload", r.URL.Path)
			assert.Equal(t, "Bearer instructor-token", r.Header.Get("Authorization"))

			file, header, err := r.FormFile("file")
			if assert.NoError(t, err) {
				defer file.Close()
				data, _ := io.ReadAll(file)
				assert.Equal(t, "intro.mp4", header.Filename)
				assert.Equal(t, "video/mp4", header.Header.Get("Content-Type"))
				assert.Equal(t, "video-bytes", string(data))
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"success":true,"data":{"url":"http://media/files/a1","public_id":"a1"}}`)
		})
		defer cleanup()

		var progress progressRecorder
		asset, err := client.UploadOne(context.Background(), mediaFile("/tmp/videos/intro.mp4", "video-bytes"), progress.record)

		require.NoError(t, err)
		assert.Equal(t, "a1", asset.PublicID)
		assert.Equal(t, "http://media/files/a1", asset.URL)
		progress.assertMonotonicToOne(t)
	})

	t.Run("server rejects upload", func(t *testing.T) {
		client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"success":false,"message":"Error uploading file"}`)
		})
		defer cleanup()

		asset, err := client.UploadOne(context.Background(), mediaFile("intro.mp4", "video-bytes"), nil)

		assert.Nil(t, asset)
		assert.True(t, apperr.IsRemoteFailure(err))
		assert.Contains(t, err.Error(), "Error uploading file")
	})

	t.Run("response without asset id", func(t *testing.T) {
		client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"url":"http://media/files/a1"}}`)
		})
		defer cleanup()

		_, err := client.UploadOne(context.Background(), mediaFile("intro.mp4", "video-bytes"), nil)

		assert.True(t, apperr.IsRemoteFailure(err))
	})

	t.Run("file without content", func(t *testing.T) {
		client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		defer cleanup()

		_, err := client.UploadOne(context.Background(), models.MediaFile{Name: "empty.mp4"}, nil)

		assert.True(t, apperr.IsValidation(err))
	})
}

func TestBuildMultipart_PartContentTypes(t *testing.T) {
	body, contentType, err := buildMultipart("files", []models.MediaFile{
		mediaFile("lecture.mp4", "v"),
		mediaFile("cover.PNG", "i"),
		mediaFile(`odd "name".mov`, "q"),
		mediaFile("notes", "n"),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files := req.MultipartForm.File["files"]
	require.Len(t, files, 4)
	assert.Equal(t, "video/mp4", files[0].Header.Get("Content-Type"))
	assert.Equal(t, "image/png", files[1].Header.Get("Content-Type"))
	assert.Equal(t, `odd "name".mov`, files[2].Filename)
	assert.Equal(t, "video/quicktime", files[2].Header.Get("Content-Type"))
	assert.Equal(t, "application/octet-stream", files[3].Header.Get("Content-Type"))
}

func TestClient_UploadMany(t *testing.T) {
	t.Run("success keeps request order", func(t *testing.T) {
		client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/media/bulk-upload", r.URL.Path)
			if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
				files := r.MultipartForm.File["files"]
				if assert.Len(t, files, 3) {
					assert.Equal(t, "1.mp4", files[0].Filename)
					assert.Equal(t, "3.mp4", files[2].Filename)
				}
			}
			fmt.Fprint(w, `{"success":true,"data":[`+
				`{"url":"http://media/files/a1","public_id":"a1"},`+
				`{"url":"http://media/files/a2","public_id":"a2"},`+
				`{"url":"http://media/files/a3","public_id":"a3"}]}`)
		})
		defer cleanup()

		var progress progressRecorder
		files := []models.MediaFile{mediaFile("1.mp4", "one"), mediaFile("2.mp4", "two"), mediaFile("3.mp4", "three")}
		assets, err := client.UploadMany(context.Background(), files, progress.record)

		require.NoError(t, err)
		require.Len(t, assets, 3)
		assert.Equal(t, "a1", assets[0].PublicID)
		assert.Equal(t, "a3", assets[2].PublicID)
		progress.assertMonotonicToOne(t)
	})

	t.Run("file count is validated before any request", func(t *testing.T) {
		client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		defer cleanup()

		files := make([]models.MediaFile, models.MaxBulkUploadFiles+1)
		for i := range files {
			files[i] = mediaFile(fmt.Sprintf("%d.mp4", i), "x")
		}

		_, err := client.UploadMany(context.Background(), files, nil)
		assert.True(t, apperr.IsValidation(err))

		_, err = client.UploadMany(context.Background(), nil, nil)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("bad request", func(t *testing.T) {
		client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"success":false,"message":"No files uploaded"}`)
		})
		defer cleanup()

		_, err := client.UploadMany(context.Background(), []models.MediaFile{mediaFile("1.mp4", "one")}, nil)

		var remote *apperr.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusBadRequest, remote.StatusCode)
		assert.Equal(t, "No files uploaded", remote.Message)
	})
}

func TestClient_DeleteAsset(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedError bool
		notFound      bool
	}{
		{
			name:   "deleted",
			status: http.StatusOK,
			body:   `{"success":true,"message":"Asset deleted successfully"}`,
		},
		{
			name:          "unknown asset",
			status:        http.StatusNotFound,
			body:          `{"success":false,"message":"Asset not found"}`,
			expectedError: true,
			notFound:      true,
		},
		{
			name:          "route not found",
			status:        http.StatusNotFound,
			body:          "404 page not found",
			expectedError: true,
		},
		{
			name:          "server error",
			status:        http.StatusInternalServerError,
			body:          `{"success":false,"message":"Error deleting asset"}`,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, cleanup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/api/v1/media/delete/a1", r.URL.Path)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			defer cleanup()

			err := client.DeleteAsset(context.Background(), "a1")

			if tt.expectedError {
				assert.True(t, apperr.IsRemoteFailure(err))
				assert.Equal(t, tt.notFound, apperr.IsNotFound(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProgressReader(t *testing.T) {
	var progress progressRecorder
	reader := newProgressReader([]byte("0123456789"), progress.record)

	buf := make([]byte, 4)
	for {
		_, err := reader.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	reader.finish()

	assert.Equal(t, []float64{0.4, 0.8, 1}, progress.values)
}
