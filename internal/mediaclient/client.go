// Package mediaclient uploads and deletes lecture videos on the media service
package mediaclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/coursecraft/lms/internal/apiclient"
	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/internal/storage"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client implements the curriculum media gateway over the media HTTP endpoints
type Client struct {
	api *apiclient.Client
}

// New creates a media client on top of the shared API transport
func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// UploadOne uploads a single file as multipart field "file"
func (c *Client) UploadOne(ctx context.Context, file models.MediaFile, progress models.ProgressFunc) (*models.MediaAsset, error) {
	body, contentType, err := buildMultipart("file", []models.MediaFile{file})
	if err != nil {
		return nil, apperr.Validation("upload %s: %v", file.Name, err)
	}

	var asset models.MediaAsset
	if err := c.post(ctx, "upload video", "/media/upload", body, contentType, progress, &asset); err != nil {
		return nil, err
	}
	if asset.URL == "" || asset.PublicID == "" {
		return nil, &apperr.RemoteError{Op: "upload video", Message: "response is missing url or public_id"}
	}
	return &asset, nil
}

// UploadMany uploads 1..models.MaxBulkUploadFiles files in one request as multipart field "files".
// The assets are returned in request order.
func (c *Client) UploadMany(ctx context.Context, files []models.MediaFile, progress models.ProgressFunc) ([]models.MediaAsset, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("no files to upload")
	}
	if len(files) > models.MaxBulkUploadFiles {
		return nil, apperr.Validation("at most %d files can be uploaded at once, got %d", models.MaxBulkUploadFiles, len(files))
	}

	body, contentType, err := buildMultipart("files", files)
	if err != nil {
		return nil, apperr.Validation("bulk upload: %v", err)
	}

	var assets []models.MediaAsset
	if err := c.post(ctx, "bulk upload", "/media/bulk-upload", body, contentType, progress, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// DeleteAsset deletes a stored asset. An unknown asset fails with an error matching apperr.ErrNotFound.
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return apperr.Validation("asset id is required")
	}
	return c.api.JSON(ctx, "delete asset", http.MethodDelete, "/media/delete/"+url.PathEscape(assetID), nil, nil)
}

func (c *Client) post(ctx context.Context, op, path string, body []byte, contentType string, progress models.ProgressFunc, out any) error {
	reader := newProgressReader(body, progress)
	req, err := c.api.NewRequest(ctx, http.MethodPost, path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	if err := c.api.Do(req, op, out); err != nil {
		return err
	}
	reader.finish()
	return nil
}

func buildMultipart(field string, files []models.MediaFile) ([]byte, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for i, file := range files {
		if file.Content == nil {
			writer.Close()
			return nil, "", fmt.Errorf("file %d has no content", i+1)
		}
		name := filepath.Base(strings.TrimSpace(file.Name))
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = fmt.Sprintf("video-%d", i+1)
		}

		part, err := writer.CreatePart(filePartHeader(field, name))
		if err != nil {
			writer.Close()
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			writer.Close()
			return nil, "", fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalise request: %w", err)
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

// filePartHeader describes a form file part, typed by the file extension
func filePartHeader(field, name string) textproto.MIMEHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(name)))
	header.Set("Content-Type", storage.ContentTypeByName(name))
	return header
}

// progressReader reports the fraction of the body read so far.
// Reports never decrease and 1 is reported once, either on the last read or by finish.
type progressReader struct {
	mu       sync.Mutex
	reader   *bytes.Reader
	total    int64
	read     int64
	last     float64
	progress models.ProgressFunc
}

func newProgressReader(body []byte, progress models.ProgressFunc) *progressReader {
	return &progressReader{
		reader:   bytes.NewReader(body),
		total:    int64(len(body)),
		progress: progress,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.mu.Lock()
		r.read += int64(n)
		fraction := 1.0
		if r.total > 0 {
			fraction = float64(r.read) / float64(r.total)
		}
		r.report(fraction)
		r.mu.Unlock()
	}
	return n, err
}

func (r *progressReader) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report(1)
}

func (r *progressReader) report(fraction float64) {
	if r.progress == nil || fraction <= r.last {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	r.last = fraction
	r.progress(fraction)
}
