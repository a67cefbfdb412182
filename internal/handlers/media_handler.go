package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxMultipartMemory is the part of a multipart body kept in memory; the rest spills to temp files
const maxMultipartMemory = 32 << 20

// MediaService defines the interface for media service operations
type MediaService interface {
	// Method UploadOne stores a single file.
	//
	// Returns the stored asset, or an error if the file could not be stored.
	UploadOne(ctx context.Context, file models.UploadFile) (*models.MediaAsset, error)
	// Method UploadMany stores up to models.MaxBulkUploadFiles files.
	//
	// Either every file is stored or none is.
	UploadMany(ctx context.Context, files []models.UploadFile) ([]models.MediaAsset, error)
	// Method Delete removes an asset.
	//
	// The error contains "not found" if the asset does not exist.
	Delete(ctx context.Context, id string) error
	// Method Open returns the metadata and the file of an asset for streaming.
	Open(ctx context.Context, id string) (*models.MediaMetadata, *os.File, error)
}

// MediaHandler handles media-related HTTP requests
type MediaHandler struct {
	BaseHandler
	mediaService MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		mediaService: mediaService,
	}
}

// RegisterRoutes registers the instructor media routes. ServeFile is public and registered separately.
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/media", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Post("/bulk-upload", h.BulkUpload)
		r.Delete("/delete/{id}", h.Delete)
	})
}

// Upload handles POST /media/upload
// @Summary Upload a media file
// @Description Upload a single lecture video or image
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 200 {object} map[string]interface{} "success and the stored asset (url, public_id)"
// @Failure 400 {object} map[string]interface{} "No file uploaded"
// @Failure 413 {object} map[string]interface{} "Upload too large"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Error uploading file"
// @Router /media/upload [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.respondMultipartError(w, err, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	asset, err := h.mediaService.UploadOne(r.Context(), models.UploadFile{
		Name:        fileHeader.Filename,
		ContentType: partContentType(fileHeader),
		Content:     file,
	})
	if err != nil {
		if apperr.IsValidation(err) {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("failed to upload file", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Error uploading file")
		return
	}

	h.RespondSuccess(w, http.StatusOK, asset)
}

// BulkUpload handles POST /media/bulk-upload
// @Summary Upload several media files
// @Description Upload up to 10 lecture videos at once. Either every file is stored or none is.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Files to upload"
// @Success 200 {object} map[string]interface{} "success and the stored assets in upload order"
// @Failure 400 {object} map[string]interface{} "No files uploaded or too many files"
// @Failure 413 {object} map[string]interface{} "Upload too large"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Error in bulk uploading files"
// @Router /media/bulk-upload [post]
func (h *MediaHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.respondMultipartError(w, err, "No files uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		h.RespondError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(headers) > models.MaxBulkUploadFiles {
		h.RespondError(w, http.StatusBadRequest, fmt.Sprintf("Too many files, at most %d can be uploaded at once", models.MaxBulkUploadFiles))
		return
	}

	files := make([]models.UploadFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			h.Logger.Error("failed to open uploaded file", zap.String("name", header.Filename), zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, "Error in bulk uploading files")
			return
		}
		defer file.Close()

		files = append(files, models.UploadFile{
			Name:        header.Filename,
			ContentType: partContentType(header),
			Content:     file,
		})
	}

	assets, err := h.mediaService.UploadMany(r.Context(), files)
	if err != nil {
		if apperr.IsValidation(err) {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("failed to bulk upload files", zap.Int("files", len(files)), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Error in bulk uploading files")
		return
	}

	h.RespondSuccess(w, http.StatusOK, assets)
}

// Delete handles DELETE /media/delete/{id}
// @Summary Delete a media asset
// @Description Delete a stored asset and its metadata
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 200 {object} map[string]interface{} "Asset deleted successfully"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Asset not found"
// @Failure 500 {object} map[string]interface{} "Error deleting file"
// @Router /media/delete/{id} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		h.RespondError(w, http.StatusBadRequest, "Asset ID is required")
		return
	}

	if err := h.mediaService.Delete(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.Logger.Info("asset not found", zap.String("id", id))
			h.RespondError(w, http.StatusNotFound, "Asset not found")
			return
		}
		h.Logger.Error("failed to delete asset", zap.String("id", id), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Error deleting file")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Asset deleted successfully")
}

// ServeFile handles GET /media/files/{id}
// @Summary Stream a media file
// @Description Stream a stored asset. Range requests are supported.
// @Tags media
// @Produce application/octet-stream
// @Param id path string true "Asset ID"
// @Param Range header string false "Range"
// @Success 200 "File content"
// @Success 206 "Partial file content (for range requests)"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /media/files/{id} [get]
func (h *MediaHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	metadata, file, err := h.mediaService.Open(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.RespondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.Logger.Error("failed to open file", zap.String("id", id), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get file info")
		return
	}

	if metadata.ContentType != "" {
		w.Header().Set("Content-Type", metadata.ContentType)
	}
	http.ServeContent(w, r, id, fileInfo.ModTime(), file)
}

// respondMultipartError answers 413 when the body hit the request size limit and 400 otherwise
func (h *MediaHandler) respondMultipartError(w http.ResponseWriter, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.RespondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds the %d bytes limit", tooLarge.Limit))
		return
	}
	h.Logger.Info("failed to parse multipart form", zap.Error(err))
	h.RespondError(w, http.StatusBadRequest, message)
}

// partContentType returns the declared content type of a multipart file part
func partContentType(header *multipart.FileHeader) string {
	if contentType := header.Header.Get("Content-Type"); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}
