package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// mediaKind is the storage directory lecture media lives in
const mediaKind = "video"

// bulkUploadConcurrency bounds the files stored at once by UploadMany
const bulkUploadConcurrency = 4

// Storage defines the interface for file storage operations
type Storage interface {
	// Create creates a new file and returns a WriteCloser
	// The file path is generated based on id and kind
	Create(id, kind string) (io.WriteCloser, error)

	// OpenFile opens a file and returns *os.File for use with http.ServeContent
	OpenFile(id, kind string) (*os.File, error)

	// Delete removes a file
	Delete(id, kind string) error
}

// MediaRepository defines the interface for media metadata access
type MediaRepository interface {
	Create(ctx context.Context, metadata *models.MediaMetadata) error
	// GetByID returns an error containing "not found" if the asset does not exist
	GetByID(ctx context.Context, id string) (*models.MediaMetadata, error)
	DeleteByID(ctx context.Context, id string) error
	FindOrphans(ctx context.Context, before time.Time, limit int) ([]string, error)
}

// MediaService stores lecture media and its metadata
type MediaService struct {
	repo    MediaRepository
	storage Storage
	baseURL string
	logger  *zap.Logger
}

// NewMediaService creates a new media service.
//
// "baseURL" is the public address of the API; asset URLs are built from it.
func NewMediaService(repo MediaRepository, storage Storage, baseURL string, logger *zap.Logger) *MediaService {
	return &MediaService{
		repo:    repo,
		storage: storage,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// UploadOne stores a single file and records its metadata
func (s *MediaService) UploadOne(ctx context.Context, file models.UploadFile) (*models.MediaAsset, error) {
	if file.Content == nil {
		return nil, apperr.Validation("file content is required")
	}

	contentType := file.ContentType
	if storage.IsGenericContentType(contentType) {
		contentType = storage.ContentTypeByName(file.Name)
	}

	extension := s.InferExtensionFromContentType(contentType)
	if extension == "" {
		extension = filepath.Ext(file.Name)
	}
	filename := storage.GenerateFileName(extension)

	// Create SizeWriter to track bytes
	sizeWriter := storage.NewSizeWriter()
	teeReader := io.TeeReader(file.Content, sizeWriter)

	writeCloser, err := s.storage.Create(filename, mediaKind)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(writeCloser, teeReader); err != nil {
		writeCloser.Close()
		s.storage.Delete(filename, mediaKind)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := writeCloser.Close(); err != nil {
		s.storage.Delete(filename, mediaKind)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	metadata := &models.MediaMetadata{
		ID:          filename,
		ContentType: contentType,
		Size:        sizeWriter.Size(),
		URL:         s.fileURL(filename),
	}
	if err := s.repo.Create(ctx, metadata); err != nil {
		// Cleanup: delete the file if metadata creation fails
		s.storage.Delete(filename, mediaKind)
		return nil, fmt.Errorf("failed to create metadata: %w", err)
	}

	s.logger.Info("media asset stored",
		zap.String("asset", filename),
		zap.String("name", file.Name),
		zap.Int64("size", metadata.Size),
	)
	return &models.MediaAsset{URL: metadata.URL, PublicID: filename}, nil
}

// UploadMany stores files concurrently and returns their assets in input order.
// Either every file is stored or none is: on failure the assets already stored are removed.
func (s *MediaService) UploadMany(ctx context.Context, files []models.UploadFile) ([]models.MediaAsset, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("no files to upload")
	}
	if len(files) > models.MaxBulkUploadFiles {
		return nil, apperr.Validation("at most %d files can be uploaded at once", models.MaxBulkUploadFiles)
	}

	stored := make([]*models.MediaAsset, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkUploadConcurrency)
	for i, file := range files {
		g.Go(func() error {
			asset, err := s.UploadOne(gctx, file)
			if err != nil {
				return fmt.Errorf("file %q: %w", file.Name, err)
			}
			stored[i] = asset
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, asset := range stored {
			if asset == nil {
				continue
			}
			// The request context may already be cancelled
			if rmErr := s.remove(context.WithoutCancel(ctx), asset.PublicID); rmErr != nil {
				s.logger.Error("failed to remove asset of failed bulk upload",
					zap.String("asset", asset.PublicID),
					zap.Error(rmErr),
				)
			}
		}
		return nil, err
	}

	assets := make([]models.MediaAsset, len(stored))
	for i, asset := range stored {
		assets[i] = *asset
	}
	return assets, nil
}

// Delete removes an asset file and its metadata.
//
// Returns an error containing "not found" if the asset does not exist.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.remove(ctx, id)
}

func (s *MediaService) remove(ctx context.Context, id string) error {
	// A missing file still leaves metadata to delete
	if err := s.storage.Delete(id, mediaKind); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	return nil
}

// GetMetadataByID retrieves metadata by ID
func (s *MediaService) GetMetadataByID(ctx context.Context, id string) (*models.MediaMetadata, error) {
	return s.repo.GetByID(ctx, id)
}

// Open returns the metadata and an *os.File for use with http.ServeContent
func (s *MediaService) Open(ctx context.Context, id string) (*models.MediaMetadata, *os.File, error) {
	metadata, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.storage.OpenFile(id, mediaKind)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return metadata, file, nil
}

// FindOrphans lists assets created before the given time that no lecture references
func (s *MediaService) FindOrphans(ctx context.Context, before time.Time, limit int) ([]string, error) {
	return s.repo.FindOrphans(ctx, before, limit)
}

func (s *MediaService) fileURL(id string) string {
	return s.baseURL + "/api/v1/media/files/" + id
}

// InferExtensionFromContentType infers the extension from the content type
//
// "contentType" parameter is the content type to infer the extension from.
//
// Returns the inferred extension, or empty string if the extension cannot be inferred.
func (s *MediaService) InferExtensionFromContentType(contentType string) string {
	return storage.ExtensionByContentType(strings.ToLower(contentType))
}
