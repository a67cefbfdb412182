package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coursecraft/lms/internal/models"
)

// mediaRepository implements media asset metadata operations
type mediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *sql.DB) *mediaRepository {
	return &mediaRepository{
		db: db,
	}
}

// Create inserts a new media asset record
func (r *mediaRepository) Create(ctx context.Context, metadata *models.MediaMetadata) error {
	query := `
		INSERT INTO media_assets (id, content_type, size, url)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		metadata.ID,
		metadata.ContentType,
		metadata.Size,
		metadata.URL,
	)
	if err != nil {
		return fmt.Errorf("failed to create media metadata: %w", err)
	}

	return nil
}

// GetByID retrieves a media asset record by ID
func (r *mediaRepository) GetByID(ctx context.Context, id string) (*models.MediaMetadata, error) {
	query := `
		SELECT content_type, size, url, created_at
		FROM media_assets
		WHERE id = ?
		LIMIT 1
	`

	metadata := &models.MediaMetadata{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&metadata.ContentType,
		&metadata.Size,
		&metadata.URL,
		&metadata.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media asset not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media metadata by id: %w", err)
	}

	metadata.ID = id
	return metadata, nil
}

// DeleteByID deletes a media asset record by ID
func (r *mediaRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM media_assets WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete media metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("media asset not found")
	}

	return nil
}

// FindOrphans returns the ids of assets created before the given time that neither
// a lecture (by public id) nor a course cover (by url) references
//
// "limit" bounds the number of ids returned by one call.
func (r *mediaRepository) FindOrphans(ctx context.Context, before time.Time, limit int) ([]string, error) {
	query := `
		SELECT m.id
		FROM media_assets m
		WHERE m.created_at < ?
			AND NOT EXISTS (SELECT 1 FROM course_lectures l WHERE l.public_id = m.id)
			AND NOT EXISTS (SELECT 1 FROM courses c WHERE c.image = m.url)
		ORDER BY m.created_at
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orphaned media: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan media id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}
