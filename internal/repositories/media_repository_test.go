package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coursecraft/lms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMediaTestRepository creates a media repository with a mock database
func setupMediaTestRepository(t *testing.T) (*mediaRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewMediaRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestMediaRepository_Create(t *testing.T) {
	metadata := &models.MediaMetadata{
		ID:          "a1.mp4",
		ContentType: "video/mp4",
		Size:        2048,
		URL:         "http://localhost:8080/api/v1/media/files/a1.mp4",
	}

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO media_assets`).
					WithArgs("a1.mp4", "video/mp4", int64(2048), "http://localhost:8080/api/v1/media/files/a1.mp4").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate key error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO media_assets`).
					WillReturnError(errors.New("Error 1062: Duplicate entry 'a1.mp4' for key 'PRIMARY'"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMediaTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), metadata)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMediaRepository_GetByID(t *testing.T) {
	createdAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT content_type, size, url, created_at FROM media_assets WHERE id = \? LIMIT 1`).
					WithArgs("a1.mp4").
					WillReturnRows(sqlmock.NewRows([]string{"content_type", "size", "url", "created_at"}).
						AddRow("video/mp4", int64(2048), "http://media/a1.mp4", createdAt))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM media_assets WHERE id = \?`).
					WithArgs("a1.mp4").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: "media asset not found",
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM media_assets WHERE id = \?`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: "failed to get media metadata by id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMediaTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			metadata, err := repo.GetByID(context.Background(), "a1.mp4")

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, metadata)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "a1.mp4", metadata.ID)
				assert.Equal(t, "video/mp4", metadata.ContentType)
				assert.Equal(t, int64(2048), metadata.Size)
				assert.Equal(t, createdAt, metadata.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMediaRepository_DeleteByID(t *testing.T) {
	tests := []struct {
		name          string
		result        sql.Result
		err           error
		expectedError string
	}{
		{name: "success", result: sqlmock.NewResult(0, 1)},
		{name: "not found", result: sqlmock.NewResult(0, 0), expectedError: "media asset not found"},
		{name: "database error", err: errors.New("database error"), expectedError: "failed to delete media metadata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMediaTestRepository(t)
			defer cleanup()

			expectation := mock.ExpectExec(`DELETE FROM media_assets WHERE id = \?`).WithArgs("a1.mp4")
			if tt.err != nil {
				expectation.WillReturnError(tt.err)
			} else {
				expectation.WillReturnResult(tt.result)
			}

			err := repo.DeleteByID(context.Background(), "a1.mp4")

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMediaRepository_FindOrphans(t *testing.T) {
	before := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupMediaTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT m.id FROM media_assets m WHERE m.created_at < \? AND NOT EXISTS \(SELECT 1 FROM course_lectures l WHERE l.public_id = m.id\) AND NOT EXISTS \(SELECT 1 FROM courses c WHERE c.image = m.url\) ORDER BY m.created_at LIMIT \?`).
			WithArgs(before, 100).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a1.mp4").AddRow("a2.mp4"))

		ids, err := repo.FindOrphans(context.Background(), before, 100)

		require.NoError(t, err)
		assert.Equal(t, []string{"a1.mp4", "a2.mp4"}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no orphans", func(t *testing.T) {
		repo, mock, cleanup := setupMediaTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`FROM media_assets m`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		ids, err := repo.FindOrphans(context.Background(), before, 100)

		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupMediaTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`FROM media_assets m`).
			WillReturnError(errors.New("database error"))

		_, err := repo.FindOrphans(context.Background(), before, 100)

		assert.Error(t, err)
	})
}
