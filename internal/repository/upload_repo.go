package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"babydiary/internal/database"
	"babydiary/internal/models"
)

// UploadRepository handles database operations for stored upload records
type UploadRepository struct {
	db database.DBTX
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db database.DBTX) *UploadRepository {
	return &UploadRepository{db: db}
}

const uploadSelect = `
	SELECT id, user_id, storage_key, url, thumbnail_key, thumbnail_url, original_name, mimetype, size, resource_type, created_at
	FROM uploads
`

// CreateUpload records a stored file
func (r *UploadRepository) CreateUpload(ctx context.Context, upload *models.Upload) error {
	upload.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO uploads (user_id, storage_key, url, thumbnail_key, thumbnail_url, original_name, mimetype, size, resource_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		upload.UserID,
		upload.StorageKey,
		upload.URL,
		nullString(upload.ThumbnailKey),
		nullString(upload.ThumbnailURL),
		upload.OriginalName,
		upload.Mimetype,
		upload.Size,
		upload.ResourceType,
		upload.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	upload.ID = id
	return nil
}

// GetUploadByKey retrieves an upload by its storage key
func (r *UploadRepository) GetUploadByKey(ctx context.Context, key string) (*models.Upload, error) {
	return scanUpload(r.db.QueryRowContext(ctx, uploadSelect+" WHERE storage_key = ?", key))
}

// GetUploadByURL retrieves an upload by its public URL
func (r *UploadRepository) GetUploadByURL(ctx context.Context, url string) (*models.Upload, error) {
	return scanUpload(r.db.QueryRowContext(ctx, uploadSelect+" WHERE url = ? ORDER BY id DESC LIMIT 1", url))
}

// DeleteUpload removes an upload record
func (r *UploadRepository) DeleteUpload(ctx context.Context, uploadID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM uploads WHERE id = ?", uploadID); err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

func scanUpload(row *sql.Row) (*models.Upload, error) {
	upload := &models.Upload{}
	var thumbnailKey, thumbnailURL sql.NullString
	err := row.Scan(
		&upload.ID,
		&upload.UserID,
		&upload.StorageKey,
		&upload.URL,
		&thumbnailKey,
		&thumbnailURL,
		&upload.OriginalName,
		&upload.Mimetype,
		&upload.Size,
		&upload.ResourceType,
		&upload.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	upload.ThumbnailKey = stringPtr(thumbnailKey)
	upload.ThumbnailURL = stringPtr(thumbnailURL)
	return upload, nil
}
