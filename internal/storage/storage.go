// Package storage persists uploaded media on local disk or in object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"babydiary/internal/config"
)

// Kind is the folder class of a stored object
type Kind int

const (
	KindImage Kind = iota
	KindVideo
	KindThumbnail
)

// ObjectPrefix is the folder prefix used in object storage buckets
const ObjectPrefix = "baby-diary"

// ErrInvalidKey is returned for keys that escape the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// Store saves and deletes objects by key
type Store interface {
	// Name identifies the driver ("local", "s3", "minio")
	Name() string

	// KeyFor returns the storage key of a file name in the folder for kind
	KeyFor(kind Kind, fileName string) string

	// Save writes body under key and returns its public URL
	Save(ctx context.Context, key, contentType string, body []byte) (string, error)

	// Delete removes the object; deleting a missing object is not an error
	Delete(ctx context.Context, key string) error
}

// New creates the store selected by STORAGE_DRIVER
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.StorageDriver) {
	case "local", "":
		return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL)
	case "minio":
		return NewMinioStore(ctx, MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

// objectKey lays out keys the same way for every object storage backend
func objectKey(kind Kind, fileName string) string {
	folder := "images"
	switch kind {
	case KindVideo:
		folder = "videos"
	case KindThumbnail:
		folder = "thumbnails"
	}
	return path.Join(ObjectPrefix, folder, fileName)
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
