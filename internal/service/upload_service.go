package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"babydiary/internal/media"
	"babydiary/internal/models"
	"babydiary/internal/repository"
	"babydiary/internal/storage"
)

var (
	ErrNoFiles             = errors.New("no files to upload")
	ErrTooManyFiles        = errors.New("too many files")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrMissingFileRef      = errors.New("fileName or publicId is required")
)

// allowedMimeTypes maps accepted upload types to their resource type
var allowedMimeTypes = map[string]string{
	"image/jpeg":      models.ResourceImage,
	"image/png":       models.ResourceImage,
	"image/gif":       models.ResourceImage,
	"image/webp":      models.ResourceImage,
	"video/mp4":       models.ResourceVideo,
	"video/mov":       models.ResourceVideo,
	"video/quicktime": models.ResourceVideo,
	"video/avi":       models.ResourceVideo,
	"video/mkv":       models.ResourceVideo,
}

var videoExtensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/mov":       ".mov",
	"video/quicktime": ".mov",
	"video/avi":       ".avi",
	"video/mkv":       ".mkv",
}

// UploadLimits bounds a single upload request
type UploadLimits struct {
	MaxFiles    int
	MaxFileSize int64
}

// FileInput is one received file
type FileInput struct {
	OriginalName string
	ContentType  string
	Data         []byte
}

// UploadedFile describes a stored file to the client
type UploadedFile struct {
	OriginalName      string  `json:"originalName"`
	FileName          string  `json:"fileName"`
	PublicID          string  `json:"publicId"`
	Mimetype          string  `json:"mimetype"`
	Size              int64   `json:"size"`
	URL               string  `json:"url"`
	ThumbnailURL      *string `json:"thumbnailUrl,omitempty"`
	ThumbnailPublicID *string `json:"thumbnailPublicId,omitempty"`
	ResourceType      string  `json:"resourceType"`
}

// UploadService validates, transforms and stores media files
type UploadService struct {
	store      storage.Store
	processor  *media.Processor
	uploadRepo *repository.UploadRepository
	limits     UploadLimits
}

// NewUploadService creates a new upload service
func NewUploadService(store storage.Store, processor *media.Processor, uploadRepo *repository.UploadRepository, limits UploadLimits) *UploadService {
	return &UploadService{
		store:      store,
		processor:  processor,
		uploadRepo: uploadRepo,
		limits:     limits,
	}
}

// Limits returns the configured request bounds
func (s *UploadService) Limits() UploadLimits {
	return s.limits
}

// DetectContentType returns the declared type, sniffing the bytes when the
// client sent none
func DetectContentType(declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "" || declared == "application/octet-stream" {
		declared = http.DetectContentType(data)
	}
	mediaType, _, _ := strings.Cut(declared, ";")
	return strings.TrimSpace(mediaType)
}

// CheckFile applies the size and type rules to one file
func (s *UploadService) CheckFile(name, contentType string, size int64) error {
	if size > s.limits.MaxFileSize {
		return fmt.Errorf("%w: %s exceeds %d MB", ErrFileTooLarge, name, s.limits.MaxFileSize/(1024*1024))
	}
	if _, ok := allowedMimeTypes[contentType]; !ok {
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFileType, name, contentType)
	}
	return nil
}

// storedFile is the outcome of storing one file
type storedFile struct {
	response *UploadedFile
	record   *models.Upload
	keys     []string
}

// Upload stores all files concurrently. If any file fails, every object
// stored for the request is deleted again and the request fails.
func (s *UploadService) Upload(ctx context.Context, userID int64, files []FileInput) ([]UploadedFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > s.limits.MaxFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload", ErrTooManyFiles, s.limits.MaxFiles)
	}
	for i := range files {
		files[i].ContentType = DetectContentType(files[i].ContentType, files[i].Data)
		if err := s.CheckFile(files[i].OriginalName, files[i].ContentType, int64(len(files[i].Data))); err != nil {
			return nil, err
		}
	}

	stored := make([]storedFile, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			return s.storeFile(gctx, userID, file, &stored[i])
		})
	}
	if err := g.Wait(); err != nil {
		s.rollback(ctx, stored)
		return nil, err
	}

	results := make([]UploadedFile, len(stored))
	for i := range stored {
		if err := s.uploadRepo.CreateUpload(ctx, stored[i].record); err != nil {
			s.rollback(ctx, stored)
			return nil, err
		}
		results[i] = *stored[i].response
	}

	return results, nil
}

// storeFile fills out as soon as each object is written so a failure can
// clean up partial work
func (s *UploadService) storeFile(ctx context.Context, userID int64, file FileInput, out *storedFile) error {
	resourceType := allowedMimeTypes[file.ContentType]
	id := uuid.NewString()

	record := &models.Upload{
		UserID:       userID,
		OriginalName: file.OriginalName,
		ResourceType: resourceType,
	}
	out.record = record

	var body []byte
	var thumbnail []byte
	var fileName string

	if resourceType == models.ResourceImage {
		processed, err := s.processor.Process(file.Data)
		if err != nil {
			return fmt.Errorf("%w: %s", err, file.OriginalName)
		}
		body = processed.Image
		thumbnail = processed.Thumbnail
		fileName = id + ".jpg"
		record.Mimetype = "image/jpeg"
		record.StorageKey = s.store.KeyFor(storage.KindImage, fileName)
	} else {
		body = file.Data
		fileName = id + videoExtension(file)
		record.Mimetype = file.ContentType
		record.StorageKey = s.store.KeyFor(storage.KindVideo, fileName)
	}

	url, err := s.store.Save(ctx, record.StorageKey, record.Mimetype, body)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", file.OriginalName, err)
	}
	out.keys = append(out.keys, record.StorageKey)
	record.URL = url
	record.Size = int64(len(body))

	response := &UploadedFile{
		OriginalName: file.OriginalName,
		FileName:     fileName,
		PublicID:     record.StorageKey,
		Mimetype:     record.Mimetype,
		Size:         record.Size,
		URL:          url,
		ResourceType: resourceType,
	}

	if thumbnail != nil {
		thumbKey := s.store.KeyFor(storage.KindThumbnail, "thumb_"+fileName)
		thumbURL, err := s.store.Save(ctx, thumbKey, "image/jpeg", thumbnail)
		if err != nil {
			return fmt.Errorf("failed to store thumbnail of %s: %w", file.OriginalName, err)
		}
		out.keys = append(out.keys, thumbKey)
		record.ThumbnailKey = &thumbKey
		record.ThumbnailURL = &thumbURL
		response.ThumbnailURL = &thumbURL
		response.ThumbnailPublicID = &thumbKey
	}

	out.response = response
	return nil
}

func videoExtension(file FileInput) string {
	if ext := strings.ToLower(filepath.Ext(file.OriginalName)); ext != "" && len(ext) <= 5 {
		return ext
	}
	return videoExtensions[file.ContentType]
}

// rollback deletes the objects and records of a failed request
func (s *UploadService) rollback(ctx context.Context, stored []storedFile) {
	ctx = context.WithoutCancel(ctx)
	for _, f := range stored {
		for _, key := range f.keys {
			if err := s.store.Delete(ctx, key); err != nil {
				log.Printf("Upload cleanup failed for %s: %v", key, err)
			}
		}
		if f.record != nil && f.record.ID != 0 {
			if err := s.uploadRepo.DeleteUpload(ctx, f.record.ID); err != nil {
				log.Printf("Upload record cleanup failed for %s: %v", f.record.StorageKey, err)
			}
		}
	}
}

// Delete removes a stored file, its thumbnail and its record. Files are
// referenced by storage key (publicId) or by the file name returned at upload.
func (s *UploadService) Delete(ctx context.Context, userID int64, fileName, publicID string) error {
	var keys []string
	switch {
	case publicID != "":
		keys = []string{publicID}
	case fileName != "":
		if fileName != path.Base(fileName) || strings.Contains(fileName, "..") {
			return ErrFileNotFound
		}
		keys = []string{
			s.store.KeyFor(storage.KindImage, fileName),
			s.store.KeyFor(storage.KindVideo, fileName),
		}
	default:
		return ErrMissingFileRef
	}

	var record *models.Upload
	for _, key := range keys {
		found, err := s.uploadRepo.GetUploadByKey(ctx, key)
		if err != nil {
			return err
		}
		if found != nil {
			record = found
			break
		}
	}
	if record == nil {
		return ErrFileNotFound
	}
	if record.UserID != userID {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, record.StorageKey); err != nil {
		return err
	}
	if record.ThumbnailKey != nil {
		if err := s.store.Delete(ctx, *record.ThumbnailKey); err != nil {
			return err
		}
	}
	return s.uploadRepo.DeleteUpload(ctx, record.ID)
}
