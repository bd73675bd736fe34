package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"babydiary/internal/service"
)

// multipartMemory is the part of a multipart body kept in memory before
// spilling to temporary files
const multipartMemory = 32 << 20

// UploadHandler handles media upload requests
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadFiles stores the files of the multipart "files" field
func (h *UploadHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	limits := h.uploadService.Limits()

	// Room for every file at full size plus the multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, int64(limits.MaxFiles)*limits.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusBadRequest, "Upload exceeds the maximum request size", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form", "", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) > limits.MaxFiles {
		respondWithServiceError(w, fmt.Errorf("%w: at most %d files per upload", service.ErrTooManyFiles, limits.MaxFiles), "")
		return
	}

	files := make([]service.FileInput, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > limits.MaxFileSize {
			respondWithServiceError(w, fmt.Errorf("%w: %s exceeds %d MB", service.ErrFileTooLarge, fh.Filename, limits.MaxFileSize/(1024*1024)), "")
			return
		}
		data, err := readPart(fh)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Failed to read uploaded file", "Read upload error", err)
			return
		}
		files = append(files, service.FileInput{
			OriginalName: fh.Filename,
			ContentType:  fh.Header.Get("Content-Type"),
			Data:         data,
		})
	}

	uploaded, err := h.uploadService.Upload(r.Context(), user.ID, files)
	if err != nil {
		respondWithServiceError(w, err, "Upload error")
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{
		"files": uploaded,
		"count": len(uploaded),
	}, fmt.Sprintf("%d file(s) uploaded", len(uploaded)))
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// DeleteFile removes one of the requester's uploads
func (h *UploadHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		FileName string `json:"fileName"`
		PublicID string `json:"publicId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	if err := h.uploadService.Delete(r.Context(), user.ID, req.FileName, req.PublicID); err != nil {
		respondWithServiceError(w, err, "Delete upload error")
		return
	}

	respondWithMessage(w, "File deleted")
}
